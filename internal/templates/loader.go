package templates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/maturity-pathway/backend/internal/models"
	"github.com/maturity-pathway/backend/internal/scoring"
)

var ErrInvalidOrganisation = errors.New("organisation must have a name, country name and code, and home page")

// Upserter is the write side of the template store.
type Upserter interface {
	Upsert(ctx context.Context, t *models.Template) error
}

// LoadFile parses one template file. The source key is the file name
// without its extension.
func LoadFile(path string) (*models.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var t models.Template
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &t)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &t)
	default:
		return nil, fmt.Errorf("%s: unsupported file type", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	base := filepath.Base(path)
	t.Source = strings.TrimSuffix(base, filepath.Ext(base))
	t.ID = 0

	if err := validateOrganisation(t.Organisation); err != nil {
		return nil, fmt.Errorf("%s: %w", t.Source, err)
	}
	style, err := scoring.ResolveStyle(&t.Assessment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Source, err)
	}
	t.Style = style
	return &t, nil
}

// LoadDir loads every .json, .yaml and .yml file in dir, in name order.
// Files that fail to parse or validate are logged and skipped.
func LoadDir(dir string, log *zap.Logger) ([]*models.Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read template dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []*models.Template
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
		default:
			continue
		}

		t, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			fields := []zap.Field{zap.String("file", e.Name()), zap.Error(err)}
			var verr *scoring.ValidationError
			if errors.As(err, &verr) {
				fields = append(fields, zap.Strings("problems", verr.Details()))
			}
			log.Error("Skipping assessment template", fields...)
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Sync upserts each template keyed by source and returns how many were
// written. It stops at the first store error.
func Sync(ctx context.Context, store Upserter, templates []*models.Template, log *zap.Logger) (int, error) {
	for i, t := range templates {
		if err := store.Upsert(ctx, t); err != nil {
			return i, err
		}
		log.Info("Synced assessment template",
			zap.String("source", t.Source),
			zap.Int64("id", t.ID),
			zap.String("style", string(t.Style)),
		)
	}
	return len(templates), nil
}

func validateOrganisation(o models.Organisation) error {
	if strings.TrimSpace(o.Name) == "" ||
		strings.TrimSpace(o.Country.Name) == "" ||
		strings.TrimSpace(o.Country.Code) == "" ||
		strings.TrimSpace(o.HomePage) == "" {
		return ErrInvalidOrganisation
	}
	return nil
}
