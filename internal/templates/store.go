package templates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/maturity-pathway/backend/internal/models"
)

var ErrNotFound = errors.New("assessment not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Upsert inserts the template or, when one with the same source exists,
// replaces its content in place so existing ids stay valid.
func (s *Store) Upsert(ctx context.Context, t *models.Template) error {
	org, err := json.Marshal(t.Organisation)
	if err != nil {
		return fmt.Errorf("upsert assessment %s: encode organisation: %w", t.Source, err)
	}
	tree, err := json.Marshal(t.Assessment)
	if err != nil {
		return fmt.Errorf("upsert assessment %s: encode tree: %w", t.Source, err)
	}

	err = s.db.QueryRowContext(ctx,
		`INSERT INTO assessments (source, title, description, owner, organisation, public, style, tree)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (source) DO UPDATE
		 SET title = EXCLUDED.title, description = EXCLUDED.description, owner = EXCLUDED.owner,
		     organisation = EXCLUDED.organisation, public = EXCLUDED.public,
		     style = EXCLUDED.style, tree = EXCLUDED.tree, updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		t.Source, t.Title, t.Description, t.Owner, string(org), t.Public, t.Style, string(tree),
	).Scan(&t.ID, &t.CreatedAt, &t.ModifiedAt)
	if err != nil {
		return fmt.Errorf("upsert assessment %s: %w", t.Source, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id int64) (*models.Template, error) {
	var (
		t         models.Template
		org, tree []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, title, description, owner, organisation, public, tree, created_at, updated_at
		 FROM assessments WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Source, &t.Title, &t.Description, &t.Owner, &org, &t.Public, &tree, &t.CreatedAt, &t.ModifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get assessment %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment %d: %w", id, err)
	}

	if err := json.Unmarshal(org, &t.Organisation); err != nil {
		return nil, fmt.Errorf("get assessment %d: decode organisation: %w", id, err)
	}
	if err := json.Unmarshal(tree, &t.Assessment); err != nil {
		return nil, fmt.Errorf("get assessment %d: decode tree: %w", id, err)
	}
	return &t, nil
}

func (s *Store) List(ctx context.Context) ([]models.TemplateSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, title, description, organisation, style, updated_at
		 FROM assessments ORDER BY title`,
	)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var out []models.TemplateSummary
	for rows.Next() {
		var (
			ts  models.TemplateSummary
			org []byte
		)
		if err := rows.Scan(&ts.ID, &ts.Source, &ts.Title, &ts.Description, &org, &ts.Style, &ts.ModifiedAt); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		if err := json.Unmarshal(org, &ts.Organisation); err != nil {
			return nil, fmt.Errorf("decode organisation of %s: %w", ts.Source, err)
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}
