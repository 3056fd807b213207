package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/maturity-pathway/backend/internal/models"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates the root command for the maturity CLI
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maturity",
		Short: "Score maturity assessments offline",
		Long: `maturity scores assessment trees stored as JSON or YAML files.

It validates a tree, recomputes every progress field from the recorded
answers, and prints either the scored tree or a readable summary.`,
		Version:      Version,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewScoreCommand())
	cmd.AddCommand(NewSummaryCommand())

	return cmd
}

// readTree loads an assessment tree from a .json, .yaml or .yml file.
// Template and project files work too: fields outside the tree are ignored,
// and a project's assessmentData is unwrapped.
func readTree(path string) (*models.Assessment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc struct {
		models.Assessment `yaml:",inline"`
		AssessmentData    *models.Assessment `json:"assessmentData" yaml:"assessmentData"`
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &doc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%s: expected a .json, .yaml or .yml file", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if doc.AssessmentData != nil {
		return doc.AssessmentData, nil
	}
	return &doc.Assessment, nil
}
