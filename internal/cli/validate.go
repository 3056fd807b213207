package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/maturity-pathway/backend/internal/models"
	"github.com/maturity-pathway/backend/internal/scoring"
)

// NewValidateCommand creates the 'maturity validate' command
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check assessment files for structural problems",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	failed := 0
	for _, path := range args {
		style, err := validateFile(path)
		if err == nil {
			green.Fprintf(out, "✓ %s", path)
			fmt.Fprintf(out, " (%s)\n", style)
			continue
		}

		failed++
		red.Fprintf(out, "✗ %s\n", path)
		var verr *scoring.ValidationError
		if errors.As(err, &verr) {
			for _, d := range verr.Details() {
				fmt.Fprintf(out, "    %s\n", d)
			}
		} else {
			fmt.Fprintf(out, "    %v\n", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files invalid", failed, len(args))
	}
	return nil
}

func validateFile(path string) (models.Style, error) {
	tree, err := readTree(path)
	if err != nil {
		return "", err
	}
	return scoring.ResolveStyle(tree)
}
