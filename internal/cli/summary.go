package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/maturity-pathway/backend/internal/report"
)

// NewSummaryCommand creates the 'maturity summary' command
func NewSummaryCommand() *cobra.Command {
	var breakdown bool

	cmd := &cobra.Command{
		Use:   "summary <file>",
		Short: "Print achieved levels, completion and a coverage heatmap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := readTree(args[0])
			if err != nil {
				return err
			}
			rep, err := report.Build(tree)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), rep, breakdown)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&breakdown, "breakdown", "b", false, "list the items around each activity's achieved level")
	return cmd
}

func printSummary(w io.Writer, rep *report.Report, breakdown bool) {
	cyan := color.New(color.FgCyan, color.Bold)
	yellow := color.New(color.FgYellow)

	s := rep.Summary
	cyan.Fprintf(w, "\n=== Maturity Summary (%s) ===\n\n", s.Style)
	fmt.Fprintf(w, "  Overall level: ")
	levelColor(s.OverallAchievedLevel, len(s.Levels)).Fprintf(w, "%s\n", s.OverallLevelName)
	fmt.Fprintf(w, "  Activities complete: %d%%\n", s.ActivityCompletionPercentage)
	fmt.Fprintf(w, "  Items answered: %d%%\n", s.ItemCompletionPercentage)

	fmt.Fprintln(w)
	cyan.Fprintf(w, "Coverage by level:\n")
	fmt.Fprintf(w, "  %-32s", "")
	for i := range s.Levels {
		fmt.Fprintf(w, " %5s", fmt.Sprintf("L%d", i+1))
	}
	fmt.Fprintln(w)
	for _, row := range rep.Heatmap {
		label := row.Dimension
		if row.Activity != "" {
			label = "  " + row.Activity
		}
		fmt.Fprintf(w, "  %-32s", truncate(label, 32))
		for _, pct := range row.Cells {
			cellColor(pct).Fprintf(w, " %4d%%", pct)
		}
		fmt.Fprintln(w)
	}

	if breakdown {
		for _, d := range rep.Dimensions {
			fmt.Fprintln(w)
			cyan.Fprintf(w, "%s: %s\n", d.Name, d.LevelName)
			for _, a := range d.Activities {
				fmt.Fprintf(w, "  %s: %s (%d%% answered)\n", a.Title, a.LevelName, a.Completion)
				printRows(w, "current", a.Current)
				printRows(w, "next", a.Next)
				printRows(w, "higher", a.Higher)
			}
		}
	}

	if len(rep.Warnings) > 0 {
		fmt.Fprintln(w)
		for _, warning := range rep.Warnings {
			yellow.Fprintf(w, "warning: %s\n", warning)
		}
	}
}

func printRows(w io.Writer, heading string, rows []report.Row) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(w, "    %s:\n", heading)
	for _, r := range rows {
		mark := "-"
		switch {
		case r.Satisfied:
			mark = "✓"
		case r.Answered:
			mark = "✗"
		}
		fmt.Fprintf(w, "      %s [%s] %s", mark, r.LevelName, r.Text)
		if r.Selected != "" {
			fmt.Fprintf(w, ": %s", r.Selected)
		}
		if r.Notes != "" {
			fmt.Fprintf(w, " (%s)", r.Notes)
		}
		fmt.Fprintln(w)
	}
}

func levelColor(level, max int) *color.Color {
	switch {
	case level == 0:
		return color.New(color.FgRed)
	case level >= max:
		return color.New(color.FgGreen, color.Bold)
	default:
		return color.New(color.FgYellow)
	}
}

func cellColor(pct int) *color.Color {
	switch {
	case pct >= 100:
		return color.New(color.FgGreen)
	case pct >= 50:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n-1])) + "…"
}
