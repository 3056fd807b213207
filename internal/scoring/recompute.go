package scoring

import (
	"fmt"

	"github.com/maturity-pathway/backend/internal/models"
)

// Warning flags a non-fatal condition found while scoring.
type Warning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (w Warning) String() string { return w.Path + ": " + w.Message }

// Result is a freshly scored copy of the input tree.
type Result struct {
	Assessment *models.Assessment
	Style      models.Style
	Totals     Totals
	Warnings   []Warning
}

// WarningStrings formats the warnings for responses and logs.
func (r *Result) WarningStrings() []string {
	if len(r.Warnings) == 0 {
		return nil
	}
	out := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		out[i] = w.String()
	}
	return out
}

// Recompute validates the tree and returns a deep copy with every
// activity, dimension and assessment-level progress field recomputed from
// the answers alone. The input is not modified. Previously stored progress
// is ignored, so recomputing a recomputed tree yields the same tree.
//
// Answers that cannot apply to their item are dropped with a warning.
// Empty activities and non-monotonic coverage are reported as warnings.
func Recompute(in *models.Assessment) (*Result, error) {
	style, err := validate(in)
	if err != nil {
		return nil, err
	}

	out := in.Clone()
	out.Style = style
	s := StrategyFor(style)
	res := &Result{Assessment: out, Style: style}

	for di := range out.Dimensions {
		dim := &out.Dimensions[di]
		dimPath := fmt.Sprintf("dimension %q", dim.Name)

		for ai := range dim.Activities {
			act := &dim.Activities[ai]
			actPath := fmt.Sprintf("%s > activity %q", dimPath, act.Title)

			items := act.Items()
			for ii := range items {
				for _, reason := range s.Sanitize(&items[ii]) {
					res.warn(fmt.Sprintf("%s > item %q", actPath, items[ii].Text), reason)
				}
			}
			if len(items) == 0 {
				res.warn(actPath, "activity has no items; excluded from completion")
			}

			ScoreActivity(s, act)
			if broken := CheckMonotonic(act.UserProgress.LevelCoveragePercent); len(broken) > 0 {
				res.warn(actPath, fmt.Sprintf("coverage increases at levels %v", broken))
			}
		}

		ScoreDimension(s, dim)
		if broken := CheckMonotonic(dim.UserProgress.LevelCoveragePercent); len(broken) > 0 {
			res.warn(dimPath, fmt.Sprintf("coverage increases at levels %v", broken))
		}
	}

	res.Totals = ScoreAssessment(s, out)
	return res, nil
}

func (r *Result) warn(path, msg string) {
	r.Warnings = append(r.Warnings, Warning{Path: path, Message: msg})
}
