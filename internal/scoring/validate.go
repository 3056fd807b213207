package scoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/maturity-pathway/backend/internal/models"
)

// ErrInvalidTree is wrapped by every validation failure.
var ErrInvalidTree = errors.New("invalid assessment tree")

// Problem is one defect found in a tree, located by a human-readable path.
type Problem struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	if p.Path == "" {
		return p.Message
	}
	return p.Path + ": " + p.Message
}

// ValidationError lists every problem found in a tree. It unwraps to
// ErrInvalidTree.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidTree, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidTree }

// Details returns the problems as strings for error responses.
func (e *ValidationError) Details() []string {
	out := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		out[i] = p.String()
	}
	return out
}

// Validate rejects malformed trees: unknown or mixed styles, missing or out
// of range levels, questions without options, and duplicate names that
// would make answers ambiguous to address.
func Validate(a *models.Assessment) error {
	_, err := validate(a)
	return err
}

// ResolveStyle returns the style declared by the tree or, when none is
// declared, the style implied by its activities.
func ResolveStyle(a *models.Assessment) (models.Style, error) {
	return validate(a)
}

func validate(a *models.Assessment) (models.Style, error) {
	if a == nil {
		return "", &ValidationError{Problems: []Problem{{Message: "assessment is missing"}}}
	}

	v := &validator{max: a.MaxLevel()}

	for i, name := range a.Levels {
		if strings.TrimSpace(name) == "" {
			v.add(fmt.Sprintf("levels[%d]", i), "level name is empty")
		}
	}

	style := a.Style
	if style != "" && !models.ValidStyles[style] {
		v.add("style", fmt.Sprintf("unknown style %q", style))
	}
	if style == "" {
		style = v.inferStyle(a)
	}

	dimNames := map[string]bool{}
	for di := range a.Dimensions {
		dim := &a.Dimensions[di]
		dimPath := fmt.Sprintf("dimension %q", dim.Name)
		if strings.TrimSpace(dim.Name) == "" {
			dimPath = fmt.Sprintf("dimensions[%d]", di)
			v.add(dimPath, "name is required")
		} else if dimNames[dim.Name] {
			v.add(dimPath, "duplicate dimension name")
		}
		dimNames[dim.Name] = true

		actTitles := map[string]bool{}
		for ai := range dim.Activities {
			act := &dim.Activities[ai]
			actPath := fmt.Sprintf("%s > activity %q", dimPath, act.Title)
			if strings.TrimSpace(act.Title) == "" {
				actPath = fmt.Sprintf("%s > activities[%d]", dimPath, ai)
				v.add(actPath, "title is required")
			} else if actTitles[act.Title] {
				v.add(actPath, "duplicate activity title")
			}
			actTitles[act.Title] = true

			v.activity(act, actPath, style)
		}
	}

	if len(v.problems) > 0 {
		return style, &ValidationError{Problems: v.problems}
	}
	return style, nil
}

type validator struct {
	max      int
	problems []Problem
}

func (v *validator) add(path, msg string) {
	v.problems = append(v.problems, Problem{Path: path, Message: msg})
}

func (v *validator) inferStyle(a *models.Assessment) models.Style {
	var hasQuestions, hasStatements bool
	for _, d := range a.Dimensions {
		for _, act := range d.Activities {
			hasQuestions = hasQuestions || len(act.Questions) > 0
			hasStatements = hasStatements || len(act.Statements) > 0
		}
	}
	if hasQuestions && hasStatements {
		v.add("", "tree mixes selection questions and true/false statements")
	}
	if hasQuestions {
		return models.StyleSelection
	}
	return models.StyleBoolean
}

func (v *validator) activity(act *models.Activity, path string, style models.Style) {
	if len(act.Questions) > 0 && len(act.Statements) > 0 {
		v.add(path, "activity has both questions and statements")
		return
	}

	switch style {
	case models.StyleSelection:
		if len(act.Statements) > 0 {
			v.add(path, "true/false statements in a selection-style assessment")
			return
		}
	case models.StyleBoolean:
		if len(act.Questions) > 0 {
			v.add(path, "selection questions in a boolean-style assessment")
			return
		}
	}

	kind := "statement"
	if len(act.Questions) > 0 {
		kind = "question"
	}

	texts := map[string]bool{}
	for ii, it := range act.Items() {
		itemPath := fmt.Sprintf("%s > %s %d", path, kind, ii+1)
		if strings.TrimSpace(it.Text) == "" {
			v.add(itemPath, "text is required")
		} else if texts[it.Text] {
			v.add(itemPath, fmt.Sprintf("duplicate %s text %q", kind, it.Text))
		}
		texts[it.Text] = true

		if kind == "question" {
			v.question(it, itemPath)
			continue
		}
		v.level(it.AssociatedLevel, itemPath)
	}
}

func (v *validator) question(q models.Item, path string) {
	if len(q.Statements) == 0 {
		v.add(path, "question offers no statements")
		return
	}
	seen := map[int]bool{}
	for oi, opt := range q.Statements {
		optPath := fmt.Sprintf("%s > option %d", path, oi+1)
		v.level(opt.AssociatedLevel, optPath)
		if opt.AssociatedLevel != 0 && seen[opt.AssociatedLevel] {
			v.add(optPath, fmt.Sprintf("level %d offered twice", opt.AssociatedLevel))
		}
		seen[opt.AssociatedLevel] = true
	}
}

func (v *validator) level(level int, path string) {
	switch {
	case level == 0:
		v.add(path, "associatedLevel is required")
	case level < 1 || level > v.max:
		v.add(path, fmt.Sprintf("associatedLevel %d outside 1..%d", level, v.max))
	}
}
