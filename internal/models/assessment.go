package models

import (
	"errors"
	"fmt"
)

// Style selects how items in a questionnaire are answered and scored.
type Style string

const (
	// StyleSelection: each question offers one statement per level and the
	// user picks exactly one level.
	StyleSelection Style = "selection"
	// StyleBoolean: each statement carries its own level and is answered
	// true or false.
	StyleBoolean Style = "boolean"
)

var ValidStyles = map[Style]bool{
	StyleSelection: true,
	StyleBoolean:   true,
}

// DefaultLevels names maturity levels 1..5 when an assessment does not
// supply its own.
var DefaultLevels = []string{"Initial", "Repeatable", "Defined", "Managed", "Optimising"}

var ErrItemNotFound = errors.New("item not found")

// ── Questionnaire + Answer Overlay ───────────────────────

// LevelCoverage maps a maturity level to the percentage (0-100) of items
// satisfied at that level. Levels with no items are absent.
type LevelCoverage map[int]int

type Progress struct {
	AchievedLevel        int           `json:"achievedLevel" yaml:"achievedLevel"`
	LevelCoveragePercent LevelCoverage `json:"levelCoveragePercent" yaml:"levelCoveragePercent"`
}

type UserAnswer struct {
	Level  *int   `json:"level,omitempty" yaml:"level,omitempty"`
	Answer *bool  `json:"answer,omitempty" yaml:"answer,omitempty"`
	Text   string `json:"text,omitempty" yaml:"text,omitempty"`
	Notes  string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Item is a boolean-style statement or a selection-style question. A
// question lists its per-level options in Statements.
type Item struct {
	Text            string      `json:"text" yaml:"text"`
	AssociatedLevel int         `json:"associatedLevel,omitempty" yaml:"associatedLevel,omitempty"`
	Positive        *bool       `json:"positive,omitempty" yaml:"positive,omitempty"`
	Context         string      `json:"context,omitempty" yaml:"context,omitempty"`
	Notes           string      `json:"notes,omitempty" yaml:"notes,omitempty"`
	Tags            []string    `json:"tags,omitempty" yaml:"tags,omitempty"`
	Statements      []Item      `json:"statements,omitempty" yaml:"statements,omitempty"`
	UserAnswer      *UserAnswer `json:"userAnswer,omitempty" yaml:"userAnswer,omitempty"`
}

// PositiveAnswer is the answer value that satisfies a boolean statement.
// Statements without an explicit polarity are satisfied by true.
func (it Item) PositiveAnswer() bool {
	if it.Positive == nil {
		return true
	}
	return *it.Positive
}

// Option returns the question option offered at the given level.
func (it Item) Option(level int) (Item, bool) {
	for _, s := range it.Statements {
		if s.AssociatedLevel == level {
			return s, true
		}
	}
	return Item{}, false
}

type Activity struct {
	Title                string    `json:"title" yaml:"title"`
	Statements           []Item    `json:"statements,omitempty" yaml:"statements,omitempty"`
	Questions            []Item    `json:"questions,omitempty" yaml:"questions,omitempty"`
	CompletionPercentage int       `json:"completionPercentage,omitempty" yaml:"completionPercentage,omitempty"`
	UserProgress         *Progress `json:"userProgress,omitempty" yaml:"userProgress,omitempty"`
}

// Items returns the activity's leaf items. The returned slice shares its
// backing array with the activity.
func (a *Activity) Items() []Item {
	if len(a.Questions) > 0 {
		return a.Questions
	}
	return a.Statements
}

type Dimension struct {
	Name         string     `json:"name" yaml:"name"`
	Activities   []Activity `json:"activities" yaml:"activities"`
	UserProgress *Progress  `json:"userProgress,omitempty" yaml:"userProgress,omitempty"`
}

// Assessment is the questionnaire tree together with its answers and the
// derived progress. Templates carry the tree without answers; projects
// carry their own copy.
type Assessment struct {
	Style                         Style       `json:"style,omitempty" yaml:"style,omitempty"`
	Levels                        []string    `json:"levels,omitempty" yaml:"levels,omitempty"`
	Dimensions                    []Dimension `json:"dimensions" yaml:"dimensions"`
	OverallAchievedLevel          int         `json:"overallAchievedLevel,omitempty" yaml:"overallAchievedLevel,omitempty"`
	ActivityCompletionPercentage  int         `json:"activityCompletionPercentage,omitempty" yaml:"activityCompletionPercentage,omitempty"`
	StatementCompletionPercentage *int        `json:"statementCompletionPercentage,omitempty" yaml:"statementCompletionPercentage,omitempty"`
	QuestionCompletionPercentage  *int        `json:"questionCompletionPercentage,omitempty" yaml:"questionCompletionPercentage,omitempty"`
}

// LevelNames returns the assessment's level names, falling back to
// DefaultLevels.
func (a *Assessment) LevelNames() []string {
	if len(a.Levels) > 0 {
		return a.Levels
	}
	return DefaultLevels
}

// MaxLevel is N, the highest valid associatedLevel.
func (a *Assessment) MaxLevel() int {
	return len(a.LevelNames())
}

// ── Cloning ──────────────────────────────────────────────

// Clone returns a deep copy. Nil slices and maps stay nil so a clone is
// indistinguishable from its source after a JSON round trip.
func (a *Assessment) Clone() *Assessment {
	if a == nil {
		return nil
	}
	out := *a
	out.Levels = cloneStrings(a.Levels)
	out.StatementCompletionPercentage = cloneInt(a.StatementCompletionPercentage)
	out.QuestionCompletionPercentage = cloneInt(a.QuestionCompletionPercentage)
	if a.Dimensions != nil {
		out.Dimensions = make([]Dimension, len(a.Dimensions))
		for i, d := range a.Dimensions {
			out.Dimensions[i] = d.clone()
		}
	}
	return &out
}

func (d Dimension) clone() Dimension {
	out := d
	out.UserProgress = d.UserProgress.clone()
	if d.Activities != nil {
		out.Activities = make([]Activity, len(d.Activities))
		for i, a := range d.Activities {
			out.Activities[i] = a.clone()
		}
	}
	return out
}

func (a Activity) clone() Activity {
	out := a
	out.Statements = cloneItems(a.Statements)
	out.Questions = cloneItems(a.Questions)
	out.UserProgress = a.UserProgress.clone()
	return out
}

func (it Item) clone() Item {
	out := it
	out.Positive = cloneBool(it.Positive)
	out.Tags = cloneStrings(it.Tags)
	out.Statements = cloneItems(it.Statements)
	if it.UserAnswer != nil {
		out.UserAnswer = it.UserAnswer.clone()
	}
	return out
}

func (p *Progress) clone() *Progress {
	if p == nil {
		return nil
	}
	out := *p
	if p.LevelCoveragePercent != nil {
		out.LevelCoveragePercent = make(LevelCoverage, len(p.LevelCoveragePercent))
		for k, v := range p.LevelCoveragePercent {
			out.LevelCoveragePercent[k] = v
		}
	}
	return &out
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.clone()
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func (ua *UserAnswer) clone() *UserAnswer {
	out := *ua
	out.Level = cloneInt(ua.Level)
	out.Answer = cloneBool(ua.Answer)
	return &out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneBool(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// ── Answer Overlay ───────────────────────────────────────

// AnswerRef addresses one item by the names shown to the user.
type AnswerRef struct {
	Dimension string `json:"dimension"`
	Activity  string `json:"activity"`
	Item      string `json:"item"`
}

func (r AnswerRef) String() string {
	return fmt.Sprintf("%s / %s / %s", r.Dimension, r.Activity, r.Item)
}

// Find returns a pointer to the addressed item inside the tree.
func (a *Assessment) Find(ref AnswerRef) (*Item, error) {
	for di := range a.Dimensions {
		dim := &a.Dimensions[di]
		if dim.Name != ref.Dimension {
			continue
		}
		for ai := range dim.Activities {
			act := &dim.Activities[ai]
			if act.Title != ref.Activity {
				continue
			}
			items := act.Items()
			for ii := range items {
				if items[ii].Text == ref.Item {
					return &items[ii], nil
				}
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrItemNotFound, ref)
}

// SetAnswer overwrites the addressed item's answer. Notes from the previous
// answer are kept when the new one carries none, and an answer carrying
// only notes leaves the recorded level or true/false value in place. For
// questions, the text of the chosen option is recorded alongside the level.
func (a *Assessment) SetAnswer(ref AnswerRef, answer UserAnswer) error {
	item, err := a.Find(ref)
	if err != nil {
		return err
	}

	prev := item.UserAnswer
	if answer.Level == nil && answer.Answer == nil && prev != nil {
		next := prev.clone()
		if answer.Notes != "" {
			next.Notes = answer.Notes
		}
		item.UserAnswer = next
		return nil
	}

	next := UserAnswer{
		Level:  cloneInt(answer.Level),
		Answer: cloneBool(answer.Answer),
		Text:   answer.Text,
		Notes:  answer.Notes,
	}
	if next.Notes == "" && prev != nil {
		next.Notes = prev.Notes
	}
	if next.Level != nil && next.Text == "" {
		if opt, ok := item.Option(*next.Level); ok {
			next.Text = opt.Text
		}
	}
	item.UserAnswer = &next
	return nil
}

// SetNotes replaces the addressed item's notes without touching its answer.
// Empty notes remove them; an item left with neither answer nor notes
// becomes unanswered.
func (a *Assessment) SetNotes(ref AnswerRef, notes string) error {
	item, err := a.Find(ref)
	if err != nil {
		return err
	}

	next := &UserAnswer{}
	if item.UserAnswer != nil {
		next = item.UserAnswer.clone()
	}
	next.Notes = notes
	if next.Level == nil && next.Answer == nil && next.Notes == "" {
		item.UserAnswer = nil
		return nil
	}
	item.UserAnswer = next
	return nil
}

// ClearAnswer returns the addressed item to the unanswered state.
func (a *Assessment) ClearAnswer(ref AnswerRef) error {
	item, err := a.Find(ref)
	if err != nil {
		return err
	}
	item.UserAnswer = nil
	return nil
}
