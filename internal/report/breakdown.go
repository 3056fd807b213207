package report

import (
	"github.com/maturity-pathway/backend/internal/models"
	"github.com/maturity-pathway/backend/internal/scoring"
)

// Row is one item as it appears in an activity breakdown.
type Row struct {
	Level     int    `json:"level"`
	LevelName string `json:"levelName"`
	Text      string `json:"text"`
	Answered  bool   `json:"answered"`
	Satisfied bool   `json:"satisfied"`
	// Negative marks a statement satisfied by answering false.
	Negative bool   `json:"negative,omitempty"`
	Selected string `json:"selected,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Breakdown groups an activity's items around its achieved level: the items
// at that level, the items needed for the next one, and anything above that
// the user has already answered or annotated.
type Breakdown struct {
	Title         string `json:"title"`
	AchievedLevel int    `json:"achievedLevel"`
	LevelName     string `json:"levelName"`
	Completion    int    `json:"completionPercentage"`
	Current       []Row  `json:"current"`
	Next          []Row  `json:"next"`
	Higher        []Row  `json:"higher"`
}

// ActivityBreakdown expects a scored activity. A selection question sits at
// the level of its answer; unanswered questions are what stands between the
// user and the next level.
func ActivityBreakdown(s scoring.CoverageStrategy, levels []string, act *models.Activity) Breakdown {
	level := achieved(act.UserProgress)
	b := Breakdown{
		Title:         act.Title,
		AchievedLevel: level,
		LevelName:     LevelName(levels, level),
		Completion:    act.CompletionPercentage,
		Current:       []Row{},
		Next:          []Row{},
		Higher:        []Row{},
	}

	for _, it := range act.Items() {
		row := Row{
			Text:      it.Text,
			Answered:  s.Answered(it),
			Satisfied: s.Satisfied(it),
		}
		if it.UserAnswer != nil {
			row.Notes = it.UserAnswer.Notes
		}

		if s.Style() == models.StyleSelection {
			row.Level = level + 1
			if row.Answered {
				row.Level = *it.UserAnswer.Level
				row.Selected = it.UserAnswer.Text
				if row.Selected == "" {
					if opt, ok := it.Option(row.Level); ok {
						row.Selected = opt.Text
					}
				}
			}
		} else {
			row.Level = it.AssociatedLevel
			row.Negative = !it.PositiveAnswer()
		}
		row.LevelName = LevelName(levels, row.Level)

		switch {
		case row.Level == level:
			b.Current = append(b.Current, row)
		case row.Level == level+1:
			b.Next = append(b.Next, row)
		case row.Answered || row.Notes != "":
			b.Higher = append(b.Higher, row)
		}
	}

	sortRows(b.Current)
	sortRows(b.Next)
	sortRows(b.Higher)
	return b
}
