package scoring

import (
	"fmt"

	"github.com/maturity-pathway/backend/internal/models"
)

// selectionStrategy scores questions that offer one statement per level.
// Picking level S covers every level up to and including S.
type selectionStrategy struct{}

func (selectionStrategy) Style() models.Style { return models.StyleSelection }

func (selectionStrategy) Answered(item models.Item) bool {
	return item.UserAnswer != nil && item.UserAnswer.Level != nil
}

func (s selectionStrategy) Satisfied(item models.Item) bool {
	return s.Answered(item)
}

func (selectionStrategy) Levels(items []models.Item) []int {
	set := levelSet{}
	for _, q := range items {
		for _, opt := range q.Statements {
			set.add(opt.AssociatedLevel)
		}
	}
	return set.sorted()
}

func (s selectionStrategy) LevelCoverage(items []models.Item) models.LevelCoverage {
	coverage := models.LevelCoverage{}
	total := len(items)
	if total == 0 {
		return coverage
	}
	for _, level := range s.Levels(items) {
		coverage[level] = RoundPercent(s.countAtOrAbove(items, level), total)
	}
	return coverage
}

func (s selectionStrategy) RollUp(activities []models.Activity, minAchieved int) models.LevelCoverage {
	type tally struct{ total, completed int }
	tallies := map[int]*tally{}

	for i := range activities {
		items := activities[i].Items()
		for _, level := range s.Levels(items) {
			t, ok := tallies[level]
			if !ok {
				t = &tally{}
				tallies[level] = t
			}
			t.total += len(items)
			t.completed += s.countAtOrAbove(items, level)
		}
	}

	coverage := models.LevelCoverage{}
	for level, t := range tallies {
		if level <= minAchieved {
			coverage[level] = 100
			continue
		}
		coverage[level] = RoundPercent(t.completed, t.total)
	}
	return coverage
}

func (selectionStrategy) Sanitize(item *models.Item) []string {
	ua := item.UserAnswer
	if ua == nil {
		return nil
	}
	var dropped []string
	if ua.Answer != nil {
		ua.Answer = nil
		dropped = append(dropped, "true/false answer on a selection question ignored")
	}
	if ua.Level != nil {
		if _, ok := item.Option(*ua.Level); !ok {
			dropped = append(dropped, fmt.Sprintf("selected level %d is not offered by the question; answer dropped", *ua.Level))
			ua.Level = nil
			ua.Text = ""
		}
	}
	return dropped
}

func (selectionStrategy) countAtOrAbove(items []models.Item, level int) int {
	n := 0
	for _, q := range items {
		if q.UserAnswer != nil && q.UserAnswer.Level != nil && *q.UserAnswer.Level >= level {
			n++
		}
	}
	return n
}
