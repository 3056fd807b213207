package scoring

import (
	"github.com/maturity-pathway/backend/internal/models"
)

// booleanStrategy scores statements that each carry a level and a polarity.
// A statement covers its own level only when answered with its polarity.
type booleanStrategy struct{}

func (booleanStrategy) Style() models.Style { return models.StyleBoolean }

func (booleanStrategy) Answered(item models.Item) bool {
	return item.UserAnswer != nil && item.UserAnswer.Answer != nil
}

func (b booleanStrategy) Satisfied(item models.Item) bool {
	return b.Answered(item) && *item.UserAnswer.Answer == item.PositiveAnswer()
}

func (booleanStrategy) Levels(items []models.Item) []int {
	set := levelSet{}
	for _, st := range items {
		set.add(st.AssociatedLevel)
	}
	return set.sorted()
}

func (b booleanStrategy) LevelCoverage(items []models.Item) models.LevelCoverage {
	total, positive := b.tally(items, nil, nil)
	return percentages(total, positive)
}

// RollUp pools positive/total counts per level across activities. Unlike
// selection style, levels at or below minAchieved are not forced to 100.
func (b booleanStrategy) RollUp(activities []models.Activity, _ int) models.LevelCoverage {
	total, positive := map[int]int{}, map[int]int{}
	for i := range activities {
		b.tally(activities[i].Items(), total, positive)
	}
	return percentages(total, positive)
}

func (booleanStrategy) Sanitize(item *models.Item) []string {
	ua := item.UserAnswer
	if ua == nil || ua.Level == nil {
		return nil
	}
	ua.Level = nil
	ua.Text = ""
	return []string{"level selection on a true/false statement ignored"}
}

func (b booleanStrategy) tally(items []models.Item, total, positive map[int]int) (map[int]int, map[int]int) {
	if total == nil {
		total = map[int]int{}
	}
	if positive == nil {
		positive = map[int]int{}
	}
	for _, st := range items {
		total[st.AssociatedLevel]++
		if b.Satisfied(st) {
			positive[st.AssociatedLevel]++
		}
	}
	return total, positive
}

func percentages(total, positive map[int]int) models.LevelCoverage {
	coverage := models.LevelCoverage{}
	for level, n := range total {
		if n == 0 {
			continue
		}
		coverage[level] = RoundPercent(positive[level], n)
	}
	return coverage
}
