package scoring

import (
	"github.com/maturity-pathway/backend/internal/models"
)

// CoverageStrategy captures everything that differs between the two
// questionnaire styles. One strategy is chosen per assessment and used for
// every activity and dimension in it.
type CoverageStrategy interface {
	Style() models.Style

	// Answered reports whether the item counts towards completion.
	Answered(item models.Item) bool

	// Satisfied reports whether the item's answer counts towards coverage.
	Satisfied(item models.Item) bool

	// Levels returns the levels present among the items, ascending.
	Levels(items []models.Item) []int

	// LevelCoverage computes the percentage of items satisfied per level for
	// one activity.
	LevelCoverage(items []models.Item) models.LevelCoverage

	// RollUp computes a dimension's coverage from its non-empty activities.
	// minAchieved is the lowest achieved level among those activities.
	RollUp(activities []models.Activity, minAchieved int) models.LevelCoverage

	// Sanitize drops answer fields that cannot apply to the item and returns
	// a reason for each field dropped.
	Sanitize(item *models.Item) []string
}

// StrategyFor returns the coverage strategy for a style. Unknown styles fall
// back to boolean scoring; Validate rejects them before scoring starts.
func StrategyFor(style models.Style) CoverageStrategy {
	if style == models.StyleSelection {
		return selectionStrategy{}
	}
	return booleanStrategy{}
}
