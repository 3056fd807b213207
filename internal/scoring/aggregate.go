package scoring

import (
	"github.com/maturity-pathway/backend/internal/models"
)

// ScoreActivity sets the activity's progress and completion percentage.
func ScoreActivity(s CoverageStrategy, act *models.Activity) {
	items := act.Items()
	coverage := s.LevelCoverage(items)
	act.UserProgress = &models.Progress{
		AchievedLevel:        AchievedLevel(coverage),
		LevelCoveragePercent: coverage,
	}
	act.CompletionPercentage = RoundPercent(countAnswered(s, items), len(items))
}

// ScoreDimension rolls already-scored activities up to the dimension. The
// weakest non-empty activity caps the dimension's achieved level; empty
// activities carry no evidence either way and are skipped.
func ScoreDimension(s CoverageStrategy, dim *models.Dimension) {
	var scored []models.Activity
	minAchieved := -1
	for i := range dim.Activities {
		act := &dim.Activities[i]
		if len(act.Items()) == 0 {
			continue
		}
		scored = append(scored, *act)
		achieved := 0
		if act.UserProgress != nil {
			achieved = act.UserProgress.AchievedLevel
		}
		if minAchieved < 0 || achieved < minAchieved {
			minAchieved = achieved
		}
	}
	if minAchieved < 0 {
		minAchieved = 0
	}

	dim.UserProgress = &models.Progress{
		AchievedLevel:        minAchieved,
		LevelCoveragePercent: s.RollUp(scored, minAchieved),
	}
}

// Totals are the pooled counts behind the assessment-level percentages.
type Totals struct {
	Activities          int
	CompletedActivities int
	Items               int
	AnsweredItems       int
}

// ScoreAssessment sets the overall level and the two completion
// percentages from already-scored dimensions.
func ScoreAssessment(s CoverageStrategy, a *models.Assessment) Totals {
	a.OverallAchievedLevel = overallLevel(a.Dimensions)

	var t Totals
	for _, dim := range a.Dimensions {
		for i := range dim.Activities {
			items := dim.Activities[i].Items()
			if len(items) == 0 {
				continue
			}
			answered := countAnswered(s, items)
			t.Activities++
			t.Items += len(items)
			t.AnsweredItems += answered
			if answered == len(items) {
				t.CompletedActivities++
			}
		}
	}

	a.ActivityCompletionPercentage = RoundPercent(t.CompletedActivities, t.Activities)
	itemPct := RoundPercent(t.AnsweredItems, t.Items)
	a.StatementCompletionPercentage = nil
	a.QuestionCompletionPercentage = nil
	if s.Style() == models.StyleSelection {
		a.QuestionCompletionPercentage = &itemPct
	} else {
		a.StatementCompletionPercentage = &itemPct
	}
	return t
}

// overallLevel is the minimum achieved level across dimensions. Any
// dimension without progress pins the assessment at 0.
func overallLevel(dims []models.Dimension) int {
	if len(dims) == 0 {
		return 0
	}
	overall := -1
	for _, d := range dims {
		if d.UserProgress == nil || d.UserProgress.AchievedLevel == 0 {
			return 0
		}
		if overall < 0 || d.UserProgress.AchievedLevel < overall {
			overall = d.UserProgress.AchievedLevel
		}
	}
	return overall
}

func countAnswered(s CoverageStrategy, items []models.Item) int {
	n := 0
	for _, it := range items {
		if s.Answered(it) {
			n++
		}
	}
	return n
}
