// Package report turns a scored assessment into the views shown on a
// project's report page: a summary, per-level heatmaps and a breakdown of
// each activity's items around its achieved level.
package report

import (
	"fmt"
	"sort"

	"github.com/maturity-pathway/backend/internal/models"
	"github.com/maturity-pathway/backend/internal/scoring"
)

// NoLevel names achieved level 0.
const NoLevel = "No Level Achieved"

// LevelName returns the display name of a level on the given scale.
func LevelName(levels []string, level int) string {
	if level <= 0 {
		return NoLevel
	}
	if level > len(levels) {
		return fmt.Sprintf("Level %d", level)
	}
	return levels[level-1]
}

// ── Summary ──────────────────────────────────────────────

type DimensionSummary struct {
	Name          string `json:"name"`
	AchievedLevel int    `json:"achievedLevel"`
	LevelName     string `json:"levelName"`
}

type Summary struct {
	Style                        models.Style       `json:"style"`
	Levels                       []string           `json:"levels"`
	OverallAchievedLevel         int                `json:"overallAchievedLevel"`
	OverallLevelName             string             `json:"overallLevelName"`
	ActivityCompletionPercentage int                `json:"activityCompletionPercentage"`
	ItemCompletionPercentage     int                `json:"itemCompletionPercentage"`
	Dimensions                   []DimensionSummary `json:"dimensions"`
}

// Summarize reads the headline figures from an already scored tree.
func Summarize(a *models.Assessment) Summary {
	levels := a.LevelNames()
	s := Summary{
		Style:                        a.Style,
		Levels:                       levels,
		OverallAchievedLevel:         a.OverallAchievedLevel,
		OverallLevelName:             LevelName(levels, a.OverallAchievedLevel),
		ActivityCompletionPercentage: a.ActivityCompletionPercentage,
		Dimensions:                   make([]DimensionSummary, 0, len(a.Dimensions)),
	}
	switch {
	case a.QuestionCompletionPercentage != nil:
		s.ItemCompletionPercentage = *a.QuestionCompletionPercentage
	case a.StatementCompletionPercentage != nil:
		s.ItemCompletionPercentage = *a.StatementCompletionPercentage
	}
	for _, d := range a.Dimensions {
		level := achieved(d.UserProgress)
		s.Dimensions = append(s.Dimensions, DimensionSummary{
			Name:          d.Name,
			AchievedLevel: level,
			LevelName:     LevelName(levels, level),
		})
	}
	return s
}

// ── Heatmap ──────────────────────────────────────────────

// HeatmapRow holds one coverage cell per level 1..N. Activity is empty on a
// dimension's own row.
type HeatmapRow struct {
	Dimension     string `json:"dimension"`
	Activity      string `json:"activity,omitempty"`
	AchievedLevel int    `json:"achievedLevel"`
	Cells         []int  `json:"cells"`
}

// Heatmap lists each dimension followed by its activities.
func Heatmap(a *models.Assessment) []HeatmapRow {
	n := a.MaxLevel()
	var rows []HeatmapRow
	for _, d := range a.Dimensions {
		rows = append(rows, HeatmapRow{
			Dimension:     d.Name,
			AchievedLevel: achieved(d.UserProgress),
			Cells:         cells(d.UserProgress, n),
		})
		for _, act := range d.Activities {
			rows = append(rows, HeatmapRow{
				Dimension:     d.Name,
				Activity:      act.Title,
				AchievedLevel: achieved(act.UserProgress),
				Cells:         cells(act.UserProgress, n),
			})
		}
	}
	return rows
}

func cells(p *models.Progress, n int) []int {
	out := make([]int, n)
	if p == nil {
		return out
	}
	for level := 1; level <= n; level++ {
		out[level-1] = p.LevelCoveragePercent[level]
	}
	return out
}

func achieved(p *models.Progress) int {
	if p == nil {
		return 0
	}
	return p.AchievedLevel
}

// ── Report ───────────────────────────────────────────────

type DimensionReport struct {
	Name          string      `json:"name"`
	AchievedLevel int         `json:"achievedLevel"`
	LevelName     string      `json:"levelName"`
	Activities    []Breakdown `json:"activities"`
}

type Report struct {
	Summary    Summary           `json:"summary"`
	Heatmap    []HeatmapRow      `json:"heatmap"`
	Dimensions []DimensionReport `json:"dimensions"`
	Warnings   []string          `json:"warnings,omitempty"`
}

// Build rescores the tree and assembles every view from the fresh copy, so
// stale stored progress never reaches a report.
func Build(a *models.Assessment) (*Report, error) {
	res, err := scoring.Recompute(a)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	scored := res.Assessment
	strategy := scoring.StrategyFor(res.Style)
	levels := scored.LevelNames()

	r := &Report{
		Summary:    Summarize(scored),
		Heatmap:    Heatmap(scored),
		Dimensions: make([]DimensionReport, 0, len(scored.Dimensions)),
		Warnings:   res.WarningStrings(),
	}
	for _, d := range scored.Dimensions {
		level := achieved(d.UserProgress)
		dr := DimensionReport{
			Name:          d.Name,
			AchievedLevel: level,
			LevelName:     LevelName(levels, level),
			Activities:    make([]Breakdown, 0, len(d.Activities)),
		}
		for i := range d.Activities {
			dr.Activities = append(dr.Activities, ActivityBreakdown(strategy, levels, &d.Activities[i]))
		}
		r.Dimensions = append(r.Dimensions, dr)
	}
	return r, nil
}

// sortRows puts answered rows first and, among those, satisfied rows first.
func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Answered != rows[j].Answered {
			return rows[i].Answered
		}
		return rows[i].Satisfied && !rows[j].Satisfied
	})
}
