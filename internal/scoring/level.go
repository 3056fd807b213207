package scoring

import (
	"sort"

	"github.com/maturity-pathway/backend/internal/models"
)

// AchievedLevel walks levels 1, 2, 3, ... and returns the last one with
// exactly 100% coverage. The walk stops at the first level that is either
// below 100% or absent from the map, so a complete level above a gap never
// counts.
func AchievedLevel(coverage models.LevelCoverage) int {
	achieved := 0
	for level := 1; ; level++ {
		pct, ok := coverage[level]
		if !ok || pct != 100 {
			return achieved
		}
		achieved = level
	}
}

// CheckMonotonic returns the levels whose coverage is higher than that of
// the nearest lower level present in the map.
func CheckMonotonic(coverage models.LevelCoverage) []int {
	levels := sortedLevels(coverage)
	var broken []int
	for i := 1; i < len(levels); i++ {
		if coverage[levels[i]] > coverage[levels[i-1]] {
			broken = append(broken, levels[i])
		}
	}
	return broken
}

func sortedLevels(coverage models.LevelCoverage) []int {
	levels := make([]int, 0, len(coverage))
	for l := range coverage {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	return levels
}

// levelSet collects distinct levels and returns them in ascending order.
type levelSet map[int]struct{}

func (s levelSet) add(level int) { s[level] = struct{}{} }

func (s levelSet) sorted() []int {
	out := make([]int, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}
