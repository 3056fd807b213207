package scoring

import (
	"fmt"

	"github.com/maturity-pathway/backend/internal/models"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

// question builds a selection question offering levels 1..5. A selected
// level of 0 leaves it unanswered.
func question(text string, selected int) models.Item {
	q := models.Item{Text: text}
	for l := 1; l <= 5; l++ {
		q.Statements = append(q.Statements, models.Item{
			Text:            fmt.Sprintf("%s at level %d", text, l),
			AssociatedLevel: l,
		})
	}
	if selected > 0 {
		q.UserAnswer = &models.UserAnswer{Level: intPtr(selected)}
	}
	return q
}

func questions(selected ...int) []models.Item {
	out := make([]models.Item, len(selected))
	for i, s := range selected {
		out[i] = question(fmt.Sprintf("Q%d", i+1), s)
	}
	return out
}

// statement builds a boolean statement. answer nil leaves it unanswered.
func statement(text string, level int, positive *bool, answer *bool) models.Item {
	st := models.Item{Text: text, AssociatedLevel: level, Positive: positive}
	if answer != nil {
		st.UserAnswer = &models.UserAnswer{Answer: answer}
	}
	return st
}

func selectionActivity(title string, selected ...int) models.Activity {
	return models.Activity{Title: title, Questions: questions(selected...)}
}
