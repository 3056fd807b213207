package projects

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/maturity-pathway/backend/internal/models"
	"github.com/maturity-pathway/backend/internal/scoring"
	"github.com/maturity-pathway/backend/internal/templates"
)

func policyRef(item string) models.AnswerRef {
	return models.AnswerRef{Dimension: "Governance", Activity: "Policy", Item: item}
}

func createBoolean(t *testing.T, svc *Service) *models.Project {
	t.Helper()
	p, warnings, err := svc.Create(context.Background(), models.CreateProjectRequest{
		Owner: "ana@example.org", Title: "2026 review", AssessmentID: 1,
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	return p
}

func TestService_Create(t *testing.T) {
	svc, store := newTestService()
	p := createBoolean(t, svc)

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, fixedNow, p.Created)
	assert.Equal(t, models.StyleBoolean, p.AssessmentData.Style)
	assert.Equal(t, []string{"Basic", "Developing", "Mature"}, p.AssessmentData.Levels)
	require.NotNil(t, p.AssessmentData.StatementCompletionPercentage)
	assert.Equal(t, 0, *p.AssessmentData.StatementCompletionPercentage)
	require.NotNil(t, p.AssessmentData.Dimensions[0].UserProgress)
	assert.Equal(t, models.LevelCoverage{1: 0, 2: 0}, p.AssessmentData.Dimensions[0].UserProgress.LevelCoveragePercent)

	stored, err := store.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, p.AssessmentData, stored.AssessmentData)
}

func TestService_CreateLeavesTemplateUntouched(t *testing.T) {
	tpls := testTemplates()
	svc := NewService(newMemoryStore(), tpls, zap.NewNop())
	ctx := context.Background()

	p, _, err := svc.Create(ctx, models.CreateProjectRequest{Owner: "ana", Title: "x", AssessmentID: 1})
	require.NoError(t, err)
	_, err = svc.ApplyAnswer(ctx, p.ID, models.AnswerRequest{AnswerRef: policyRef("A policy exists"), Answer: boolPtr(true)})
	require.NoError(t, err)

	tpl := tpls[1]
	assert.Nil(t, tpl.Dimensions[0].UserProgress)
	assert.Nil(t, tpl.Dimensions[0].Activities[0].Statements[0].UserAnswer)
}

func TestService_CreateErrors(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.Create(ctx, models.CreateProjectRequest{Owner: "ana", AssessmentID: 1})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, _, err = svc.Create(ctx, models.CreateProjectRequest{Owner: "ana", Title: "x", AssessmentID: 42})
	assert.ErrorIs(t, err, templates.ErrNotFound)
}

func TestService_ApplyAnswer(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	p := createBoolean(t, svc)

	_, err := svc.ApplyAnswer(ctx, p.ID, models.AnswerRequest{AnswerRef: policyRef("A policy exists"), Answer: boolPtr(true), Notes: strPtr("on the intranet")})
	require.NoError(t, err)
	progress, err := svc.ApplyAnswer(ctx, p.ID, models.AnswerRequest{AnswerRef: policyRef("Nobody owns the policy"), Answer: boolPtr(false)})
	require.NoError(t, err)

	assert.Equal(t, p.ID, progress.ProjectID)
	assert.Equal(t, 1, progress.OverallAchievedLevel)
	require.NotNil(t, progress.StatementCompletionPercentage)
	assert.Equal(t, 67, *progress.StatementCompletionPercentage)
	assert.Nil(t, progress.QuestionCompletionPercentage)
	require.Len(t, progress.Dimensions, 1)
	assert.Equal(t, models.LevelCoverage{1: 100, 2: 0}, progress.Dimensions[0].Progress.LevelCoveragePercent)
	assert.Empty(t, progress.Warnings)

	// Changing the answer keeps the earlier notes.
	_, err = svc.ApplyAnswer(ctx, p.ID, models.AnswerRequest{AnswerRef: policyRef("A policy exists"), Answer: boolPtr(false)})
	require.NoError(t, err)
	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	ua := got.AssessmentData.Dimensions[0].Activities[0].Statements[0].UserAnswer
	assert.False(t, *ua.Answer)
	assert.Equal(t, "on the intranet", ua.Notes)
	assert.Equal(t, 0, got.AssessmentData.OverallAchievedLevel)

	progress, err = svc.ApplyAnswer(ctx, p.ID, models.AnswerRequest{AnswerRef: policyRef("A policy exists"), Clear: true})
	require.NoError(t, err)
	assert.Equal(t, 33, *progress.StatementCompletionPercentage)
}

func TestService_ApplyAnswerNotesOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	p := createBoolean(t, svc)
	ref := policyRef("A policy exists")

	before, err := svc.ApplyAnswer(ctx, p.ID, models.AnswerRequest{AnswerRef: ref, Answer: boolPtr(true)})
	require.NoError(t, err)

	after, err := svc.ApplyAnswer(ctx, p.ID, models.AnswerRequest{AnswerRef: ref, Notes: strPtr("added later")})
	require.NoError(t, err)
	assert.Equal(t, before, after)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	ua := got.AssessmentData.Dimensions[0].Activities[0].Statements[0].UserAnswer
	require.NotNil(t, ua)
	require.NotNil(t, ua.Answer)
	assert.True(t, *ua.Answer)
	assert.Equal(t, "added later", ua.Notes)

	// An empty string removes the notes and keeps the answer.
	after, err = svc.ApplyAnswer(ctx, p.ID, models.AnswerRequest{AnswerRef: ref, Notes: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, before, after)

	got, err = svc.Get(ctx, p.ID)
	require.NoError(t, err)
	ua = got.AssessmentData.Dimensions[0].Activities[0].Statements[0].UserAnswer
	require.NotNil(t, ua)
	assert.True(t, *ua.Answer)
	assert.Empty(t, ua.Notes)
}

func TestService_ApplyAnswerSelection(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	p, _, err := svc.Create(ctx, models.CreateProjectRequest{Owner: "ana", Title: "skills", AssessmentID: 2})
	require.NoError(t, err)
	assert.Equal(t, models.StyleSelection, p.AssessmentData.Style)

	ref := models.AnswerRef{Dimension: "People", Activity: "Training"}
	ref.Item = "Delivery"
	_, err = svc.ApplyAnswer(ctx, p.ID, models.AnswerRequest{AnswerRef: ref, Level: intPtr(3)})
	require.NoError(t, err)
	ref.Item = "Tracking"
	progress, err := svc.ApplyAnswer(ctx, p.ID, models.AnswerRequest{AnswerRef: ref, Level: intPtr(2)})
	require.NoError(t, err)

	assert.Equal(t, 2, progress.OverallAchievedLevel)
	assert.Equal(t, 100, progress.ActivityCompletionPercentage)
	require.NotNil(t, progress.QuestionCompletionPercentage)
	assert.Equal(t, 100, *progress.QuestionCompletionPercentage)
	assert.Equal(t, models.LevelCoverage{1: 100, 2: 100, 3: 50}, progress.Dimensions[0].Progress.LevelCoveragePercent)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "tracking 2", got.AssessmentData.Dimensions[0].Activities[0].Questions[1].UserAnswer.Text)
}

func TestService_ApplyAnswerDropsMismatchedKind(t *testing.T) {
	svc, _ := newTestService()
	p := createBoolean(t, svc)

	progress, err := svc.ApplyAnswer(context.Background(), p.ID, models.AnswerRequest{AnswerRef: policyRef("A policy exists"), Level: intPtr(2)})
	require.NoError(t, err)
	require.Len(t, progress.Warnings, 1)
	assert.Contains(t, progress.Warnings[0], "ignored")
	assert.Equal(t, 0, *progress.StatementCompletionPercentage)
}

func TestService_ApplyAnswerErrors(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	p := createBoolean(t, svc)

	_, err := svc.ApplyAnswer(ctx, p.ID, models.AnswerRequest{AnswerRef: policyRef("A policy exists")})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.ApplyAnswer(ctx, p.ID, models.AnswerRequest{AnswerRef: policyRef("missing"), Answer: boolPtr(true)})
	assert.ErrorIs(t, err, models.ErrItemNotFound)

	_, err = svc.ApplyAnswer(ctx, "nope", models.AnswerRequest{AnswerRef: policyRef("A policy exists"), Answer: boolPtr(true)})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 0, store.saves)
}

func TestService_Replace(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	p := createBoolean(t, svc)

	tree := p.AssessmentData.Clone()
	tree.OverallAchievedLevel = 3 // stale, recomputed away
	for i := range tree.Dimensions[0].Activities[0].Statements {
		st := &tree.Dimensions[0].Activities[0].Statements[i]
		st.UserAnswer = &models.UserAnswer{Answer: boolPtr(st.PositiveAnswer())}
	}
	title := "Renamed"

	got, warnings, err := svc.Replace(ctx, p.ID, models.UpdateProjectRequest{Title: &title, AssessmentData: tree})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, 2, got.AssessmentData.OverallAchievedLevel)
	assert.Equal(t, 100, got.AssessmentData.ActivityCompletionPercentage)
	assert.Equal(t, 1, store.saves)

	// An invalid tree is rejected and nothing is written.
	bad := got.AssessmentData.Clone()
	bad.Dimensions[0].Activities[0].Statements[0].AssociatedLevel = 0
	_, _, err = svc.Replace(ctx, p.ID, models.UpdateProjectRequest{AssessmentData: bad})
	var verr *scoring.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 1, store.saves)

	empty := " "
	_, _, err = svc.Replace(ctx, p.ID, models.UpdateProjectRequest{Title: &empty})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestService_ConcurrentAnswersAreNotLost(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	p := createBoolean(t, svc)

	items := []string{"A policy exists", "Nobody owns the policy", "The policy is reviewed"}
	answers := []bool{true, false, true}

	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for n := 0; n < 10; n++ {
				_, err := svc.ApplyAnswer(ctx, p.ID, models.AnswerRequest{AnswerRef: policyRef(items[i]), Answer: boolPtr(answers[i])})
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	for _, st := range got.AssessmentData.Dimensions[0].Activities[0].Statements {
		assert.NotNil(t, st.UserAnswer, st.Text)
	}
	assert.Equal(t, 2, got.AssessmentData.OverallAchievedLevel)
	assert.Equal(t, 0, svc.locks.size())
}

func TestService_ListReportDelete(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	p := createBoolean(t, svc)
	_, _, err := svc.Create(ctx, models.CreateProjectRequest{Owner: "ben@example.org", Title: "other", AssessmentID: 2})
	require.NoError(t, err)

	mine, err := svc.List(ctx, "ana@example.org")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, p.ID, mine[0].ID)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.ApplyAnswer(ctx, p.ID, models.AnswerRequest{AnswerRef: policyRef("A policy exists"), Answer: boolPtr(true)})
	require.NoError(t, err)
	rep, err := svc.Report(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "No Level Achieved", rep.Summary.OverallLevelName)
	require.Len(t, rep.Dimensions, 1)
	assert.Len(t, rep.Dimensions[0].Activities[0].Next, 2)

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), ErrNotFound)
}

func TestService_Score(t *testing.T) {
	svc, store := newTestService()
	tpl := testTemplates()[2]

	res, err := svc.Score(&tpl.Assessment)
	require.NoError(t, err)
	assert.Equal(t, models.StyleSelection, res.Style)
	assert.Empty(t, store.projects)

	_, err = svc.Score(&models.Assessment{Style: "nope"})
	assert.ErrorIs(t, err, scoring.ErrInvalidTree)
}
