package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maturity-pathway/backend/internal/models"
	"github.com/maturity-pathway/backend/internal/report"
	"github.com/maturity-pathway/backend/internal/scoring"
)

var ErrInvalidRequest = errors.New("invalid request")

type ProjectStore interface {
	Create(ctx context.Context, p *models.Project) error
	Get(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context, owner string) ([]models.ProjectSummary, error)
	Save(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id string) error
}

type TemplateSource interface {
	Get(ctx context.Context, id int64) (*models.Template, error)
}

// Service owns the read-modify-write cycle of a project: every mutation
// reloads the tree, applies the change, rescores from scratch and saves.
type Service struct {
	store     ProjectStore
	templates TemplateSource
	log       *zap.Logger
	locks     *keyedMutex
	now       func() time.Time
	newID     func() string
}

func NewService(store ProjectStore, templates TemplateSource, log *zap.Logger) *Service {
	return &Service{
		store:     store,
		templates: templates,
		log:       log,
		locks:     newKeyedMutex(),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// ── Stateless Scoring ───────────────────────────────────

// Score recomputes a tree without storing anything.
func (s *Service) Score(tree *models.Assessment) (*scoring.Result, error) {
	res, err := scoring.Recompute(tree)
	if err != nil {
		return nil, err
	}
	s.logWarnings("", res)
	return res, nil
}

// ── Project Lifecycle ───────────────────────────────────

func (s *Service) Create(ctx context.Context, req models.CreateProjectRequest) (*models.Project, []string, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Owner) == "" {
		return nil, nil, fmt.Errorf("%w: title and owner are required", ErrInvalidRequest)
	}

	tpl, err := s.templates.Get(ctx, req.AssessmentID)
	if err != nil {
		return nil, nil, fmt.Errorf("create project: %w", err)
	}

	tree := &models.Assessment{
		Style:      tpl.Style,
		Levels:     tpl.Levels,
		Dimensions: tpl.Dimensions,
	}
	res, err := scoring.Recompute(tree)
	if err != nil {
		return nil, nil, fmt.Errorf("create project from assessment %d: %w", req.AssessmentID, err)
	}

	now := s.now()
	p := &models.Project{
		ID:             s.newID(),
		Owner:          req.Owner,
		Title:          req.Title,
		Notes:          req.Notes,
		AssessmentID:   req.AssessmentID,
		AssessmentData: *res.Assessment,
		Organisation:   req.Organisation,
		Created:        now,
		LastModified:   now,
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, nil, err
	}
	s.log.Info("Project created",
		zap.String("project_id", p.ID),
		zap.Int64("assessment_id", p.AssessmentID),
		zap.String("owner", p.Owner),
	)
	s.logWarnings(p.ID, res)
	return p, res.WarningStrings(), nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Project, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, owner string) ([]models.ProjectSummary, error) {
	return s.store.List(ctx, owner)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()
	return s.store.Delete(ctx, id)
}

// ApplyAnswer records or clears one item's answer and returns the
// refreshed progress.
func (s *Service) ApplyAnswer(ctx context.Context, id string, req models.AnswerRequest) (*models.ProgressResponse, error) {
	if !req.Clear && req.Level == nil && req.Answer == nil && req.Notes == nil {
		return nil, fmt.Errorf("%w: answer carries no level, answer or notes", ErrInvalidRequest)
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyAnswer(&p.AssessmentData, req); err != nil {
		return nil, err
	}

	res, err := s.rescoreAndSave(ctx, p)
	if err != nil {
		return nil, err
	}
	return progressOf(p.ID, res), nil
}

// Replace saves a whole edited project. A supplied tree replaces the
// stored one; either way the tree is rescored before saving.
func (s *Service) Replace(ctx context.Context, id string, req models.UpdateProjectRequest) (*models.Project, []string, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidRequest)
		}
		p.Title = *req.Title
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}
	if req.Organisation != nil {
		p.Organisation = req.Organisation
	}
	if req.AssessmentData != nil {
		p.AssessmentData = *req.AssessmentData
	}

	res, err := s.rescoreAndSave(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	return p, res.WarningStrings(), nil
}

func (s *Service) Report(ctx context.Context, id string) (*report.Report, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return report.Build(&p.AssessmentData)
}

func (s *Service) rescoreAndSave(ctx context.Context, p *models.Project) (*scoring.Result, error) {
	res, err := scoring.Recompute(&p.AssessmentData)
	if err != nil {
		return nil, err
	}
	p.AssessmentData = *res.Assessment
	p.LastModified = s.now()

	if err := s.store.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logWarnings(p.ID, res)
	return res, nil
}

func applyAnswer(tree *models.Assessment, req models.AnswerRequest) error {
	if req.Clear {
		return tree.ClearAnswer(req.AnswerRef)
	}
	if req.Level != nil || req.Answer != nil {
		if err := tree.SetAnswer(req.AnswerRef, models.UserAnswer{Level: req.Level, Answer: req.Answer}); err != nil {
			return err
		}
	}
	if req.Notes != nil {
		return tree.SetNotes(req.AnswerRef, *req.Notes)
	}
	return nil
}

func (s *Service) logWarnings(projectID string, res *scoring.Result) {
	for _, w := range res.Warnings {
		s.log.Warn("Scoring warning",
			zap.String("project_id", projectID),
			zap.String("path", w.Path),
			zap.String("message", w.Message),
		)
	}
}

func progressOf(projectID string, res *scoring.Result) *models.ProgressResponse {
	a := res.Assessment
	out := &models.ProgressResponse{
		ProjectID:                     projectID,
		OverallAchievedLevel:          a.OverallAchievedLevel,
		ActivityCompletionPercentage:  a.ActivityCompletionPercentage,
		StatementCompletionPercentage: a.StatementCompletionPercentage,
		QuestionCompletionPercentage:  a.QuestionCompletionPercentage,
		Dimensions:                    make([]models.DimensionProgress, 0, len(a.Dimensions)),
		Warnings:                      res.WarningStrings(),
	}
	for _, d := range a.Dimensions {
		dp := models.DimensionProgress{Name: d.Name}
		if d.UserProgress != nil {
			dp.Progress = *d.UserProgress
		}
		out.Dimensions = append(out.Dimensions, dp)
	}
	return out
}
