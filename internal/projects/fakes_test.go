package projects

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/maturity-pathway/backend/internal/models"
	"github.com/maturity-pathway/backend/internal/templates"
)

type memoryStore struct {
	mu       sync.Mutex
	projects map[string]models.Project
	saves    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{projects: map[string]models.Project{}}
}

// put stores a deep copy so callers cannot reach stored trees.
func (m *memoryStore) put(p *models.Project) {
	cp := *p
	cp.AssessmentData = *p.AssessmentData.Clone()
	m.projects[p.ID] = cp
}

func (m *memoryStore) Create(_ context.Context, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(p)
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, fmt.Errorf("get project %s: %w", id, ErrNotFound)
	}
	p.AssessmentData = *p.AssessmentData.Clone()
	return &p, nil
}

func (m *memoryStore) List(_ context.Context, owner string) ([]models.ProjectSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ProjectSummary
	for _, p := range m.projects {
		if owner != "" && p.Owner != owner {
			continue
		}
		out = append(out, models.ProjectSummary{
			ID: p.ID, Owner: p.Owner, Title: p.Title, AssessmentID: p.AssessmentID,
			OverallAchievedLevel: p.AssessmentData.OverallAchievedLevel, LastModified: p.LastModified,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) Save(_ context.Context, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[p.ID]; !ok {
		return fmt.Errorf("project %s: %w", p.ID, ErrNotFound)
	}
	m.saves++
	m.put(p)
	return nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	delete(m.projects, id)
	return nil
}

type templateMap map[int64]*models.Template

func (t templateMap) Get(_ context.Context, id int64) (*models.Template, error) {
	tpl, ok := t[id]
	if !ok {
		return nil, fmt.Errorf("get assessment %d: %w", id, templates.ErrNotFound)
	}
	return tpl, nil
}

func selectionOptions(prefix string) []models.Item {
	out := make([]models.Item, 3)
	for i := range out {
		out[i] = models.Item{Text: fmt.Sprintf("%s %d", prefix, i+1), AssociatedLevel: i + 1}
	}
	return out
}

// testTemplates holds a boolean template (1) and a selection template (2).
func testTemplates() templateMap {
	boolean := &models.Template{ID: 1, Source: "open-data", Title: "Open data"}
	boolean.Style = models.StyleBoolean
	boolean.Levels = []string{"Basic", "Developing", "Mature"}
	boolean.Dimensions = []models.Dimension{{
		Name: "Governance",
		Activities: []models.Activity{{
			Title: "Policy",
			Statements: []models.Item{
				{Text: "A policy exists", AssociatedLevel: 1},
				{Text: "Nobody owns the policy", AssociatedLevel: 1, Positive: boolPtr(false)},
				{Text: "The policy is reviewed", AssociatedLevel: 2},
			},
		}},
	}}

	selection := &models.Template{ID: 2, Source: "skills", Title: "Skills"}
	selection.Levels = []string{"Low", "Medium", "High"}
	selection.Dimensions = []models.Dimension{{
		Name: "People",
		Activities: []models.Activity{{
			Title: "Training",
			Questions: []models.Item{
				{Text: "Delivery", Statements: selectionOptions("delivery")},
				{Text: "Tracking", Statements: selectionOptions("tracking")},
			},
		}},
	}}

	return templateMap{1: boolean, 2: selection}
}

func boolPtr(v bool) *bool    { return &v }
func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService() (*Service, *memoryStore) {
	store := newMemoryStore()
	svc := NewService(store, testTemplates(), zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("p%d", n)
	}
	return svc, store
}
