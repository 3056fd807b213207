package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/maturity-pathway/backend/internal/models"
)

var ErrNotFound = errors.New("project not found")

// Store persists projects with their assessment tree in a JSONB column.
// Writes are last-write-wins; callers serialise per project.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, p *models.Project) error {
	org, tree, err := encodeProject(p)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (id, owner, title, notes, assessment_id, organisation, assessment_data, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Owner, p.Title, p.Notes, p.AssessmentID, org, tree, p.Created, p.LastModified,
	)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.Project, error) {
	var (
		p         models.Project
		org, tree []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner, title, notes, assessment_id, organisation, assessment_data, created_at, updated_at
		 FROM projects WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Owner, &p.Title, &p.Notes, &p.AssessmentID, &org, &tree, &p.Created, &p.LastModified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}

	if len(org) > 0 && string(org) != "null" {
		p.Organisation = &models.ProjectOrganisation{}
		if err := json.Unmarshal(org, p.Organisation); err != nil {
			return nil, fmt.Errorf("get project %s: decode organisation: %w", id, err)
		}
	}
	if err := json.Unmarshal(tree, &p.AssessmentData); err != nil {
		return nil, fmt.Errorf("get project %s: decode assessment: %w", id, err)
	}
	return &p, nil
}

// List returns project summaries, newest first. An empty owner lists all.
func (s *Store) List(ctx context.Context, owner string) ([]models.ProjectSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner, title, assessment_id,
		        COALESCE((assessment_data->>'overallAchievedLevel')::int, 0), updated_at
		 FROM projects WHERE ($1 = '' OR owner = $1)
		 ORDER BY updated_at DESC`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []models.ProjectSummary
	for rows.Next() {
		var p models.ProjectSummary
		if err := rows.Scan(&p.ID, &p.Owner, &p.Title, &p.AssessmentID, &p.OverallAchievedLevel, &p.LastModified); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Save overwrites the mutable fields of an existing project.
func (s *Store) Save(ctx context.Context, p *models.Project) error {
	org, tree, err := encodeProject(p)
	if err != nil {
		return fmt.Errorf("save project %s: %w", p.ID, err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE projects
		 SET title = $1, notes = $2, organisation = $3, assessment_data = $4, updated_at = $5
		 WHERE id = $6`,
		p.Title, p.Notes, org, tree, p.LastModified, p.ID,
	)
	if err != nil {
		return fmt.Errorf("save project %s: %w", p.ID, err)
	}
	return expectOne(res, p.ID)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return expectOne(res, id)
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("project %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}

// encodeProject renders the JSONB columns as strings; lib/pq would send a
// []byte as bytea. A nil organisation is stored as NULL.
func encodeProject(p *models.Project) (org sql.NullString, tree string, err error) {
	if p.Organisation != nil {
		data, err := json.Marshal(p.Organisation)
		if err != nil {
			return org, "", fmt.Errorf("encode organisation: %w", err)
		}
		org = sql.NullString{String: string(data), Valid: true}
	}
	data, err := json.Marshal(p.AssessmentData)
	if err != nil {
		return org, "", fmt.Errorf("encode assessment: %w", err)
	}
	return org, string(data), nil
}
