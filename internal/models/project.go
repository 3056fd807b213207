package models

import "time"

type ProjectOrganisation struct {
	Title   string   `json:"title"`
	Country *Country `json:"country,omitempty"`
}

// Project is one user's working copy of a template. AssessmentData holds
// the cloned tree, its answers and the derived progress.
type Project struct {
	ID             string               `json:"id"`
	Owner          string               `json:"owner"`
	Title          string               `json:"title"`
	Notes          string               `json:"notes,omitempty"`
	AssessmentID   int64                `json:"assessment"`
	AssessmentData Assessment           `json:"assessmentData"`
	Organisation   *ProjectOrganisation `json:"organisation,omitempty"`
	Created        time.Time            `json:"created"`
	LastModified   time.Time            `json:"lastModified"`
}

// ProjectSummary is the list view of a project.
type ProjectSummary struct {
	ID                   string    `json:"id"`
	Owner                string    `json:"owner"`
	Title                string    `json:"title"`
	AssessmentID         int64     `json:"assessment"`
	OverallAchievedLevel int       `json:"overallAchievedLevel"`
	LastModified         time.Time `json:"lastModified"`
}

// ── Request Types ────────────────────────────────────────

type CreateProjectRequest struct {
	Owner        string               `json:"owner"`
	Title        string               `json:"title"`
	Notes        string               `json:"notes,omitempty"`
	AssessmentID int64                `json:"assessment"`
	Organisation *ProjectOrganisation `json:"organisation,omitempty"`
}

type UpdateProjectRequest struct {
	Title          *string              `json:"title,omitempty"`
	Notes          *string              `json:"notes,omitempty"`
	Organisation   *ProjectOrganisation `json:"organisation,omitempty"`
	AssessmentData *Assessment          `json:"assessmentData,omitempty"`
}

// AnswerRequest records one item's answer. Clear resets the item to
// unanswered and ignores the other answer fields. Notes are left alone when
// absent and removed when sent as an empty string.
type AnswerRequest struct {
	AnswerRef
	Level  *int    `json:"level,omitempty"`
	Answer *bool   `json:"answer,omitempty"`
	Notes  *string `json:"notes,omitempty"`
	Clear  bool    `json:"clear,omitempty"`
}

// ── Response Types ───────────────────────────────────────

type DimensionProgress struct {
	Name     string   `json:"name"`
	Progress Progress `json:"userProgress"`
}

// ProgressResponse is what callers need to refresh a progress display after
// an answer is saved.
type ProgressResponse struct {
	ProjectID                     string              `json:"projectId,omitempty"`
	OverallAchievedLevel          int                 `json:"overallAchievedLevel"`
	ActivityCompletionPercentage  int                 `json:"activityCompletionPercentage"`
	StatementCompletionPercentage *int                `json:"statementCompletionPercentage,omitempty"`
	QuestionCompletionPercentage  *int                `json:"questionCompletionPercentage,omitempty"`
	Dimensions                    []DimensionProgress `json:"dimensions"`
	Warnings                      []string            `json:"warnings,omitempty"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}
