package models

import "time"

type Country struct {
	Name string `json:"name" yaml:"name"`
	Code string `json:"code" yaml:"code"`
}

type Organisation struct {
	Name     string  `json:"name" yaml:"name"`
	Country  Country `json:"country" yaml:"country"`
	HomePage string  `json:"homePage" yaml:"homePage"`
}

// Template is an assessment definition loaded from a file and shared by
// every project created from it. The questionnaire fields are inlined so a
// template file reads as a single flat document.
type Template struct {
	ID           int64        `json:"id" yaml:"-"`
	Source       string       `json:"source" yaml:"-"`
	Title        string       `json:"title" yaml:"title"`
	Description  string       `json:"description,omitempty" yaml:"description,omitempty"`
	Owner        string       `json:"owner" yaml:"owner"`
	Organisation Organisation `json:"organisation" yaml:"organisation"`
	Public       bool         `json:"public" yaml:"public"`
	CreatedAt    time.Time    `json:"creationDate" yaml:"-"`
	ModifiedAt   time.Time    `json:"modifiedDate" yaml:"-"`

	Assessment `yaml:",inline"`
}

// TemplateSummary is the list view of a template, without its tree.
type TemplateSummary struct {
	ID           int64        `json:"id"`
	Source       string       `json:"source"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Organisation Organisation `json:"organisation"`
	Style        Style        `json:"style"`
	ModifiedAt   time.Time    `json:"modifiedDate"`
}
