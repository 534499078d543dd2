package domain

import (
	"strings"
	"time"
)

// RecordPayload is the loosely-typed inbound shape for creating or
// updating a record. Clients old and new disagree on field names, so the
// payload accepts legacy aliases; Normalize folds them onto the canonical
// fields before validation, and everything downstream of validation only
// ever sees the canonical shape.
type RecordPayload struct {
	ProjectName string   `json:"project_name" validate:"required"`
	Project     string   `json:"project,omitempty" validate:"-"` // legacy alias for project_name
	Description string   `json:"description,omitempty"`
	Comment     string   `json:"comment,omitempty" validate:"-"` // legacy alias for description
	Tags        []string `json:"tags,omitempty"`
	StartTime   string   `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime     string   `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
}

// Normalize maps accepted aliases onto the canonical fields and trims
// whitespace. Canonical fields win when both are supplied.
func (p *RecordPayload) Normalize() {
	if p.ProjectName == "" {
		p.ProjectName = p.Project
	}
	p.Project = ""
	if p.Description == "" {
		p.Description = p.Comment
	}
	p.Comment = ""
	p.ProjectName = strings.TrimSpace(p.ProjectName)
	p.StartTime = strings.TrimSpace(p.StartTime)
	p.EndTime = strings.TrimSpace(p.EndTime)
	p.Date = strings.TrimSpace(p.Date)
}

// Start returns the parsed start timestamp. Only valid after validation.
func (p *RecordPayload) Start() time.Time {
	t, _ := time.Parse(time.RFC3339, p.StartTime)
	return t
}

// End returns the parsed end timestamp. Only valid after validation.
func (p *RecordPayload) End() time.Time {
	t, _ := time.Parse(time.RFC3339, p.EndTime)
	return t
}

// TimesOrdered reports whether both timestamps parse and end is strictly
// after start. Used by the struct-level validation rule.
func (p *RecordPayload) TimesOrdered() bool {
	start, err := time.Parse(time.RFC3339, p.StartTime)
	if err != nil {
		return true // unparseable timestamps are reported by their own rule
	}
	end, err := time.Parse(time.RFC3339, p.EndTime)
	if err != nil {
		return true
	}
	return end.After(start)
}

// StopPayload is the inbound shape for stopping the active timer. Only the
// project name is mandatory at stop time; description and tags are optional
// refinements of the running record.
type StopPayload struct {
	ProjectName string   `json:"project_name" validate:"required"`
	Project     string   `json:"project,omitempty" validate:"-"` // legacy alias for project_name
	Description string   `json:"description,omitempty"`
	Comment     string   `json:"comment,omitempty" validate:"-"` // legacy alias for description
	Tags        []string `json:"tags,omitempty"`
}

// Normalize maps accepted aliases onto the canonical fields.
func (p *StopPayload) Normalize() {
	if p.ProjectName == "" {
		p.ProjectName = p.Project
	}
	p.Project = ""
	if p.Description == "" {
		p.Description = p.Comment
	}
	p.Comment = ""
	p.ProjectName = strings.TrimSpace(p.ProjectName)
}
