package domain

import (
	"math"
	"slices"
	"time"
)

// DateLayout is the calendar-day format used in storage keys and payloads.
const DateLayout = "2006-01-02"

// TimeRecord is a single tracked unit of work: a project, a time span,
// and optional notes and tags. A record is either completed (EndTime set,
// Duration computed) or active (currently being timed).
//
// For a given user at most one record is active at any instant. An active
// record may have an empty ProjectName; classification can wait until stop.
type TimeRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ProjectName string    `json:"project_name"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time,omitzero"`
	// Date is the calendar day derived from StartTime (YYYY-MM-DD).
	// It is part of the storage key: changing it relocates the record.
	Date string `json:"date"`
	// Duration is whole minutes between start and end; 0 while active.
	Duration  int       `json:"duration"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewActiveRecord creates a record in the running state. ProjectName,
// description and tags stay empty until the timer is stopped.
func NewActiveRecord(id, userID string, now time.Time) *TimeRecord {
	return &TimeRecord{
		ID:        id,
		UserID:    userID,
		StartTime: now,
		Date:      DateOf(now),
		Duration:  0,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTimeRecord creates a completed record from a normalized payload.
// Duration is derived from the supplied start/end pair, never from a clock.
func NewTimeRecord(id, userID string, p *RecordPayload, now time.Time) *TimeRecord {
	start := p.Start()
	end := p.End()
	return &TimeRecord{
		ID:          id,
		UserID:      userID,
		ProjectName: p.ProjectName,
		Description: p.Description,
		Tags:        NormalizeTags(p.Tags),
		StartTime:   start,
		EndTime:     end,
		Date:        p.Date,
		Duration:    DurationMinutes(start, end),
		IsActive:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Stop completes an active record at the given instant. This is the only
// place a duration is computed from a live clock reading.
func (r *TimeRecord) Stop(projectName, description string, tags []string, now time.Time) {
	r.ProjectName = projectName
	if description != "" {
		r.Description = description
	}
	if len(tags) > 0 {
		r.Tags = NormalizeTags(tags)
	}
	r.EndTime = now
	r.Duration = DurationMinutes(r.StartTime, now)
	r.IsActive = false
	r.UpdatedAt = now
}

// ApplyUpdate overwrites the mutable fields from a normalized payload,
// preserving ID, UserID and CreatedAt.
func (r *TimeRecord) ApplyUpdate(p *RecordPayload, now time.Time) {
	start := p.Start()
	end := p.End()
	r.ProjectName = p.ProjectName
	r.Description = p.Description
	r.Tags = NormalizeTags(p.Tags)
	r.StartTime = start
	r.EndTime = end
	r.Date = p.Date
	r.Duration = DurationMinutes(start, end)
	r.IsActive = false
	r.UpdatedAt = now
}

// DurationMinutes returns the minute-rounded span between start and end.
// Negative spans clamp to zero.
func DurationMinutes(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	return int(math.Round(end.Sub(start).Minutes()))
}

// DateOf returns the calendar day of t in YYYY-MM-DD form.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// NormalizeTags dedupes tags preserving first-seen order and dropping
// empty strings. Tag order is not meaningful, but a stable result keeps
// stored records deterministic.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
