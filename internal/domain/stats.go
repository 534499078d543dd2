package domain

// Statistics is the derived report over a set of completed records.
// It is a pure fold of its inputs, never persisted, and safe to recompute
// on every request.
type Statistics struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	// TotalDuration is the sum of record durations, in minutes.
	TotalDuration int `json:"total_duration"`
	TotalRecords  int `json:"total_records"`
	// TotalDays counts distinct days with at least one record.
	TotalDays int `json:"total_days"`
	// AverageDailyTime is TotalDuration/TotalDays, rounded to the nearest
	// minute; 0 when there are no days.
	AverageDailyTime int `json:"average_daily_time"`
	// AverageSessionDuration is TotalDuration/TotalRecords, rounded; 0 when
	// there are no records.
	AverageSessionDuration int            `json:"average_session_duration"`
	ProjectBreakdown       []ProjectTotal `json:"project_breakdown"`
	TagBreakdown           []TagTotal     `json:"tag_breakdown"`
	DailyTotals            []DayTotal     `json:"daily_totals"`
}

// ProjectTotal is one project's share of the report, sorted descending by
// duration. Percentage is of TotalDuration (0 when the total is 0).
type ProjectTotal struct {
	ProjectName string  `json:"project_name"`
	Duration    int     `json:"duration"`
	Percentage  float64 `json:"percentage"`
}

// TagTotal is one tag's share of the report. A record contributes its full
// duration to each of its tags, so tag totals may sum to more than
// TotalDuration when tags overlap.
type TagTotal struct {
	Tag        string  `json:"tag"`
	Duration   int     `json:"duration"`
	Percentage float64 `json:"percentage"`
}

// DayTotal is one calendar day's total, sorted ascending by date.
type DayTotal struct {
	Date     string `json:"date"`
	Duration int    `json:"duration"`
}
