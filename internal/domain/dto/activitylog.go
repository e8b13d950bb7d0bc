package dto

import "time"

// ActivityLog is one audit entry as returned by the admin API.
type ActivityLog struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Action    string         `json:"action"`
	Service   string         `json:"service"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
	IPAddress string         `json:"ip_address,omitempty"`
	UserAgent string         `json:"user_agent,omitempty"`
	Status    string         `json:"status,omitempty"`
}

// ActivityLogPage is the body of GET /admin/activity-logs.
type ActivityLogPage struct {
	Logs       []ActivityLog `json:"logs"`
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// HealthStatus is the body of the health endpoints.
type HealthStatus struct {
	Status    string    `json:"status"`
	Service   string    `json:"service,omitempty"`
	Database  string    `json:"database"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
