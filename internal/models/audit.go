package models

import "time"

// AuditEntry is an immutable record of an administrative action. Entries are
// append-only; the API never updates or deletes them on behalf of a client.
type AuditEntry struct {
	ID           int64          `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	ActorEmail   string         `json:"user_email,omitempty"`
	EventType    string         `json:"event_type"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Action       string         `json:"action"`
	StatusCode   int            `json:"status_code,omitempty"`
	Detail       map[string]any `json:"details,omitempty"`
	Source       string         `json:"source,omitempty"`
	IPAddress    string         `json:"ip_address,omitempty"`
}

// AuditQueryOpts holds filters for querying the audit log. Zero values mean
// no filter on that field. Page is 1-based.
type AuditQueryOpts struct {
	ActorEmail   string
	EventType    string
	ResourceType string
	Action       string
	Since        *time.Time
	Page         int
	PageSize     int
}

// AuditPage is the server-side pagination envelope for audit queries.
type AuditPage struct {
	Items []AuditEntry `json:"items"`
	Total int          `json:"total"`
}
