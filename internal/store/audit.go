package store

import (
	"context"
	"fmt"

	"github.com/keyfleet/keyfleet/internal/models"
)

// AuditStore provides append-and-query access to the audit log. Entries are
// never updated or deleted through this store.
type AuditStore struct {
	Base
}

// NewAuditStore creates an AuditStore.
func NewAuditStore(base Base) *AuditStore {
	return &AuditStore{Base: base}
}

const (
	defaultAuditPageSize = 50
	maxAuditPageSize     = 500
)

// Record appends one entry to the audit log.
func (s *AuditStore) Record(ctx context.Context, entry models.AuditEntry) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.Pool.Exec(ctx, `
		INSERT INTO audit_log (timestamp, user_email, event_type, resource_type, resource_id, action, status_code, details, source, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.Timestamp, entry.ActorEmail, entry.EventType, entry.ResourceType,
		entry.ResourceID, entry.Action, entry.StatusCode, entry.Detail,
		entry.Source, entry.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("recording audit entry: %w", err)
	}

	return nil
}

// Query returns one page of audit entries, newest first, plus the total
// matching count so clients can render page controls.
func (s *AuditStore) Query(ctx context.Context, opts models.AuditQueryOpts) (*models.AuditPage, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = defaultAuditPageSize
	}
	if opts.PageSize > maxAuditPageSize {
		opts.PageSize = maxAuditPageSize
	}

	where := ` WHERE ($1 = '' OR user_email = $1)
		AND ($2 = '' OR event_type = $2)
		AND ($3 = '' OR resource_type = $3)
		AND ($4 = '' OR action = $4)
		AND ($5::timestamptz IS NULL OR timestamp >= $5)`
	args := []any{opts.ActorEmail, opts.EventType, opts.ResourceType, opts.Action, opts.Since}

	var total int
	if err := s.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM audit_log"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting audit entries: %w", err)
	}

	offset := (opts.Page - 1) * opts.PageSize
	rows, err := s.Pool.Query(ctx, `
		SELECT id, timestamp, user_email, event_type, resource_type, resource_id, action, status_code, details, source, ip_address
		FROM audit_log`+where+`
		ORDER BY timestamp DESC, id DESC
		LIMIT $6 OFFSET $7`,
		append(args, opts.PageSize, offset)...)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	page := &models.AuditPage{Items: []models.AuditEntry{}, Total: total}
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(
			&e.ID, &e.Timestamp, &e.ActorEmail, &e.EventType, &e.ResourceType,
			&e.ResourceID, &e.Action, &e.StatusCode, &e.Detail, &e.Source, &e.IPAddress,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		page.Items = append(page.Items, e)
	}

	return page, rows.Err()
}
