package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// AuditService handles audit log queries.
type AuditService struct {
	c *Client
}

// Query returns a page of audit entries matching the options. Audit reads
// are never cached; the log grows continuously.
func (s *AuditService) Query(ctx context.Context, opts *AuditQueryOptions) (*AuditPage, error) {
	params := url.Values{}
	if opts != nil {
		if opts.ActorEmail != "" {
			params.Set("user_email", opts.ActorEmail)
		}
		if opts.EventType != "" {
			params.Set("event_type", opts.EventType)
		}
		if opts.ResourceType != "" {
			params.Set("resource_type", opts.ResourceType)
		}
		if opts.Action != "" {
			params.Set("action", opts.Action)
		}
		if opts.Since != nil {
			params.Set("since", opts.Since.Format(time.RFC3339))
		}
		if opts.Page > 0 {
			params.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.PageSize > 0 {
			params.Set("page_size", strconv.Itoa(opts.PageSize))
		}
	}

	path := "/api/audit-logs"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var page AuditPage
	if err := s.c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
