package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/keyfleet/keyfleet/internal/api"
	"github.com/keyfleet/keyfleet/internal/models"
)

func TestAuditQuery_Envelope(t *testing.T) {
	t.Parallel()

	repo := &mockAuditRepo{
		queryFn: func(_ context.Context, opts models.AuditQueryOpts) (*models.AuditPage, error) {
			if opts.EventType != "team.create" {
				t.Errorf("event_type filter = %q, want team.create", opts.EventType)
			}
			if opts.Page != 2 || opts.PageSize != 10 {
				t.Errorf("page=%d size=%d, want 2 and 10", opts.Page, opts.PageSize)
			}
			return &models.AuditPage{
				Items: []models.AuditEntry{{ID: 11, EventType: "team.create", Action: "create"}},
				Total: 31,
			}, nil
		},
	}

	r := newTestRouter()
	h := api.NewAuditHandler(repo, testLogger())
	r.GET("/audit-logs", h.Query)

	w := doRequest(r, http.MethodGet, "/audit-logs?event_type=team.create&page=2&page_size=10", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var page models.AuditPage
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if page.Total != 31 || len(page.Items) != 1 {
		t.Errorf("page = total %d with %d items, want 31 and 1", page.Total, len(page.Items))
	}
}

func TestAuditQuery_BadSince(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewAuditHandler(&mockAuditRepo{}, testLogger())
	r.GET("/audit-logs", h.Query)

	w := doRequest(r, http.MethodGet, "/audit-logs?since=yesterday", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
