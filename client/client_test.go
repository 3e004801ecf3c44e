package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// newTestServer creates a test server that routes to the given handler map.
// Keys are "METHOD /path", values are handler funcs.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, WithBearerToken("test-token"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return srv, c
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func TestNewRejectsBothCredentials(t *testing.T) {
	_, err := New("http://localhost:8000", WithBearerToken("a"), WithSessionCookie("b"))
	if err == nil {
		t.Fatal("New() with cookie and bearer should fail")
	}
}

func TestHealth(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/health": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, HealthResponse{Status: "ok", Version: "0.3.0", Database: "connected"})
		},
	})
	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if resp.Status != "ok" || resp.Database != "connected" {
		t.Errorf("got %+v", resp)
	}
}

func TestConfigFetchedOnce(t *testing.T) {
	var calls atomic.Int32
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/config": func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			jsonResponse(w, 200, RuntimeConfig{APIBaseURL: "http://api", EventsEnabled: true})
		},
	})

	ctx := context.Background()
	for range 3 {
		cfg, err := c.Config(ctx)
		if err != nil {
			t.Fatalf("Config() error: %v", err)
		}
		if cfg.APIBaseURL != "http://api" {
			t.Errorf("got base url %q", cfg.APIBaseURL)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("config endpoint called %d times, want 1", got)
	}
}

func TestTeamsCRUD(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/teams": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, []Team{{ID: 1, Name: "research"}})
		},
		"POST /api/teams": func(w http.ResponseWriter, r *http.Request) {
			var req CreateTeamRequest
			json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
			jsonResponse(w, 201, Team{ID: 2, Name: req.Name, AdminEmail: req.AdminEmail})
		},
		"GET /api/teams/1": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, Team{ID: 1, Name: "research", Products: []Product{{ID: "prod_1"}}})
		},
		"PUT /api/teams/1": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, Team{ID: 1, Name: "renamed"})
		},
		"DELETE /api/teams/1": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(204)
		},
		"POST /api/teams/1/merge": func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				TargetTeamID int64 `json:"target_team_id"`
			}
			json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
			jsonResponse(w, 200, MergeResult{SourceTeamID: 1, TargetTeamID: req.TargetTeamID, MovedUsers: 3, MovedKeys: 2})
		},
	})

	ctx := context.Background()

	teams, err := c.Teams.List(ctx, false)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(teams) != 1 || teams[0].Name != "research" {
		t.Errorf("List: got %+v", teams)
	}

	team, err := c.Teams.Create(ctx, &CreateTeamRequest{Name: "ml", AdminEmail: "a@b.c"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if team.Name != "ml" {
		t.Errorf("Create: got name %q", team.Name)
	}

	team, err = c.Teams.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if len(team.Products) != 1 {
		t.Errorf("Get: products not attached: %+v", team)
	}

	name := "renamed"
	team, err = c.Teams.Update(ctx, 1, &UpdateTeamRequest{Name: &name})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if team.Name != "renamed" {
		t.Errorf("Update: got name %q", team.Name)
	}

	result, err := c.Teams.Merge(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}
	if result.TargetTeamID != 2 || result.MovedUsers != 3 {
		t.Errorf("Merge: got %+v", result)
	}

	if err := c.Teams.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestKeyCreateCarriesCredentials(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/private-ai-keys": func(w http.ResponseWriter, r *http.Request) {
			var req CreateKeyRequest
			json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
			jsonResponse(w, 201, PrivateAIKey{
				ID:       10,
				Name:     req.Name,
				TeamID:   req.TeamID,
				RegionID: req.RegionID,
				Credentials: DatabaseCredentials{
					Host: "db.internal", Port: 5432, Username: "ai_abc", Password: "plaintext-once",
				},
			})
		},
	})

	teamID := int64(7)
	key, err := c.Keys.Create(context.Background(), &CreateKeyRequest{Name: "k", TeamID: &teamID, RegionID: 1})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if key.Credentials.Password != "plaintext-once" {
		t.Errorf("creation response must carry the password, got %+v", key.Credentials)
	}
	if key.OwnerID != nil {
		t.Errorf("team key must not report an owner_id")
	}
}

func TestCacheServesRepeatReads(t *testing.T) {
	var calls atomic.Int32
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/regions": func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			jsonResponse(w, 200, []Region{{ID: 1, Name: "us-east-1"}})
		},
	})

	ctx := context.Background()
	for range 3 {
		regions, err := c.Regions.List(ctx, false)
		if err != nil {
			t.Fatalf("List error: %v", err)
		}
		if len(regions) != 1 {
			t.Fatalf("got %d regions", len(regions))
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server hit %d times for identical reads, want 1", got)
	}
}

func TestCacheKeyIncludesParams(t *testing.T) {
	var calls atomic.Int32
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/regions": func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			jsonResponse(w, 200, []Region{{ID: 1}})
		},
	})

	ctx := context.Background()
	if _, err := c.Regions.List(ctx, false); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Regions.List(ctx, true); err != nil {
		t.Fatal(err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("filtered and unfiltered reads must cache separately, got %d hits", got)
	}
}

func TestMutationInvalidatesDependentReads(t *testing.T) {
	var listCalls atomic.Int32
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/teams": func(w http.ResponseWriter, _ *http.Request) {
			listCalls.Add(1)
			jsonResponse(w, 200, []Team{{ID: 1}})
		},
		"POST /api/teams": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 201, Team{ID: 2})
		},
	})

	ctx := context.Background()
	if _, err := c.Teams.List(ctx, false); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Teams.List(ctx, false); err != nil {
		t.Fatal(err)
	}
	if got := listCalls.Load(); got != 1 {
		t.Fatalf("expected cached second read, got %d hits", got)
	}

	if _, err := c.Teams.Create(ctx, &CreateTeamRequest{Name: "x", AdminEmail: "a@b.c"}); err != nil {
		t.Fatal(err)
	}

	// The create dirtied the collection; this read must refetch.
	if _, err := c.Teams.List(ctx, false); err != nil {
		t.Fatal(err)
	}
	if got := listCalls.Load(); got != 2 {
		t.Errorf("expected refetch after mutation, got %d hits", got)
	}
}

func TestFailedMutationKeepsCache(t *testing.T) {
	var listCalls atomic.Int32
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/teams": func(w http.ResponseWriter, _ *http.Request) {
			listCalls.Add(1)
			jsonResponse(w, 200, []Team{{ID: 1}})
		},
		"POST /api/teams": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 409, map[string]string{"detail": "a record with these values already exists"})
		},
	})

	ctx := context.Background()
	if _, err := c.Teams.List(ctx, false); err != nil {
		t.Fatal(err)
	}

	_, err := c.Teams.Create(ctx, &CreateTeamRequest{Name: "dup", AdminEmail: "a@b.c"})
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if _, err := c.Teams.List(ctx, false); err != nil {
		t.Fatal(err)
	}
	if got := listCalls.Load(); got != 1 {
		t.Errorf("failed mutation must not invalidate, got %d hits", got)
	}
}

func TestAPIErrorDetail(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/teams/99": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 404, map[string]string{"detail": "team not found"})
		},
	})

	_, err := c.Teams.Get(context.Background(), 99)
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Detail != "team not found" {
		t.Errorf("detail not surfaced verbatim: %v", err)
	}
}

func TestUnauthorizedSentinel(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/users": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 401, map[string]string{"detail": "authentication required"})
		},
	})

	_, err := c.Users.List(context.Background(), nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("401 must match ErrUnauthorized, got %v", err)
	}
}

func TestAuthModes(t *testing.T) {
	routes := map[string]http.HandlerFunc{
		"GET /api/products": func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			cookie, _ := r.Cookie("access_token")
			if auth != "" && cookie != nil {
				jsonResponse(w, 400, map[string]string{"detail": "ambiguous credentials"})
				return
			}
			jsonResponse(w, 200, []Product{})
		},
	}

	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	bearer, err := New(srv.URL, WithBearerToken("tok"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bearer.Products.List(context.Background()); err != nil {
		t.Errorf("bearer auth: %v", err)
	}

	cookie, err := New(srv.URL, WithSessionCookie("tok"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cookie.Products.List(context.Background()); err != nil {
		t.Errorf("cookie auth: %v", err)
	}
}

func TestTeamOverviewCascade(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/teams/1": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, Team{ID: 1, Name: "research", Products: []Product{{ID: "prod_1"}}})
		},
		"GET /api/private-ai-keys": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("team_id") != "1" {
				jsonResponse(w, 200, []PrivateAIKey{})
				return
			}
			jsonResponse(w, 200, []PrivateAIKey{{ID: 10}, {ID: 11}, {ID: 12}})
		},
		"GET /api/private-ai-keys/10/spend": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, SpendReport{Spend: 5})
		},
		"GET /api/private-ai-keys/11/spend": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, SpendReport{Spend: 7.5})
		},
		"GET /api/private-ai-keys/12/spend": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 500, map[string]string{"detail": "internal server error"})
		},
	})

	overview, err := c.TeamOverview(context.Background(), 1)
	if err != nil {
		t.Fatalf("TeamOverview error: %v", err)
	}
	if len(overview.Keys) != 3 {
		t.Fatalf("got %d keys", len(overview.Keys))
	}
	if overview.Spend.Total != 12.5 {
		t.Errorf("got total %v, want 12.5", overview.Spend.Total)
	}
	if !overview.Spend.Partial {
		t.Error("a failed spend fetch must mark the total partial")
	}
}

func TestTeamOverviewUnauthorizedAborts(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/teams/1": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, Team{ID: 1})
		},
		"GET /api/private-ai-keys": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, []PrivateAIKey{{ID: 10}})
		},
		"GET /api/private-ai-keys/10/spend": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 401, map[string]string{"detail": "authentication required"})
		},
	})

	_, err := c.TeamOverview(context.Background(), 1)
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestMutationStates(t *testing.T) {
	m := NewMutation()
	if m.State() != MutationIdle {
		t.Fatalf("new mutation state = %v", m.State())
	}

	err := m.Run(context.Background(), func(context.Context) error { return nil })
	if err != nil || m.State() != MutationSucceeded {
		t.Errorf("success run: err=%v state=%v", err, m.State())
	}

	apiErr := &APIError{StatusCode: 400, Detail: "name is required"}
	err = m.Run(context.Background(), func(context.Context) error { return apiErr })
	if err == nil || m.State() != MutationFailed {
		t.Errorf("failed run: err=%v state=%v", err, m.State())
	}
	if m.ErrMessage() != "name is required" {
		t.Errorf("server detail not surfaced verbatim: %q", m.ErrMessage())
	}

	if err := m.Run(context.Background(), func(context.Context) error { return errors.New("socket closed") }); err == nil {
		t.Error("failed op must return its error")
	}
	if m.ErrMessage() != "request failed" {
		t.Errorf("non-API error must fall back to generic message: %q", m.ErrMessage())
	}
}
