package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/keyfleet/keyfleet/internal/api"
	"github.com/keyfleet/keyfleet/internal/models"
	"github.com/keyfleet/keyfleet/internal/store"
)

func TestKeyCreate_ReturnsCredentialsOnce(t *testing.T) {
	t.Parallel()

	repo := &mockKeyRepo{
		createFn: func(_ context.Context, _ string, req models.CreateKeyRequest) (*models.PrivateAIKey, error) {
			return &models.PrivateAIKey{
				ID:       1,
				Name:     req.Name,
				OwnerID:  req.OwnerID,
				RegionID: req.RegionID,
				Credentials: models.DatabaseCredentials{
					Host: "db.us-east.internal", Port: 5432,
					Database: "ai_abc", Username: "user_abc", Password: "s3cret",
				},
				GatewayToken: "sk-test",
			}, nil
		},
	}

	r := newTestRouter()
	h := api.NewKeyHandler(repo, testLogger())
	r.POST("/private-ai-keys", h.Create)

	w := doRequest(r, http.MethodPost, "/private-ai-keys", `{"name":"k1","owner_id":5,"region_id":1}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var key models.PrivateAIKey
	if err := json.Unmarshal(w.Body.Bytes(), &key); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if key.Credentials.Password != "s3cret" {
		t.Error("creation response must include the plaintext password")
	}
	if key.GatewayToken != "sk-test" {
		t.Errorf("litellm_token = %q, want sk-test", key.GatewayToken)
	}
}

func TestKeyCreate_OwnershipValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "both owners", body: `{"name":"k","owner_id":1,"team_id":2,"region_id":1}`},
		{name: "no owner", body: `{"name":"k","region_id":1}`},
		{name: "no region", body: `{"name":"k","owner_id":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestRouter()
			h := api.NewKeyHandler(&mockKeyRepo{}, testLogger())
			r.POST("/private-ai-keys", h.Create)

			w := doRequest(r, http.MethodPost, "/private-ai-keys", tt.body)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestKeyList_FilterPassthrough(t *testing.T) {
	t.Parallel()

	var got store.KeyFilter
	repo := &mockKeyRepo{
		listFn: func(_ context.Context, filter store.KeyFilter) ([]models.PrivateAIKey, error) {
			got = filter
			return nil, nil
		},
	}

	r := newTestRouter()
	h := api.NewKeyHandler(repo, testLogger())
	r.GET("/private-ai-keys", h.List)

	w := doRequest(r, http.MethodGet, "/private-ai-keys?team_id=9&region_id=2", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got.TeamID == nil || *got.TeamID != 9 {
		t.Errorf("team filter = %v, want 9", got.TeamID)
	}
	if got.RegionID == nil || *got.RegionID != 2 {
		t.Errorf("region filter = %v, want 2", got.RegionID)
	}
	if got.OwnerID != nil {
		t.Errorf("owner filter = %v, want nil", got.OwnerID)
	}
}

func TestKeyRecordSpend_NegativeRejected(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewKeyHandler(&mockKeyRepo{}, testLogger())
	r.PUT("/private-ai-keys/:id/spend", h.RecordSpend)

	w := doRequest(r, http.MethodPut, "/private-ai-keys/1/spend", `{"spend":-5}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestKeyDelete_NotFound(t *testing.T) {
	t.Parallel()

	repo := &mockKeyRepo{
		deleteFn: func(_ context.Context, _ string, _ int64) error {
			return models.ErrKeyNotFound
		},
	}

	r := newTestRouter()
	h := api.NewKeyHandler(repo, testLogger())
	r.DELETE("/private-ai-keys/:id", h.Delete)

	w := doRequest(r, http.MethodDelete, "/private-ai-keys/42", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
