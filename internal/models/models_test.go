package models_test

import (
	"strings"
	"testing"
	"time"

	"github.com/keyfleet/keyfleet/internal/models"
)

func ptr[T any](v T) *T { return &v }

func assertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func assertErrorContains(t *testing.T, err error, want string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error containing %q, got nil", want)
	}

	if !strings.Contains(err.Error(), want) {
		t.Errorf("expected error containing %q, got %q", want, err.Error())
	}
}

func TestCreateTeamRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     models.CreateTeamRequest
		wantErr string
	}{
		{name: "valid", req: models.CreateTeamRequest{Name: "acme", AdminEmail: "ops@acme.io"}},
		{name: "missing name", req: models.CreateTeamRequest{AdminEmail: "ops@acme.io"}, wantErr: "name is required"},
		{name: "whitespace name", req: models.CreateTeamRequest{Name: "   ", AdminEmail: "ops@acme.io"}, wantErr: "name is required"},
		{name: "missing email", req: models.CreateTeamRequest{Name: "acme"}, wantErr: "email is required"},
		{name: "name too long", req: models.CreateTeamRequest{Name: strings.Repeat("x", 256), AdminEmail: "a@b.c"}, wantErr: "exceeds maximum length"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantErr != "" {
				assertErrorContains(t, err, tc.wantErr)
				return
			}
			assertNoError(t, err)
		})
	}
}

func TestCreateKeyRequest_Validate_Ownership(t *testing.T) {
	tests := []struct {
		name    string
		req     models.CreateKeyRequest
		wantErr string
	}{
		{name: "team owned", req: models.CreateKeyRequest{Name: "k", RegionID: 1, TeamID: ptr(int64(7))}},
		{name: "user owned", req: models.CreateKeyRequest{Name: "k", RegionID: 1, OwnerID: ptr(int64(3))}},
		{name: "both owners", req: models.CreateKeyRequest{Name: "k", RegionID: 1, OwnerID: ptr(int64(3)), TeamID: ptr(int64(7))}, wantErr: "mutually exclusive"},
		{name: "no owner", req: models.CreateKeyRequest{Name: "k", RegionID: 1}, wantErr: "exactly one of"},
		{name: "missing region", req: models.CreateKeyRequest{Name: "k", TeamID: ptr(int64(7))}, wantErr: "region_id is required"},
		{name: "missing name", req: models.CreateKeyRequest{RegionID: 1, TeamID: ptr(int64(7))}, wantErr: "name is required"},
		{name: "bad duration", req: models.CreateKeyRequest{Name: "k", RegionID: 1, TeamID: ptr(int64(7)), BudgetDuration: "monthly"}, wantErr: "invalid budget duration"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantErr != "" {
				assertErrorContains(t, err, tc.wantErr)
				return
			}
			assertNoError(t, err)
		})
	}
}

func TestPrivateAIKey_OwnerKind(t *testing.T) {
	tests := []struct {
		name string
		key  models.PrivateAIKey
		want models.OwnerKind
	}{
		{name: "user", key: models.PrivateAIKey{OwnerID: ptr(int64(3))}, want: models.OwnerUser},
		{name: "team", key: models.PrivateAIKey{TeamID: ptr(int64(7))}, want: models.OwnerTeam},
		{name: "neither", key: models.PrivateAIKey{}, want: models.OwnerUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.key.OwnerKind(); got != tc.want {
				t.Errorf("OwnerKind() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseBudgetDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "30d", want: 30 * 24 * time.Hour},
		{in: "12h", want: 12 * time.Hour},
		{in: "1d", want: 24 * time.Hour},
		{in: "0d", wantErr: true},
		{in: "-3d", wantErr: true},
		{in: "d", wantErr: true},
		{in: "30", wantErr: true},
		{in: "30m", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := models.ParseBudgetDuration(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tc.in, got)
				}
				return
			}
			assertNoError(t, err)
			if got != tc.want {
				t.Errorf("ParseBudgetDuration(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestUpdateUserRequest_Validate(t *testing.T) {
	bad := models.Role("superuser")
	good := models.RoleSales

	if err := (&models.UpdateUserRequest{Role: &bad}).Validate(); err == nil {
		t.Error("expected error for unrecognized role")
	}

	if err := (&models.UpdateUserRequest{Role: &good}).Validate(); err != nil {
		t.Errorf("expected no error for sales role, got %v", err)
	}
}

func TestCreateRegionRequest_DefaultPort(t *testing.T) {
	req := models.CreateRegionRequest{Name: "us-east-1", PostgresHost: "localhost"}
	assertNoError(t, req.Validate())

	if req.PostgresPort != 5432 {
		t.Errorf("expected default port 5432, got %d", req.PostgresPort)
	}
}
