package query_test

import (
	"testing"
	"time"

	"github.com/keyfleet/keyfleet/internal/models"
	"github.com/keyfleet/keyfleet/internal/query"
)

var now = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time { return now.Add(-time.Duration(n) * 24 * time.Hour) }

func TestTeamTrialStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		team     models.Team
		want     query.TrialState
		wantDays int
	}{
		{
			name: "created 40 days ago, no payments",
			team: models.Team{CreatedAt: daysAgo(40)},
			want: query.TrialExpired,
		},
		{
			name:     "created 5 days ago, no payments",
			team:     models.Team{CreatedAt: daysAgo(5)},
			want:     query.TrialRemaining,
			wantDays: 25,
		},
		{
			name: "active product wins regardless of dates",
			team: models.Team{
				CreatedAt: daysAgo(400),
				Products:  []models.Product{{ID: "prod_1", IsActive: true}},
			},
			want: query.TrialActiveProduct,
		},
		{
			name: "inactive product does not count",
			team: models.Team{
				CreatedAt: daysAgo(40),
				Products:  []models.Product{{ID: "prod_1", IsActive: false}},
			},
			want: query.TrialExpired,
		},
		{
			name: "always free without active product",
			team: models.Team{CreatedAt: daysAgo(400), IsAlwaysFree: true},
			want: query.TrialAlwaysFree,
		},
		{
			name: "active product beats always free",
			team: models.Team{
				IsAlwaysFree: true,
				Products:     []models.Product{{ID: "prod_1", IsActive: true}},
			},
			want: query.TrialActiveProduct,
		},
		{
			name: "last payment re-anchors the window",
			team: func() models.Team {
				paid := daysAgo(10)
				return models.Team{CreatedAt: daysAgo(90), LastPayment: &paid}
			}(),
			want:     query.TrialRemaining,
			wantDays: 20,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := query.TeamTrialStatus(&tc.team, now)
			if got.State != tc.want {
				t.Fatalf("state = %q, want %q", got.State, tc.want)
			}
			if tc.want == query.TrialRemaining && got.DaysRemaining != tc.wantDays {
				t.Errorf("days remaining = %d, want %d", got.DaysRemaining, tc.wantDays)
			}
		})
	}
}

func TestTeamTrialStatus_Deterministic(t *testing.T) {
	t.Parallel()

	team := models.Team{CreatedAt: daysAgo(5)}

	first := query.TeamTrialStatus(&team, now)
	second := query.TeamTrialStatus(&team, now)

	if first != second {
		t.Errorf("same inputs produced different statuses: %v vs %v", first, second)
	}
}

func TestTrialStatus_String(t *testing.T) {
	t.Parallel()

	got := query.TrialStatus{State: query.TrialRemaining, DaysRemaining: 25}.String()
	if got != "25 days remaining" {
		t.Errorf("String() = %q", got)
	}

	if s := (query.TrialStatus{State: query.TrialExpired}).String(); s != "Expired" {
		t.Errorf("String() = %q", s)
	}
}

func TestSpendColor(t *testing.T) {
	t.Parallel()

	gray := query.SpendColor(0, 5, 10)
	if gray != "#A0AEC0" {
		t.Errorf("zero spend: got %q, want gray", gray)
	}

	// Single data point: min == max.
	single := query.SpendColor(10, 10, 10)
	if single != "#276749" {
		t.Errorf("min==max: got %q, want dark green", single)
	}

	// Two teams {5, 10}: low is black, high is dark green.
	if c := query.SpendColor(5, 5, 10); c != "#000000" {
		t.Errorf("minimum spend: got %q, want black", c)
	}
	if c := query.SpendColor(10, 5, 10); c != "#276749" {
		t.Errorf("maximum spend: got %q, want dark green", c)
	}

	// Strictly between: interpolated, so neither endpoint color.
	mid := query.SpendColor(7.5, 5, 10)
	if mid == "#000000" || mid == "#276749" || mid == "#A0AEC0" {
		t.Errorf("midpoint should interpolate, got %q", mid)
	}
}

func TestSpendRange(t *testing.T) {
	t.Parallel()

	min, max, ok := query.SpendRange([]float64{0, 5, 10, 0, 7})
	if !ok || min != 5 || max != 10 {
		t.Errorf("SpendRange = (%v, %v, %v), want (5, 10, true)", min, max, ok)
	}

	if _, _, ok := query.SpendRange([]float64{0, 0}); ok {
		t.Error("all-zero spends should report ok=false")
	}
}

func TestAggregateSpend(t *testing.T) {
	t.Parallel()

	f := func(v float64) *float64 { return &v }

	full := query.AggregateSpend([]*float64{f(1.5), f(2.5)})
	if full.Total != 4.0 || full.Partial {
		t.Errorf("full aggregate = %+v, want total 4.0 partial=false", full)
	}

	partial := query.AggregateSpend([]*float64{f(1.5), nil, f(2.5)})
	if partial.Total != 4.0 || !partial.Partial {
		t.Errorf("partial aggregate = %+v, want total 4.0 partial=true", partial)
	}
}
