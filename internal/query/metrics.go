package query

import (
	"fmt"
	"math"
	"time"

	"github.com/keyfleet/keyfleet/internal/models"
)

// trialWindow is the free trial length, anchored at the later of team
// creation and last payment.
const trialWindow = 30 * 24 * time.Hour

// TrialState classifies a team's subscription lifecycle stage.
type TrialState string

// Trial states, in precedence order. An active product subscription is
// terminal and wins over everything else.
const (
	TrialActiveProduct TrialState = "Active Product"
	TrialAlwaysFree    TrialState = "Always Free"
	TrialExpired       TrialState = "Expired"
	TrialRemaining     TrialState = "Trial"
)

// TrialStatus is the derived subscription stage for a team.
type TrialStatus struct {
	State         TrialState
	DaysRemaining int
}

// String renders the status the way list surfaces display it.
func (s TrialStatus) String() string {
	if s.State == TrialRemaining {
		return fmt.Sprintf("%d days remaining", s.DaysRemaining)
	}
	return string(s.State)
}

// TeamTrialStatus computes the trial status for a team at the given instant.
// Deterministic for a fixed now: the same inputs always produce the same
// status.
func TeamTrialStatus(team *models.Team, now time.Time) TrialStatus {
	for _, p := range team.Products {
		if p.IsActive {
			return TrialStatus{State: TrialActiveProduct}
		}
	}

	if team.IsAlwaysFree {
		return TrialStatus{State: TrialAlwaysFree}
	}

	anchor := team.CreatedAt
	if team.LastPayment != nil && team.LastPayment.After(anchor) {
		anchor = *team.LastPayment
	}

	end := anchor.Add(trialWindow)
	if !now.Before(end) {
		return TrialStatus{State: TrialExpired}
	}

	days := int(math.Ceil(end.Sub(now).Hours() / 24))

	return TrialStatus{State: TrialRemaining, DaysRemaining: days}
}

// Spend color endpoints. Values strictly between the minimum and maximum
// interpolate between the light and dark shades.
const (
	colorZero  = "#A0AEC0" // neutral gray
	colorMin   = "#000000" // black
	colorLight = "#C6F6D5" // light green
	colorDark  = "#276749" // dark green
)

// SpendColor maps a team's total spend onto a color given the minimum and
// maximum non-zero spend across all teams in view.
//
// Boundary rules: exactly zero is gray regardless of the range; the maximum
// is dark green; the non-zero minimum is black; a collapsed range
// (min == max, i.e. a single data point) is dark green.
func SpendColor(spend, min, max float64) string {
	if spend == 0 {
		return colorZero
	}

	if min == max || spend >= max {
		return colorDark
	}

	if spend <= min {
		return colorMin
	}

	t := (spend - min) / (max - min)

	return lerpHex(colorLight, colorDark, t)
}

// SpendRange returns the minimum and maximum of the non-zero values in
// spends. ok is false when every value is zero (or spends is empty).
func SpendRange(spends []float64) (min, max float64, ok bool) {
	for _, s := range spends {
		if s == 0 {
			continue
		}
		if !ok {
			min, max, ok = s, s, true
			continue
		}
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	return min, max, ok
}

// lerpHex linearly interpolates two #RRGGBB colors by t in [0, 1].
func lerpHex(from, to string, t float64) string {
	var fr, fg, fb, tr, tg, tb int
	fmt.Sscanf(from, "#%02X%02X%02X", &fr, &fg, &fb)
	fmt.Sscanf(to, "#%02X%02X%02X", &tr, &tg, &tb)

	lerp := func(a, b int) int {
		return a + int(math.Round(t*float64(b-a)))
	}

	return fmt.Sprintf("#%02X%02X%02X", lerp(fr, tr), lerp(fg, tg), lerp(fb, tb))
}

// SpendTotal is an aggregate of per-key spend. Partial marks a total that
// excludes keys whose spend was not loaded, so callers can render a
// partial-data indicator instead of silently understating the number.
type SpendTotal struct {
	Total   float64 `json:"total"`
	Partial bool    `json:"partial"`
}

// AggregateSpend sums per-key spend values. A nil entry means that key's
// spend has not been loaded; it contributes zero and marks the total partial.
func AggregateSpend(spends []*float64) SpendTotal {
	var out SpendTotal
	for _, s := range spends {
		if s == nil {
			out.Partial = true
			continue
		}
		out.Total += *s
	}

	return out
}
