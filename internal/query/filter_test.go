package query_test

import (
	"reflect"
	"testing"

	"github.com/keyfleet/keyfleet/internal/query"
)

type row struct {
	Name   string
	Status string
	Role   string
}

var rows = []row{
	{Name: "Alpha Team", Status: "active", Role: "admin"},
	{Name: "beta squad", Status: "inactive", Role: "read_only"},
	{Name: "Gamma", Status: "active", Role: "sales"},
	{Name: "ALPHABET", Status: "active", Role: "read_only"},
}

func name(r row) string   { return r.Name }
func status(r row) string { return r.Status }
func role(r row) string   { return r.Role }

func TestFilter_TextContains_CaseInsensitive(t *testing.T) {
	t.Parallel()

	got := query.Filter(rows, query.TextContains(name, "alpha"))

	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d: %v", len(got), got)
	}
	if got[0].Name != "Alpha Team" || got[1].Name != "ALPHABET" {
		t.Errorf("unexpected matches: %v", got)
	}
}

func TestFilter_EmptyQueryMatchesAll(t *testing.T) {
	t.Parallel()

	got := query.Filter(rows, query.TextContains(name, ""))

	if len(got) != len(rows) {
		t.Errorf("expected all %d rows, got %d", len(rows), len(got))
	}
}

func TestFilter_AllSentinelBypasses(t *testing.T) {
	t.Parallel()

	got := query.Filter(rows, query.Equals(status, "all"))

	if len(got) != len(rows) {
		t.Errorf("expected all %d rows, got %d", len(rows), len(got))
	}
}

func TestFilter_Conjunction(t *testing.T) {
	t.Parallel()

	got := query.Filter(rows,
		query.TextContains(name, "a"),
		query.Equals(status, "active"),
		query.OneOf(role, []string{"admin", "sales"}),
	)

	// Every element must satisfy every predicate — AND, never OR.
	for _, r := range got {
		if r.Status != "active" {
			t.Errorf("element %v fails status predicate", r)
		}
		if r.Role != "admin" && r.Role != "sales" {
			t.Errorf("element %v fails role predicate", r)
		}
	}

	if len(got) != 2 {
		t.Errorf("expected 2 rows, got %d: %v", len(got), got)
	}
}

func TestFilter_EmptyMultiSelectBypasses(t *testing.T) {
	t.Parallel()

	got := query.Filter(rows, query.OneOf(role, nil))

	if len(got) != len(rows) {
		t.Errorf("expected all %d rows, got %d", len(rows), len(got))
	}
}

func TestFilter_Idempotent(t *testing.T) {
	t.Parallel()

	preds := []query.Predicate[row]{
		query.TextContains(name, "a"),
		query.Equals(status, "active"),
	}

	once := query.Filter(rows, preds...)
	twice := query.Filter(once, preds...)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("filter not idempotent: %v != %v", once, twice)
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	orig := make([]row, len(rows))
	copy(orig, rows)

	_ = query.Filter(rows, query.Equals(status, "inactive"))

	if !reflect.DeepEqual(orig, rows) {
		t.Error("filter mutated the source collection")
	}
}

func TestFilter_ResultIsSubset(t *testing.T) {
	t.Parallel()

	got := query.Filter(rows, query.TextContains(name, "e"))

	for _, g := range got {
		found := false
		for _, r := range rows {
			if reflect.DeepEqual(g, r) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("result element %v not in source collection", g)
		}
	}
}
