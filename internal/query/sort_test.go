package query_test

import (
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/keyfleet/keyfleet/internal/query"
)

type item struct {
	Name    string
	Created *time.Time
	Active  bool
	Spend   float64
}

func newItemSorter() *query.Sorter[item] {
	s := query.NewSorter[item]()
	s.Register("name", query.ByString(func(i item) string { return i.Name }))
	s.Register("created", query.ByTime(func(i item) *time.Time { return i.Created }))
	s.Register("active", query.ByBool(func(i item) bool { return i.Active }))
	s.Register("spend", query.ByFloat(func(i item) float64 { return i.Spend }))
	return s
}

func tm(day int) *time.Time {
	t := time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestSorter_NoFieldKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	items := []item{{Name: "c"}, {Name: "a"}, {Name: "b"}}
	got := newItemSorter().Apply(items)

	if !reflect.DeepEqual(got, items) {
		t.Errorf("expected insertion order, got %v", got)
	}
}

func TestSorter_StringCaseInsensitive(t *testing.T) {
	t.Parallel()

	s := newItemSorter()
	s.Toggle("name")

	got := s.Apply([]item{{Name: "banana"}, {Name: "Apple"}, {Name: "cherry"}})

	want := []string{"Apple", "banana", "cherry"}
	for i, w := range want {
		if got[i].Name != w {
			t.Errorf("position %d: expected %q, got %q", i, w, got[i].Name)
		}
	}
}

func TestSorter_ToggleSameFieldFlips(t *testing.T) {
	t.Parallel()

	s := newItemSorter()
	s.Toggle("name")

	if f, d := s.State(); f != "name" || d != query.Ascending {
		t.Fatalf("expected name/ascending, got %q/%v", f, d)
	}

	s.Toggle("name")

	if _, d := s.State(); d != query.Descending {
		t.Errorf("expected descending after second toggle, got %v", d)
	}

	s.Toggle("created")

	if f, d := s.State(); f != "created" || d != query.Ascending {
		t.Errorf("expected created/ascending after field switch, got %q/%v", f, d)
	}
}

func TestSorter_DescendingIsExactReverse(t *testing.T) {
	t.Parallel()

	// No ties: reversing the direction must reverse the ordering exactly.
	items := []item{{Spend: 3}, {Spend: 1}, {Spend: 4}, {Spend: 2}}

	s := newItemSorter()
	s.Toggle("spend")
	asc := s.Apply(items)
	s.Toggle("spend")
	desc := s.Apply(items)

	slices.Reverse(desc)

	if !reflect.DeepEqual(asc, desc) {
		t.Errorf("descending is not the reverse of ascending: %v vs %v", asc, desc)
	}
}

func TestSorter_TimeByEpoch(t *testing.T) {
	t.Parallel()

	s := newItemSorter()
	s.Toggle("created")

	got := s.Apply([]item{
		{Name: "b", Created: tm(20)},
		{Name: "c", Created: nil},
		{Name: "a", Created: tm(5)},
	})

	// Nil sorts first, then by timestamp.
	want := []string{"c", "a", "b"}
	for i, w := range want {
		if got[i].Name != w {
			t.Errorf("position %d: expected %q, got %q", i, w, got[i].Name)
		}
	}
}

func TestSorter_BoolTrueFirstAscending(t *testing.T) {
	t.Parallel()

	s := newItemSorter()
	s.Toggle("active")

	got := s.Apply([]item{
		{Name: "off", Active: false},
		{Name: "on", Active: true},
	})

	if got[0].Name != "on" {
		t.Errorf("expected true to sort first under ascending, got %v", got)
	}
}

func TestSorter_StableForTies(t *testing.T) {
	t.Parallel()

	s := newItemSorter()
	s.Toggle("spend")

	items := []item{
		{Name: "first", Spend: 1},
		{Name: "second", Spend: 1},
		{Name: "third", Spend: 1},
	}
	got := s.Apply(items)

	if !reflect.DeepEqual(got, items) {
		t.Errorf("equal keys must keep relative order, got %v", got)
	}
}

func TestSorter_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	items := []item{{Name: "z"}, {Name: "a"}}
	orig := slices.Clone(items)

	s := newItemSorter()
	s.Toggle("name")
	_ = s.Apply(items)

	if !reflect.DeepEqual(items, orig) {
		t.Error("sorter mutated the input slice")
	}
}
