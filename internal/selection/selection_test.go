package selection

import (
	"reflect"
	"testing"
)

func TestToggle_IsAnInvolution(t *testing.T) {
	starts := []Set{New(), New(1), New(1, 2, 3), New(4, 9)}
	for _, s := range starts {
		for _, id := range []int64{1, 2, 5, 9} {
			got := s.Toggle(id).Toggle(id)
			if !got.Equal(s) {
				t.Errorf("toggle(%d) twice on %s gave %s", id, s, got)
			}
		}
	}
}

func TestToggle_DoesNotMutateReceiver(t *testing.T) {
	s := New(1, 2)
	_ = s.Toggle(3)
	_ = s.Toggle(1)
	if !s.Equal(New(1, 2)) {
		t.Fatalf("receiver changed: %s", s)
	}
}

func TestToggle_RepeatedNeverDuplicates(t *testing.T) {
	s := New()
	for i := 0; i < 7; i++ {
		s = s.Toggle(2)
		s = s.Add(3)
	}
	ids := s.IDs()
	seen := map[int64]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d in %v", id, ids)
		}
		seen[id] = true
	}
	// 7 toggles of 2 leave it selected
	if !reflect.DeepEqual(ids, []int64{2, 3}) {
		t.Fatalf("expected [2 3], got %v", ids)
	}
}

func TestNew_DeduplicatesAndSorts(t *testing.T) {
	s := New(5, 1, 5, 3, 1)
	if got := s.IDs(); !reflect.DeepEqual(got, []int64{1, 3, 5}) {
		t.Fatalf("unexpected ids %v", got)
	}
	if s.Len() != 3 {
		t.Fatalf("expected len 3, got %d", s.Len())
	}
}

func TestZeroValueIsEmpty(t *testing.T) {
	var s Set
	if !s.IsEmpty() || s.Has(1) || len(s.IDs()) != 0 {
		t.Fatalf("zero set should be empty")
	}
	if got := s.Toggle(1).IDs(); !reflect.DeepEqual(got, []int64{1}) {
		t.Fatalf("toggle on zero set gave %v", got)
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []int64
	}{
		{"nil", nil, []int64{}},
		{"comma list", []string{"1,2,3"}, []int64{1, 2, 3}},
		{"repeated", []string{"3", "1"}, []int64{1, 3}},
		{"mixed with dupes", []string{"1,2", "2", " 4 "}, []int64{1, 2, 4}},
		{"blanks", []string{"", ",,"}, []int64{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Parse(tc.in)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got := s.IDs(); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestParse_RejectsNonIntegers(t *testing.T) {
	if _, err := Parse([]string{"1,abc"}); err == nil {
		t.Fatal("expected error for non-integer id")
	}
}

func TestEncode(t *testing.T) {
	if got := New(3, 1, 2).Encode(); got != "1,2,3" {
		t.Fatalf("unexpected encoding %q", got)
	}
	if got := New().Encode(); got != "" {
		t.Fatalf("empty set should encode to empty string, got %q", got)
	}
}
