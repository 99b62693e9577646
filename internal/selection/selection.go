// Package selection holds the set of item ids a user has picked to filter
// collection points. A Set is a value: every transition returns a new Set and
// leaves the receiver untouched, so a consumer can keep earlier states around.
package selection

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type Set struct {
	ids map[int64]struct{}
}

func New(ids ...int64) Set {
	s := Set{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s Set) Has(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

func (s Set) Len() int {
	return len(s.ids)
}

func (s Set) IsEmpty() bool {
	return len(s.ids) == 0
}

func (s Set) Add(id int64) Set {
	if s.Has(id) {
		return s.clone()
	}
	next := s.clone()
	next.ids[id] = struct{}{}
	return next
}

func (s Set) Remove(id int64) Set {
	next := s.clone()
	delete(next.ids, id)
	return next
}

// Toggle removes id when it is selected and adds it otherwise.
func (s Set) Toggle(id int64) Set {
	if s.Has(id) {
		return s.Remove(id)
	}
	return s.Add(id)
}

// IDs returns the members in ascending order.
func (s Set) IDs() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s Set) Equal(other Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for id := range s.ids {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Encode renders the set as "1,2,3", the form used in query strings and
// multipart registration payloads.
func (s Set) Encode() string {
	ids := s.IDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func (s Set) String() string {
	return "{" + s.Encode() + "}"
}

// Parse builds a Set from raw request values. Each value may itself be a comma
// separated list, so "1,2", ["1","2"] and ["1,2","2"] all yield {1,2}.
func Parse(values []string) (Set, error) {
	s := New()
	for _, v := range values {
		for _, tok := range strings.Split(v, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			id, err := strconv.ParseInt(tok, 10, 64)
			if err != nil {
				return Set{}, fmt.Errorf("invalid item id %q", tok)
			}
			s.ids[id] = struct{}{}
		}
	}
	return s, nil
}

func (s Set) clone() Set {
	next := Set{ids: make(map[int64]struct{}, len(s.ids)+1)}
	for id := range s.ids {
		next.ids[id] = struct{}{}
	}
	return next
}
