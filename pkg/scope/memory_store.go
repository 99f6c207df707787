package scope

import (
	"context"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// MemoryStore is an in-memory Store. It supports equality and IN matching
// on the columns returned by Table.Values plus id, and ordering by id.
type MemoryStore[E any, T interface {
	*E
	Entity
}] struct {
	mu     sync.RWMutex
	table  Table[T]
	rows   map[int64]*E
	nextID int64
	now    func() time.Time
}

// NewMemoryStore creates an empty MemoryStore for table.
func NewMemoryStore[E any, T interface {
	*E
	Entity
}](table Table[T]) *MemoryStore[E, T] {
	return &MemoryStore[E, T]{
		table: table,
		rows:  make(map[int64]*E),
		now:   time.Now,
	}
}

func (s *MemoryStore[E, T]) Insert(_ context.Context, e T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.violatesUnique(e, 0) {
		return ErrDuplicate
	}

	s.nextID++
	e.SetPrimaryKey(s.nextID)
	if s.table.Timestamps {
		if t, ok := any(e).(toucher); ok {
			t.Touch(s.now(), true)
		}
	}
	s.rows[s.nextID] = clone(e)

	return nil
}

func (s *MemoryStore[E, T]) Select(_ context.Context, q Query) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.match(q.Where)
	if len(q.OrderBy) > 0 && strings.EqualFold(strings.TrimSpace(q.OrderBy[0]), "id desc") {
		slices.Reverse(matched)
	}

	if q.Offset > 0 {
		if q.Offset >= uint64(len(matched)) {
			return []T{}, nil
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < uint64(len(matched)) {
		matched = matched[:q.Limit]
	}

	out := make([]T, 0, len(matched))
	for _, row := range matched {
		out = append(out, clone(T(row)))
	}
	return out, nil
}

func (s *MemoryStore[E, T]) Update(_ context.Context, where sq.Eq, e T) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := s.match(where)
	for _, row := range matched {
		if s.violatesUnique(e, T(row).PrimaryKey()) {
			return 0, ErrDuplicate
		}
	}

	for _, row := range matched {
		current := T(row)
		next := clone(e)
		next.SetPrimaryKey(current.PrimaryKey())
		next.SetOwner(current.OwnerID())
		if s.table.Timestamps {
			if t, ok := any(next).(toucher); ok {
				t.Touch(any(current).(toucher).Created(), true)
				t.Touch(s.now(), false)
			}
		}
		s.rows[current.PrimaryKey()] = next
	}

	return int64(len(matched)), nil
}

func (s *MemoryStore[E, T]) Delete(_ context.Context, where sq.Eq) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := s.match(where)
	for _, row := range matched {
		delete(s.rows, T(row).PrimaryKey())
	}
	return int64(len(matched)), nil
}

func (s *MemoryStore[E, T]) Count(_ context.Context, where sq.Eq) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.match(where))), nil
}

// match returns rows satisfying where, ordered by id.
func (s *MemoryStore[E, T]) match(where sq.Eq) []*E {
	ids := make([]int64, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]*E, 0, len(ids))
	for _, id := range ids {
		row := s.rows[id]
		if s.matches(T(row), where) {
			out = append(out, row)
		}
	}
	return out
}

func (s *MemoryStore[E, T]) matches(e T, where sq.Eq) bool {
	cols := s.columns(e)
	for col, want := range where {
		got, ok := cols[col]
		if !ok || !valueMatches(got, want) {
			return false
		}
	}
	return true
}

func (s *MemoryStore[E, T]) columns(e T) map[string]any {
	cols := s.table.Values(e)
	cols["id"] = e.PrimaryKey()
	return cols
}

func (s *MemoryStore[E, T]) violatesUnique(e T, selfID int64) bool {
	if len(s.table.Unique) == 0 {
		return false
	}
	cols := s.columns(e)
	for _, set := range s.table.Unique {
		where := make(sq.Eq, len(set))
		for _, c := range set {
			where[c] = cols[c]
		}
		for _, row := range s.match(where) {
			if T(row).PrimaryKey() != selfID {
				return true
			}
		}
	}
	return false
}

func clone[E any, T interface {
	*E
	Entity
}](e T) T {
	c := new(E)
	*c = *e
	return T(c)
}

// valueMatches mirrors sq.Eq semantics: a slice means IN, nil means IS NULL.
func valueMatches(got, want any) bool {
	if want == nil {
		return got == nil
	}
	rv := reflect.ValueOf(want)
	if rv.Kind() == reflect.Slice {
		for i := range rv.Len() {
			if scalarEqual(got, rv.Index(i).Interface()) {
				return true
			}
		}
		return false
	}
	return scalarEqual(got, want)
}

func scalarEqual(a, b any) bool {
	if ai, ok := toInt64(a); ok {
		bi, ok := toInt64(b)
		return ok && ai == bi
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if !av.Comparable() || !bv.Comparable() {
		return false
	}
	return a == b
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
