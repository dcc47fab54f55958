package wmi

import (
	"fmt"
	"sort"
)

// MethodID identifies a firmware operation within a call family. The same
// numeric value may select unrelated operations in the get and the set family.
type MethodID uint32

// Shape describes the output of a get method: Count elements of Size bytes.
type Shape struct {
	Count uint8
	Size  uint8
}

// Len returns the number of bytes the output buffer must hold.
func (s Shape) Len() int {
	return int(s.Count) * int(s.Size)
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Count, s.Size)
}

// Key addresses a method by call family and ID.
type Key struct {
	Family Family
	Method MethodID
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d", k.Family, k.Method)
}

// Entry is a single registry record.
type Entry struct {
	Key
	Shape
}

// GetEntry creates a registry entry for a get method.
func GetEntry(method MethodID, count, size uint8) Entry {
	return Entry{Key{FamilyGet, method}, Shape{count, size}}
}

// Registry maps get methods to their output shapes. It is immutable after
// creation and safe for concurrent use.
type Registry struct {
	shapes map[Key]Shape
}

// NewRegistry creates a Registry. Duplicate keys within a family, shapes for
// the set family, zero counts and element sizes other than 1, 2, 4 or 8 are
// rejected.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{shapes: make(map[Key]Shape, len(entries))}
	for _, e := range entries {
		if !e.Family.valid() {
			return nil, fmt.Errorf("Invalid call family for method %v", e.Key)
		}
		if e.Family != FamilyGet {
			return nil, fmt.Errorf("Output shape for method %v not allowed: only get methods have shapes", e.Key)
		}
		if e.Count == 0 {
			return nil, fmt.Errorf("Invalid element count for method %v: 0", e.Key)
		}
		switch e.Size {
		case 1, 2, 4, 8:
		default:
			return nil, fmt.Errorf("Invalid element size for method %v: %d", e.Key, e.Size)
		}
		if _, ok := r.shapes[e.Key]; ok {
			return nil, fmt.Errorf("Duplicate registry entry: %v", e.Key)
		}
		r.shapes[e.Key] = e.Shape
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on an invalid table.
func MustRegistry(entries ...Entry) *Registry {
	r, err := NewRegistry(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// Shape looks up the output shape of a method.
func (r *Registry) Shape(family Family, method MethodID) (Shape, bool) {
	s, ok := r.shapes[Key{family, method}]
	return s, ok
}

// Methods returns the registered methods of a family in ascending order.
func (r *Registry) Methods(family Family) []MethodID {
	var ms []MethodID
	for k := range r.shapes {
		if k.Family == family {
			ms = append(ms, k.Method)
		}
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i] < ms[j] })
	return ms
}
