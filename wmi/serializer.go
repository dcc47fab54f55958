package wmi

import (
	"context"
	"sync"
)

// serializer owns one exclusion domain per call family. The firmware call
// path of a family is not reentrant, calls of different families may run
// concurrently.
type serializer struct {
	get chan struct{}
	set chan struct{}
}

func newSerializer() *serializer {
	return &serializer{
		get: make(chan struct{}, 1),
		set: make(chan struct{}, 1),
	}
}

// acquire blocks until the domain of the family is free or ctx is done. The
// returned function releases the domain; calling it more than once is
// harmless.
func (s *serializer) acquire(ctx context.Context, f Family) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	domain := s.get
	if f == FamilySet {
		domain = s.set
	}
	select {
	case domain <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	var once sync.Once
	return func() {
		once.Do(func() { <-domain })
	}, nil
}
