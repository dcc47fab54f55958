// Package wmitest provides a scriptable WMI transport for tests.
package wmitest

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mdzio/go-gbwmi/wmi"
)

// Call records a request to the transport.
type Call struct {
	GUID   uuid.UUID
	Method uint32
	Input  []byte
}

// Transport implements wmi.Transport. It records all calls, tracks the
// results handed out and the concurrency per interface GUID.
type Transport struct {
	// Respond computes the result of a call. If nil, integer 0 is returned.
	Respond func(c Call) (*wmi.Result, error)
	// Delay is slept before Respond is called.
	Delay time.Duration
	// Gate, if not nil, must be closed (or sent to) before calls proceed.
	Gate chan struct{}

	mu         sync.Mutex
	calls      []Call
	allocated  int
	released   int
	active     map[uuid.UUID]int
	maxActive  map[uuid.UUID]int
	overlapped bool
}

var _ wmi.Transport = &Transport{}

// Evaluate implements wmi.Transport.
func (t *Transport) Evaluate(guid uuid.UUID, method uint32, input []byte) (*wmi.Result, error) {
	c := Call{GUID: guid, Method: method, Input: append([]byte(nil), input...)}
	t.enter(c)
	defer t.leave(guid)

	if t.Gate != nil {
		<-t.Gate
	}
	if t.Delay > 0 {
		time.Sleep(t.Delay)
	}

	var res *wmi.Result
	var err error
	if t.Respond != nil {
		res, err = t.Respond(c)
	} else {
		res = Integer(0)
	}
	if res != nil {
		t.mu.Lock()
		t.allocated++
		t.mu.Unlock()
		prev := res.Releaser
		res.Releaser = func() {
			t.mu.Lock()
			t.released++
			t.mu.Unlock()
			if prev != nil {
				prev()
			}
		}
	}
	return res, err
}

func (t *Transport) enter(c Call) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		t.active = make(map[uuid.UUID]int)
		t.maxActive = make(map[uuid.UUID]int)
	}
	t.calls = append(t.calls, c)
	t.active[c.GUID]++
	if t.active[c.GUID] > t.maxActive[c.GUID] {
		t.maxActive[c.GUID] = t.active[c.GUID]
	}
	busy := 0
	for _, n := range t.active {
		if n > 0 {
			busy++
		}
	}
	if busy > 1 {
		t.overlapped = true
	}
}

func (t *Transport) leave(guid uuid.UUID) {
	t.mu.Lock()
	t.active[guid]--
	t.mu.Unlock()
}

// Calls returns a copy of the recorded calls.
func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Call(nil), t.calls...)
}

// Allocated returns the number of results handed out.
func (t *Transport) Allocated() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allocated
}

// Outstanding returns the number of results not yet released.
func (t *Transport) Outstanding() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allocated - t.released
}

// MaxConcurrent returns the maximum number of simultaneous calls seen for an
// interface GUID.
func (t *Transport) MaxConcurrent(guid uuid.UUID) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.maxActive[guid]
}

// Overlapped reports whether calls on different interfaces were in progress
// at the same time.
func (t *Transport) Overlapped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.overlapped
}

// Integer creates an integer result.
func Integer(v uint64) *wmi.Result {
	return &wmi.Result{Type: wmi.ResultInteger, Integer: v}
}

// Buffer creates a buffer result.
func Buffer(b ...byte) *wmi.Result {
	return &wmi.Result{Type: wmi.ResultBuffer, Buffer: b}
}

// String creates a string result.
func String(s string) *wmi.Result {
	return &wmi.Result{Type: wmi.ResultString, Buffer: []byte(s)}
}

// NewEcho creates a transport that remembers the input of set calls per
// method (little endian, up to 8 bytes) and answers get calls of the same
// method ID with it. Set calls return no object.
func NewEcho() *Transport {
	var mu sync.Mutex
	values := make(map[uint32]uint64)
	return &Transport{
		Respond: func(c Call) (*wmi.Result, error) {
			mu.Lock()
			defer mu.Unlock()
			if c.GUID == wmi.SetGUID {
				var b [8]byte
				copy(b[:], c.Input)
				values[c.Method] = binary.LittleEndian.Uint64(b[:])
				return nil, nil
			}
			return Integer(values[c.Method]), nil
		},
	}
}
