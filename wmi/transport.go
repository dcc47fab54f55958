package wmi

import (
	"fmt"

	"github.com/google/uuid"
)

// ResultType tags the payload of a Result.
type ResultType int

// Result types reported by the firmware.
const (
	ResultInteger ResultType = iota + 1
	ResultBuffer
	ResultString
	ResultPackage
	ResultOther
)

func (t ResultType) String() string {
	switch t {
	case ResultInteger:
		return "integer"
	case ResultBuffer:
		return "buffer"
	case ResultString:
		return "string"
	case ResultPackage:
		return "package"
	case ResultOther:
		return "other"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Result is the tagged response of a firmware call. It is owned by the
// transport until Release is called.
type Result struct {
	Type    ResultType
	Integer uint64
	// Buffer holds the payload of buffer and string results.
	Buffer []byte

	// Releaser frees transport resources bound to the result (optional).
	Releaser func()
}

// Release hands the result back to the transport. It may be called on a nil
// result and more than once.
func (r *Result) Release() {
	if r == nil || r.Releaser == nil {
		return
	}
	f := r.Releaser
	r.Releaser = nil
	f()
}

func (r *Result) String() string {
	if r == nil {
		return "<none>"
	}
	switch r.Type {
	case ResultInteger:
		return fmt.Sprintf("integer 0x%x", r.Integer)
	case ResultBuffer:
		return fmt.Sprintf("buffer [% x]", r.Buffer)
	case ResultString:
		return fmt.Sprintf("string %q", r.Buffer)
	default:
		return r.Type.String()
	}
}

// Transport evaluates a WMI method of the interface identified by guid. A
// non-nil error reports a failed firmware call; a returned result must be
// released by the caller even in that case. A nil result without error means
// the method returned no object.
type Transport interface {
	Evaluate(guid uuid.UUID, method uint32, input []byte) (*Result, error)
}
