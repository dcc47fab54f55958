package wmi

import (
	"github.com/google/uuid"
)

// DryTransport does not call the firmware. It logs every request and answers
// with an integer result of Value.
type DryTransport struct {
	Value uint64
}

var _ Transport = &DryTransport{}

// Evaluate implements Transport.
func (t *DryTransport) Evaluate(guid uuid.UUID, method uint32, input []byte) (*Result, error) {
	log.Infof("[dry run] Evaluate method %d on %s, input: [% x]", method, guid, input)
	return &Result{Type: ResultInteger, Integer: t.Value}, nil
}
