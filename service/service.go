/*
Package service publishes an attribute surface over XML-RPC, so that an
unprivileged process can read and write attributes through a privileged
daemon.
*/
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mdzio/go-logging"

	"github.com/mdzio/go-gbwmi/attr"
	"github.com/mdzio/go-gbwmi/wmi"
	"github.com/mdzio/go-gbwmi/xmlrpc"
)

var svrLog = logging.Get("attr-service")

// Fault codes of the attribute service.
const (
	FaultGeneric          = xmlrpc.FaultGeneric
	FaultUnknownAttribute = -2
	FaultInvalidInput     = -3
	FaultUnsupported      = -4
)

// AttributeDescription describes an attribute of the surface.
type AttributeDescription struct {
	Group string
	Name  string
	// Operations is a bit mask: 1 read, 2 write.
	Operations int
}

// ReadFrom reads the field values from an xmlrpc.Query.
func (a *AttributeDescription) ReadFrom(q *xmlrpc.Query) {
	a.Group = q.Key("GROUP").String()
	a.Name = q.Key("NAME").String()
	a.Operations = q.Key("OPERATIONS").Int()
}

// ToValue returns an xmlrpc.Value for this description.
func (a *AttributeDescription) ToValue() *xmlrpc.Value {
	return &xmlrpc.Value{
		Struct: &xmlrpc.Struct{Members: []*xmlrpc.Member{
			{Name: "GROUP", Value: xmlrpc.NewString(a.Group)},
			{Name: "NAME", Value: xmlrpc.NewString(a.Name)},
			{Name: "OPERATIONS", Value: xmlrpc.NewInt(a.Operations)},
		}},
	}
}

// Path returns group/name.
func (a *AttributeDescription) Path() string {
	return a.Group + "/" + a.Name
}

// Describe lists all attributes of a surface.
func Describe(s *attr.Surface) []*AttributeDescription {
	var ds []*AttributeDescription
	for _, g := range s.Groups() {
		for _, a := range g.Attributes {
			ds = append(ds, &AttributeDescription{Group: g.Name, Name: a.Name, Operations: int(a.Operations)})
		}
	}
	return ds
}

// Fault converts an error of the attribute surface into an XML-RPC fault.
func Fault(err error) *xmlrpc.MethodError {
	code := FaultGeneric
	switch {
	case errors.Is(err, attr.ErrUnknownAttribute):
		code = FaultUnknownAttribute
	case errors.Is(err, wmi.ErrInvalidInput),
		errors.Is(err, attr.ErrNotReadable),
		errors.Is(err, attr.ErrNotWritable):
		code = FaultInvalidInput
	case errors.Is(err, wmi.ErrUnsupported):
		code = FaultUnsupported
	}
	return &xmlrpc.MethodError{Code: code, Message: err.Error()}
}

// Dispatcher is an xmlrpc.Dispatcher serving an attribute surface.
type Dispatcher struct {
	xmlrpc.BasicDispatcher
}

// NewDispatcher creates a new Dispatcher with the system methods.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{}
	d.AddSystemMethods()
	return d
}

func args(q *xmlrpc.Query, method string, n int) error {
	if l := q.Len(); l != n {
		if q.Err() != nil {
			return fmt.Errorf("Invalid arguments for %s method: %w", method, q.Err())
		}
		return fmt.Errorf("Expected %d arguments for %s method: %d", n, method, l)
	}
	return nil
}

// text accepts a string or an int.
func text(q *xmlrpc.Query) string {
	v := q.Value()
	if v != nil && (v.I4 != "" || v.Int != "") {
		return strconv.Itoa(q.Int())
	}
	return q.String()
}

// AddSurface adds handlers for the attribute surface. Each firmware call waits
// at most callTimeout; 0 waits forever.
func (d *Dispatcher) AddSurface(s *attr.Surface, callTimeout time.Duration) {
	callCtx := func() (context.Context, context.CancelFunc) {
		if callTimeout > 0 {
			return context.WithTimeout(context.Background(), callTimeout)
		}
		return context.Background(), func() {}
	}

	d.HandleFunc("listAttributes", func(*xmlrpc.Value) (*xmlrpc.Value, error) {
		svrLog.Debug("Call of method listAttributes received")
		vs := []*xmlrpc.Value{}
		for _, a := range Describe(s) {
			vs = append(vs, a.ToValue())
		}
		return &xmlrpc.Value{Array: &xmlrpc.Array{Data: vs}}, nil
	})
	d.SetHelp("listAttributes", "Returns the descriptions of all attributes.")

	d.HandleFunc("getValue", func(a *xmlrpc.Value) (*xmlrpc.Value, error) {
		q := xmlrpc.Q(a)
		if err := args(q, "getValue", 2); err != nil {
			return nil, err
		}
		group, name := q.Idx(0).String(), q.Idx(1).String()
		if q.Err() != nil {
			return nil, fmt.Errorf("Invalid argument for getValue method: %w", q.Err())
		}
		svrLog.Debugf("Call of method getValue received: %s, %s", group, name)
		ctx, cancel := callCtx()
		defer cancel()
		v, err := s.Read(ctx, group, name)
		if err != nil {
			return nil, Fault(err)
		}
		return xmlrpc.NewString(strings.TrimSuffix(v, "\n")), nil
	})
	d.SetHelp("getValue", "getValue(group, name) reads an attribute as decimal string.")

	d.HandleFunc("setValue", func(a *xmlrpc.Value) (*xmlrpc.Value, error) {
		q := xmlrpc.Q(a)
		if err := args(q, "setValue", 3); err != nil {
			return nil, err
		}
		group, name, value := q.Idx(0).String(), q.Idx(1).String(), text(q.Idx(2))
		if q.Err() != nil {
			return nil, fmt.Errorf("Invalid argument for setValue method: %w", q.Err())
		}
		svrLog.Debugf("Call of method setValue received: %s, %s, %s", group, name, value)
		ctx, cancel := callCtx()
		defer cancel()
		if err := s.Write(ctx, group, name, value); err != nil {
			return nil, Fault(err)
		}
		return &xmlrpc.Value{}, nil
	})
	d.SetHelp("setValue", "setValue(group, name, value) writes a decimal value to an attribute.")

	d.HandleFunc("getParamset", func(a *xmlrpc.Value) (*xmlrpc.Value, error) {
		q := xmlrpc.Q(a)
		if err := args(q, "getParamset", 1); err != nil {
			return nil, err
		}
		group := q.Idx(0).String()
		if q.Err() != nil {
			return nil, fmt.Errorf("Invalid argument for getParamset method: %w", q.Err())
		}
		svrLog.Debugf("Call of method getParamset received: %s", group)
		ctx, cancel := callCtx()
		defer cancel()
		vs, err := s.ReadGroup(ctx, group)
		if err != nil {
			return nil, Fault(err)
		}
		ps := make(map[string]string, len(vs))
		for n, v := range vs {
			ps[n] = strconv.FormatUint(v, 10)
		}
		return xmlrpc.NewValue(ps)
	})
	d.SetHelp("getParamset", "getParamset(group) reads all readable attributes of a group.")

	d.HandleFunc("ping", func(a *xmlrpc.Value) (*xmlrpc.Value, error) {
		q := xmlrpc.Q(a)
		if err := args(q, "ping", 1); err != nil {
			return nil, err
		}
		callerID := q.Idx(0).String()
		if q.Err() != nil {
			return nil, fmt.Errorf("Invalid argument for ping method: %w", q.Err())
		}
		svrLog.Debugf("Call of method ping received: %s", callerID)
		return xmlrpc.NewBool(true), nil
	})
	d.SetHelp("ping", "ping(callerID) returns true.")
}
