package xmlrpc

import (
	"fmt"
	"sort"
	"sync"
)

// Dispatcher dispatches a received XML-RPC call to registered handlers.
type Dispatcher interface {
	Dispatch(methodName string, args *Value) (*Value, error)
}

// A Method is dispatched from a Handler. The argument is always an array.
type Method interface {
	Call(*Value) (*Value, error)
}

// MethodFunc is an adapter to use ordinary functions as Method's.
type MethodFunc func(*Value) (*Value, error)

// Call implements interface Method.
func (m MethodFunc) Call(args *Value) (*Value, error) {
	return m(args)
}

// BasicDispatcher dispatches an XML-RPC call to a registered function.
type BasicDispatcher struct {
	mutex   sync.RWMutex
	methods map[string]Method
	help    map[string]string
}

// Handle registers a Method.
func (d *BasicDispatcher) Handle(name string, m Method) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.methods == nil {
		d.methods = make(map[string]Method)
	}
	d.methods[name] = m
}

// HandleFunc registers an ordinary function as Method.
func (d *BasicDispatcher) HandleFunc(name string, f func(*Value) (*Value, error)) {
	d.Handle(name, MethodFunc(f))
}

// SetHelp sets the text returned by system.methodHelp for a method.
func (d *BasicDispatcher) SetHelp(name, text string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.help == nil {
		d.help = make(map[string]string)
	}
	d.help[name] = text
}

// AddSystemMethods adds system.multicall, system.listMethods and
// system.methodHelp.
func (d *BasicDispatcher) AddSystemMethods() {

	// attention: if one method fails, the complete multicall fails.
	d.HandleFunc(
		"system.multicall",
		func(parameters *Value) (*Value, error) {
			q := Q(parameters)
			calls := q.Idx(0).Slice()
			if q.Err() != nil {
				return nil, fmt.Errorf("Invalid system.multicall: %w", q.Err())
			}
			svrLog.Debugf("Call of method system.multicall with %d elements received", len(calls))
			results := []*Value{}
			for _, call := range calls {
				methodName := call.Key("methodName").String()
				params := call.Key("params")
				// check for an array
				params.Slice()
				if q.Err() != nil {
					return nil, fmt.Errorf("Invalid system.multicall: %w", q.Err())
				}
				res, err := d.Dispatch(methodName, params.Value())
				if err != nil {
					return nil, fmt.Errorf("Method %s in system.multicall failed: %w", methodName, err)
				}
				// each result is wrapped in an array
				results = append(results, &Value{Array: &Array{[]*Value{res}}})
			}
			return &Value{Array: &Array{results}}, nil
		},
	)

	d.HandleFunc(
		"system.listMethods",
		func(*Value) (*Value, error) {
			svrLog.Debug("Call of method system.listMethods received")
			d.mutex.RLock()
			names := make([]string, 0, len(d.methods))
			for name := range d.methods {
				names = append(names, name)
			}
			d.mutex.RUnlock()
			sort.Strings(names)
			return NewValue(names)
		},
	)

	d.HandleFunc(
		"system.methodHelp",
		func(args *Value) (*Value, error) {
			q := Q(args)
			name := q.Idx(0).String()
			if q.Err() != nil {
				return nil, fmt.Errorf("Invalid system.methodHelp: %w", q.Err())
			}
			svrLog.Debugf("Call of method system.methodHelp received: %s", name)
			d.mutex.RLock()
			defer d.mutex.RUnlock()
			return &Value{FlatString: d.help[name]}, nil
		},
	)
}

// Dispatch dispatches a method call to a registered function.
func (d *BasicDispatcher) Dispatch(methodName string, args *Value) (*Value, error) {
	d.mutex.RLock()
	method, ok := d.methods[methodName]
	d.mutex.RUnlock()

	if !ok {
		return nil, fmt.Errorf("Unknown method: %s", methodName)
	}
	return method.Call(args)
}
