/*
Package xmlrpc implements the XML-RPC protocol for the attribute service:
value model, query helpers, HTTP handler, client and method dispatcher.
Requests and responses are encoded in ISO-8859-1.
*/
package xmlrpc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// MethodCall represents an XML-RPC method call.
type MethodCall struct {
	MethodName string   `xml:"methodName"`
	Params     *Params  `xml:"params"`
	XMLName    xml.Name `xml:"methodCall"`
}

// MethodResponse represents an XML-RPC method response.
type MethodResponse struct {
	Params  *Params  `xml:"params"`
	Fault   *Value   `xml:"fault>value"`
	XMLName xml.Name `xml:"methodResponse"`
}

// Params holds the parameters of a call or response.
type Params struct {
	Param []*Param `xml:"param"`
}

// Param is a single parameter.
type Param struct {
	Value *Value
}

// Value represents an XML-RPC value. A string may be transferred with or
// without string element.
type Value struct {
	I4         string   `xml:"i4,omitempty"`
	Int        string   `xml:"int,omitempty"`
	Boolean    string   `xml:"boolean,omitempty"`
	ElemString string   `xml:"string,omitempty"`
	FlatString string   `xml:",chardata"`
	Double     string   `xml:"double,omitempty"`
	DateTime   string   `xml:"dateTime.iso8601,omitempty"`
	Base64     string   `xml:"base64,omitempty"`
	Struct     *Struct  `xml:"struct"`
	Array      *Array   `xml:"array"`
	XMLName    xml.Name `xml:"value"`
}

// Values is a parameter list.
type Values []*Value

// Struct represents an XML-RPC struct.
type Struct struct {
	Members []*Member `xml:"member"`
}

// Member represents an XML-RPC struct member.
type Member struct {
	Name  string `xml:"name"`
	Value *Value
}

// Array represents an XML-RPC array.
type Array struct {
	Data []*Value `xml:"data>value"`
}

// Fault codes
const (
	FaultGeneric = -1
)

// MethodError encapsulates an XML-RPC fault response.
type MethodError struct {
	Code    int
	Message string
}

// NewMethodError creates a MethodError with a formatted message.
func NewMethodError(code int, format string, args ...interface{}) *MethodError {
	return &MethodError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (f *MethodError) Error() string {
	return fmt.Sprintf("RPC fault (code: %d, message: %s)", f.Code, f.Message)
}

// Query helps to extract values from the XML model. The first error is kept
// and all following accesses are no-ops.
type Query struct {
	value *Value
	err   *error
	// faster lookup for structs
	lookup map[string]*Query
	// cache arrays
	array []*Query
}

// Q creates a new Query for the specified Value.
func Q(v *Value) *Query {
	var err error
	return &Query{value: v, err: &err}
}

// Err returns the first encountered error.
func (q *Query) Err() error {
	return *q.err
}

func (q *Query) fail(format string, args ...interface{}) {
	if *q.err == nil {
		*q.err = fmt.Errorf(format, args...)
	}
}

// Int gets an XML-RPC int or i4 value.
func (q *Query) Int() int {
	// previous error or empty optional?
	if q.Err() != nil || q.value == nil {
		return 0
	}
	var s string
	if q.value.I4 != "" {
		s = q.value.I4
	} else if q.value.Int != "" {
		s = q.value.Int
	} else {
		q.fail("Not an int")
		return 0
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		q.fail("Invalid int: %s", s)
		return 0
	}
	return i
}

// Bool gets an XML-RPC boolean value.
func (q *Query) Bool() bool {
	if q.Err() != nil || q.value == nil {
		return false
	}
	switch q.value.Boolean {
	case "0":
		return false
	case "1":
		return true
	default:
		q.fail("Not a bool or invalid")
		return false
	}
}

// String gets an XML-RPC string value.
func (q *Query) String() string {
	if q.Err() != nil || q.value == nil {
		return ""
	}
	if q.value.ElemString != "" {
		return q.value.ElemString
	}
	// exclude other types
	if q.value.Boolean != "" || q.value.I4 != "" || q.value.Int != "" || q.value.Double != "" ||
		q.value.Base64 != "" || q.value.DateTime != "" || q.value.Array != nil || q.value.Struct != nil {
		q.fail("Not a string")
		return ""
	}
	return q.value.FlatString
}

// Map returns all members of an XML-RPC struct.
func (q *Query) Map() map[string]*Query {
	if q.Err() != nil || q.value == nil {
		return nil
	}
	if q.lookup != nil {
		return q.lookup
	}
	s := q.value.Struct
	if s == nil {
		q.fail("Not a struct")
		return nil
	}
	q.lookup = make(map[string]*Query)
	for _, m := range s.Members {
		q.lookup[m.Name] = &Query{value: m.Value, err: q.err}
	}
	return q.lookup
}

// Key gets the specified member from a struct. A missing member is an error.
func (q *Query) Key(name string) *Query {
	m := q.Map()
	if q.Err() != nil {
		return &Query{err: q.err}
	}
	f, ok := m[name]
	if !ok {
		q.fail("Field not found: %s", name)
		return &Query{err: q.err}
	}
	return f
}

// Slice returns all array elements.
func (q *Query) Slice() []*Query {
	if q.Err() != nil || q.value == nil {
		return nil
	}
	if q.array != nil {
		return q.array
	}
	a := q.value.Array
	if a == nil {
		q.fail("Not an array")
		return nil
	}
	q.array = make([]*Query, len(a.Data))
	for i, v := range a.Data {
		q.array[i] = &Query{value: v, err: q.err}
	}
	return q.array
}

// Strings returns a string array.
func (q *Query) Strings() []string {
	var r []string
	for _, e := range q.Slice() {
		r = append(r, e.String())
	}
	if q.Err() != nil {
		return nil
	}
	return r
}

// Idx returns the array element at i.
func (q *Query) Idx(i int) *Query {
	s := q.Slice()
	if q.Err() != nil {
		return &Query{err: q.err}
	}
	if i < 0 || i >= len(s) {
		q.fail("Index out of bounds (array length: %d): %d", len(s), i)
		return &Query{err: q.err}
	}
	return s[i]
}

// Len returns the length of an array.
func (q *Query) Len() int {
	return len(q.Slice())
}

// Value returns the wrapped Value.
func (q *Query) Value() *Value {
	return q.value
}

// NewValue creates a value from a native data type. Supported types: bool,
// int, float64, string, []string, []interface{}, map[string]interface{} and
// map[string]string. Struct members are sorted by name.
func NewValue(in interface{}) (*Value, error) {
	out := &Value{}
	switch val := in.(type) {
	case bool:
		if val {
			out.Boolean = "1"
		} else {
			out.Boolean = "0"
		}
	case int:
		out.I4 = strconv.Itoa(val)
	case float64:
		out.Double = strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		out.FlatString = val
	case []string:
		es := []*Value{}
		for _, e := range val {
			es = append(es, &Value{FlatString: e})
		}
		out.Array = &Array{es}
	case []interface{}:
		es := []*Value{}
		for _, e := range val {
			cv, err := NewValue(e)
			if err != nil {
				return nil, err
			}
			es = append(es, cv)
		}
		out.Array = &Array{es}
	case map[string]string:
		ms := []*Member{}
		for _, n := range sortedKeys(val) {
			ms = append(ms, &Member{Name: n, Value: &Value{FlatString: val[n]}})
		}
		out.Struct = &Struct{Members: ms}
	case map[string]interface{}:
		names := make([]string, 0, len(val))
		for n := range val {
			names = append(names, n)
		}
		sort.Strings(names)
		ms := []*Member{}
		for _, n := range names {
			cv, err := NewValue(val[n])
			if err != nil {
				return nil, err
			}
			ms = append(ms, &Member{Name: n, Value: cv})
		}
		out.Struct = &Struct{Members: ms}
	default:
		return nil, fmt.Errorf("Conversion of type %[1]T with value %[1]v is not supported", in)
	}
	return out, nil
}

func sortedKeys(m map[string]string) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

func newFaultResponse(err error) *MethodResponse {
	code := FaultGeneric
	message := err.Error()
	var me *MethodError
	if errors.As(err, &me) {
		code = me.Code
		message = me.Message
	}
	return &MethodResponse{
		Fault: &Value{
			Struct: &Struct{
				[]*Member{
					{"faultCode", &Value{I4: strconv.Itoa(code)}},
					{"faultString", &Value{FlatString: message}},
				},
			},
		},
	}
}

func newMethodResponse(value *Value) *MethodResponse {
	if value == nil {
		value = &Value{}
	}
	return &MethodResponse{
		Params: &Params{
			[]*Param{{value}},
		},
	}
}

// NewString creates a string value.
func NewString(s string) *Value {
	return &Value{FlatString: s}
}

// NewInt creates an i4 value.
func NewInt(i int) *Value {
	return &Value{I4: strconv.Itoa(i)}
}

// NewBool creates a boolean value.
func NewBool(b bool) *Value {
	if b {
		return &Value{Boolean: "1"}
	}
	return &Value{Boolean: "0"}
}
