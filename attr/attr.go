/*
Package attr exposes firmware operations as named attributes organized in
groups. Attribute values are transferred as decimal text, a read returns the
value followed by a newline.
*/
package attr

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mdzio/go-gbwmi/wmi"
	"github.com/mdzio/go-logging"
)

var log = logging.Get("gb-attr")

// Errors of the attribute surface.
var (
	ErrUnknownAttribute = errors.New("Unknown attribute")
	ErrNotReadable      = errors.New("Attribute is not readable")
	ErrNotWritable      = errors.New("Attribute is not writable")
)

// Operation flags of an attribute.
type Operation int

// Operations
const (
	OpRead Operation = 1 << iota
	OpWrite
)

func (o Operation) String() string {
	switch o {
	case OpRead:
		return "r"
	case OpWrite:
		return "w"
	case OpRead | OpWrite:
		return "rw"
	default:
		return "-"
	}
}

// Attribute maps a named value to a firmware method. Writes always use the set
// family with the value as 4 byte little endian input.
type Attribute struct {
	Name string
	// Label names the operation in log messages, e.g. CPUFanDuty.
	Label      string
	Method     wmi.MethodID
	Operations Operation
	// ReadFamily selects the call family for reads. Some quantities can only
	// be read through the set family (with empty input). Defaults to the get
	// family.
	ReadFamily wmi.Family
	// Inverted reports 1 for a raw 0 and 0 for any other raw value.
	Inverted bool
}

// Readable reports whether the attribute can be read.
func (a *Attribute) Readable() bool {
	return a.Operations&OpRead != 0
}

// Writable reports whether the attribute can be written.
func (a *Attribute) Writable() bool {
	return a.Operations&OpWrite != 0
}

// Value reads the attribute.
func (a *Attribute) Value(ctx context.Context, d *wmi.Device) (uint64, error) {
	if !a.Readable() {
		return 0, fmt.Errorf("%w: %s", ErrNotReadable, a.Name)
	}

	var v uint64
	if a.ReadFamily == wmi.FamilySet {
		raw, ok, err := d.SetContext(ctx, a.Method, nil)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, wmi.NewTransportError(wmi.FamilySet, a.Method, "No integer result", nil)
		}
		v = raw & 0xFFFFFFFF
		log.Infof("Set%s(): %d", a.Label, v)
	} else {
		var err error
		v, err = d.GetValueContext(ctx, a.Method, nil)
		if err != nil {
			return 0, err
		}
		if a.Inverted {
			if v == 0 {
				v = 1
			} else {
				v = 0
			}
		}
		log.Infof("Get%s(): %d", a.Label, v)
	}
	return v, nil
}

// SetValue writes the attribute.
func (a *Attribute) SetValue(ctx context.Context, d *wmi.Device, value uint32) error {
	if !a.Writable() {
		return fmt.Errorf("%w: %s", ErrNotWritable, a.Name)
	}
	var in [4]byte
	binary.LittleEndian.PutUint32(in[:], value)
	if _, _, err := d.SetContext(ctx, a.Method, in[:]); err != nil {
		return err
	}
	log.Infof("Set%s(%d)", a.Label, value)
	return nil
}

// ParseValue parses the decimal text of a write. A single trailing newline is
// accepted. Values must fit into 32 bits.
func (a *Attribute) ParseValue(text string) (uint32, error) {
	s := strings.TrimSuffix(text, "\n")
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		var reason string
		if errors.Is(err, strconv.ErrRange) {
			reason = fmt.Sprintf("Value out of range for %s: %q", a.Name, s)
		} else {
			reason = fmt.Sprintf("Invalid value for %s: %q", a.Name, s)
		}
		return 0, wmi.NewInputError(wmi.FamilySet, a.Method, reason, nil)
	}
	return uint32(v), nil
}

// FormatValue formats a value like a read.
func FormatValue(v uint64) string {
	return strconv.FormatUint(v, 10) + "\n"
}

// Group is a named set of attributes.
type Group struct {
	Name       string
	Attributes []*Attribute
}

// Attribute looks up an attribute by name. Nil is returned if not found.
func (g *Group) Attribute(name string) *Attribute {
	for _, a := range g.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Surface binds attribute groups to a device.
type Surface struct {
	device *wmi.Device
	groups []*Group
}

// NewSurface creates a Surface.
func NewSurface(d *wmi.Device, groups ...*Group) *Surface {
	return &Surface{device: d, groups: groups}
}

// Device returns the bound device.
func (s *Surface) Device() *wmi.Device {
	return s.device
}

// Groups returns all groups.
func (s *Surface) Groups() []*Group {
	return s.groups
}

// Group looks up a group by name. Nil is returned if not found.
func (s *Surface) Group(name string) *Group {
	for _, g := range s.groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// Lookup finds an attribute.
func (s *Surface) Lookup(group, name string) (*Attribute, error) {
	g := s.Group(group)
	if g == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownAttribute, group, name)
	}
	a := g.Attribute(name)
	if a == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownAttribute, group, name)
	}
	return a, nil
}

// Read reads an attribute and returns the decimal value followed by a
// newline.
func (s *Surface) Read(ctx context.Context, group, name string) (string, error) {
	a, err := s.Lookup(group, name)
	if err != nil {
		return "", err
	}
	v, err := a.Value(ctx, s.device)
	if err != nil {
		return "", fmt.Errorf("Reading %s/%s failed: %w", group, name, err)
	}
	return FormatValue(v), nil
}

// Write parses text as decimal value and writes it to an attribute.
func (s *Surface) Write(ctx context.Context, group, name, text string) error {
	a, err := s.Lookup(group, name)
	if err != nil {
		return err
	}
	if !a.Writable() {
		return fmt.Errorf("%w: %s/%s", ErrNotWritable, group, name)
	}
	v, err := a.ParseValue(text)
	if err != nil {
		return err
	}
	if err := a.SetValue(ctx, s.device, v); err != nil {
		return fmt.Errorf("Writing %s/%s failed: %w", group, name, err)
	}
	return nil
}

// ReadGroup reads all readable attributes of a group. The first failure
// aborts.
func (s *Surface) ReadGroup(ctx context.Context, group string) (map[string]uint64, error) {
	g := s.Group(group)
	if g == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAttribute, group)
	}
	values := make(map[string]uint64)
	for _, a := range g.Attributes {
		if !a.Readable() {
			continue
		}
		v, err := a.Value(ctx, s.device)
		if err != nil {
			return nil, fmt.Errorf("Reading %s/%s failed: %w", group, a.Name, err)
		}
		values[a.Name] = v
	}
	return values, nil
}

// ParsePath splits an attribute path of the form group/name.
func ParsePath(path string) (group, name string, err error) {
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("Invalid attribute path (expected group/name): %s", path)
	}
	return parts[0], parts[1], nil
}
