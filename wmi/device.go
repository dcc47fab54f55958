package wmi

import (
	"github.com/google/uuid"
	"github.com/mdzio/go-logging"
)

var log = logging.Get("wmi-device")

// Device marshals firmware calls for one platform. It owns the exclusion
// domains of both call families and the method registry. All methods are safe
// for concurrent use.
type Device struct {
	transport Transport
	registry  *Registry
	getGUID   uuid.UUID
	setGUID   uuid.UUID
	serial    *serializer
}

// Option configures a Device.
type Option func(*Device)

// WithRegistry replaces DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(d *Device) {
		d.registry = r
	}
}

// WithInterfaces replaces the interface GUIDs of the call families.
func WithInterfaces(get, set uuid.UUID) Option {
	return func(d *Device) {
		d.getGUID = get
		d.setGUID = set
	}
}

// NewDevice creates a Device using the specified transport.
func NewDevice(transport Transport, opts ...Option) *Device {
	d := &Device{
		transport: transport,
		registry:  DefaultRegistry,
		getGUID:   GetGUID,
		setGUID:   SetGUID,
		serial:    newSerializer(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Registry returns the method registry of the device.
func (d *Device) Registry() *Registry {
	return d.registry
}

// Interface returns the interface GUID of a call family.
func (d *Device) Interface(f Family) uuid.UUID {
	if f == FamilySet {
		return d.setGUID
	}
	return d.getGUID
}
