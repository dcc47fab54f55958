package wmi

import (
	"context"
	"encoding/binary"
	"fmt"
)

// interpreter converts a transport result into a value. ok reports whether a
// value is present.
type interpreter func(res *Result) (value uint64, ok bool, err error)

// Set invokes a method of the set family. Some quantities can only be read by
// a set call; if the firmware returns an integer, it is returned with ok set
// to true. A missing or non-integer result is no error.
func (d *Device) Set(method MethodID, input []byte) (value uint64, ok bool, err error) {
	return d.SetContext(context.Background(), method, input)
}

// SetContext is like Set but stops waiting when ctx is done. See GetContext.
func (d *Device) SetContext(ctx context.Context, method MethodID, input []byte) (uint64, bool, error) {
	return d.call(ctx, FamilySet, method, input, func(res *Result) (uint64, bool, error) {
		if res != nil && res.Type == ResultInteger {
			return res.Integer, true, nil
		}
		log.Tracef("Set method %d returned no integer: %v", method, res)
		return 0, false, nil
	})
}

// Get invokes a method of the get family and writes the integer result with
// the registered element size (little endian) to the start of out. Only the
// first element is decoded, even if the registered shape has more. out must
// hold at least count*size bytes of the registered shape; otherwise the
// firmware is not called.
func (d *Device) Get(method MethodID, input []byte, out []byte) error {
	return d.GetContext(context.Background(), method, input, out)
}

// GetContext is like Get but stops waiting for the call family or the firmware
// when ctx is done. An abandoned firmware call still completes in the
// background and keeps its call family locked until then. Without a deadline
// or cancellation, GetContext blocks like Get.
func (d *Device) GetContext(ctx context.Context, method MethodID, input []byte, out []byte) error {
	_, err := d.get(ctx, method, input, out)
	return err
}

// GetValue invokes a get method with an output buffer sized by the registry
// and returns the decoded element.
func (d *Device) GetValue(method MethodID, input []byte) (uint64, error) {
	return d.GetValueContext(context.Background(), method, input)
}

// GetValueContext is like GetValue but honors ctx. See GetContext.
func (d *Device) GetValueContext(ctx context.Context, method MethodID, input []byte) (uint64, error) {
	shape, ok := d.registry.Shape(FamilyGet, method)
	if !ok {
		return 0, inputError(FamilyGet, method, "No output shape registered")
	}
	return d.get(ctx, method, input, make([]byte, shape.Len()))
}

func (d *Device) get(ctx context.Context, method MethodID, input []byte, out []byte) (uint64, error) {
	// check caller contract before touching the firmware
	if len(out) == 0 {
		return 0, inputError(FamilyGet, method, "Output buffer is empty")
	}
	shape, ok := d.registry.Shape(FamilyGet, method)
	if !ok {
		return 0, inputError(FamilyGet, method, "No output shape registered")
	}
	if shape.Len() > len(out) {
		log.Debugf("Output buffer is too small for get method %d: %d < %d", method, len(out), shape.Len())
		return 0, inputError(FamilyGet, method,
			fmt.Sprintf("Output buffer is too small: %d bytes, %d required", len(out), shape.Len()))
	}

	v, _, err := d.call(ctx, FamilyGet, method, input, func(res *Result) (uint64, bool, error) {
		return decode(method, shape, res)
	})
	if err != nil {
		return 0, err
	}
	putElement(out, shape.Size, v)
	return v, nil
}

// decode checks the type of a get result and masks the integer to the element
// size.
func decode(method MethodID, shape Shape, res *Result) (uint64, bool, error) {
	if res == nil {
		return 0, false, transportError(FamilyGet, method, "No result object", nil)
	}
	log.Debugf("WMI method %d returned object of type %v", method, res.Type)

	if res.Type != ResultInteger {
		log.Debugf("Unexpected return type: %v", res.Type)
		if res.Type == ResultBuffer {
			log.Debugf("WMI method %d returned a buffer of size %d", method, len(res.Buffer))
			if len(res.Buffer) == 0 {
				log.Debugf("WMI method %d is probably not implemented in ACPI", method)
				return 0, false, &CallError{Kind: KindUnsupported, Family: FamilyGet, Method: method}
			}
		}
		return 0, false, transportError(FamilyGet, method, "Unexpected return type: "+res.Type.String(), nil)
	}

	switch shape.Size {
	case 1:
		return res.Integer & 0xFF, true, nil
	case 2:
		return res.Integer & 0xFFFF, true, nil
	case 4:
		return res.Integer & 0xFFFFFFFF, true, nil
	case 8:
		return res.Integer, true, nil
	}
	return 0, false, transportError(FamilyGet, method, fmt.Sprintf("Unexpected element size: %d", shape.Size), nil)
}

func putElement(out []byte, size uint8, v uint64) {
	switch size {
	case 1:
		out[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(out, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(out, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(out, v)
	}
}

// call runs a firmware call while holding the domain of the family. The domain
// and the transport result are released on every path.
func (d *Device) call(ctx context.Context, f Family, method MethodID, input []byte, interpret interpreter) (uint64, bool, error) {
	release, err := d.serial.acquire(ctx, f)
	if err != nil {
		return 0, false, transportError(f, method, "Waiting for call family failed", err)
	}

	// no deadline, no cancellation: block like the firmware does
	if ctx.Done() == nil {
		defer release()
		return d.invoke(f, method, input, interpret)
	}

	// the call may outlive the caller, do not share the input
	input = append([]byte(nil), input...)
	type outcome struct {
		value uint64
		ok    bool
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		defer release()
		v, ok, err := d.invoke(f, method, input, interpret)
		done <- outcome{v, ok, err}
	}()
	select {
	case o := <-done:
		return o.value, o.ok, o.err
	case <-ctx.Done():
		log.Warningf("Stopped waiting for %s method %d: %v", f, method, ctx.Err())
		return 0, false, transportError(f, method, "Firmware call abandoned", ctx.Err())
	}
}

func (d *Device) invoke(f Family, method MethodID, input []byte, interpret interpreter) (uint64, bool, error) {
	guid := d.Interface(f)
	log.Tracef("Calling %s method %d on %s with input [% x]", f, method, guid, input)
	res, err := d.transport.Evaluate(guid, uint32(method), input)
	defer res.Release()
	if err != nil {
		return 0, false, transportError(f, method, "", err)
	}
	log.Tracef("Result of %s method %d: %v", f, method, res)
	return interpret(res)
}
