/*
Package acpicall evaluates WMI methods through the acpi_call kernel module.

A request is written to the proc file of the module as text, the result of the
last request is read back from the same file. The module keeps a single result
buffer for all processes, therefore the write/read pair is guarded by an
exclusive file lock.
*/
package acpicall

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mdzio/go-logging"

	"github.com/mdzio/go-gbwmi/wmi"
)

var log = logging.Get("acpi-call")

// DefaultPath is the proc file of the acpi_call module.
const DefaultPath = "/proc/acpi/call"

// Transport implements wmi.Transport.
type Transport struct {
	// Path of the proc file.
	Path string
	// Methods maps an interface GUID to the ACPI path of the method that
	// implements it.
	Methods map[uuid.UUID]string

	mu       sync.Mutex
	exchange func(path, request string) (string, error)
}

var _ wmi.Transport = &Transport{}

// New creates a Transport.
func New(path string, methods map[uuid.UUID]string) *Transport {
	return &Transport{Path: path, Methods: methods}
}

// Evaluate implements wmi.Transport.
func (t *Transport) Evaluate(guid uuid.UUID, method uint32, input []byte) (*wmi.Result, error) {
	acpiPath, ok := t.Methods[guid]
	if !ok || acpiPath == "" {
		return nil, fmt.Errorf("No ACPI method configured for interface %s", guid)
	}
	req := FormatCall(acpiPath, method, input)

	t.mu.Lock()
	defer t.mu.Unlock()
	ex := t.exchange
	if ex == nil {
		ex = exchange
	}
	log.Tracef("Request: %s", req)
	resp, err := ex(t.Path, req)
	if err != nil {
		return nil, err
	}
	log.Tracef("Response: %s", resp)
	return ParseResult(resp)
}

// FormatCall builds the request text for a WMI method call. The method
// receives instance 0, the method ID and the input as buffer argument (an
// empty input is passed as integer 0).
func FormatCall(acpiPath string, method uint32, input []byte) string {
	arg := "0x0"
	if len(input) > 0 {
		arg = "b" + hex.EncodeToString(input)
	}
	return fmt.Sprintf("%s 0x0 0x%x %s", acpiPath, method, arg)
}

// ParseResult converts the response text of the module into a result. A nil
// result without error is returned, if the method returned no object.
func ParseResult(text string) (*wmi.Result, error) {
	s := strings.TrimSpace(strings.TrimRight(text, "\x00"))
	switch {
	case s == "" || s == "not called":
		return nil, nil

	case strings.HasPrefix(s, "Error:"):
		return nil, fmt.Errorf("ACPI call failed: %s", strings.TrimSpace(strings.TrimPrefix(s, "Error:")))

	case strings.HasPrefix(s, "0x"):
		v, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return nil, fmt.Errorf("Invalid integer in ACPI response: %s", s)
		}
		return &wmi.Result{Type: wmi.ResultInteger, Integer: v}, nil

	case strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}"):
		b, err := parseBuffer(s[1 : len(s)-1])
		if err != nil {
			return nil, err
		}
		return &wmi.Result{Type: wmi.ResultBuffer, Buffer: b}, nil

	case len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`):
		return &wmi.Result{Type: wmi.ResultString, Buffer: []byte(s[1 : len(s)-1])}, nil

	case strings.HasPrefix(s, "["):
		return &wmi.Result{Type: wmi.ResultPackage}, nil
	}
	log.Debugf("Unknown ACPI response: %s", s)
	return &wmi.Result{Type: wmi.ResultOther}, nil
}

func parseBuffer(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []byte{}, nil
	}
	items := strings.Split(s, ",")
	b := make([]byte, 0, len(items))
	for _, item := range items {
		item = strings.TrimPrefix(strings.TrimSpace(item), "0x")
		v, err := strconv.ParseUint(item, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("Invalid buffer element in ACPI response: %s", item)
		}
		b = append(b, byte(v))
	}
	return b, nil
}

// exchange writes the request and reads back the response while holding the
// file lock.
func exchange(path, request string) (string, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return "", fmt.Errorf("Opening %s failed: %w", path, err)
	}
	defer f.Close()

	unlock, err := lock(f)
	if err != nil {
		return "", err
	}
	defer unlock()

	if _, err := f.WriteString(request); err != nil {
		return "", fmt.Errorf("Writing to %s failed: %w", path, err)
	}
	resp, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("Reading from %s failed: %w", path, err)
	}
	return string(resp), nil
}
