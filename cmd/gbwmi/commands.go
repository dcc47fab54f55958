package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/mdzio/go-gbwmi/attr"
	"github.com/mdzio/go-gbwmi/wmi"
)

const commandHelp = `Commands:
  list                        list all attributes
  read <group>/<name>         read an attribute
  write <group>/<name> <val>  write a decimal value to an attribute
  group <group>               read all readable attributes of a group
  get <method>                call a get method (raw)
  set <method> [<val>]        call a set method (raw), val is sent as u32
`

var errUsage = errors.New("Invalid command line (see help)")

// commander executes commands of the command line and the console.
type commander struct {
	backend backend
	// device is nil if connected to a remote service.
	device *wmi.Device
	out    io.Writer
}

func (c *commander) exec(args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch strings.ToLower(args[0]) {
	case "list":
		return c.list()
	case "read":
		if len(args) != 2 {
			return errUsage
		}
		return c.read(args[1])
	case "write":
		if len(args) != 3 {
			return errUsage
		}
		return c.write(args[1], args[2])
	case "group":
		if len(args) != 2 {
			return errUsage
		}
		return c.group(args[1])
	case "get":
		if len(args) != 2 {
			return errUsage
		}
		return c.get(args[1])
	case "set":
		if len(args) != 2 && len(args) != 3 {
			return errUsage
		}
		return c.set(args[1:])
	case "help", "?":
		fmt.Fprint(c.out, commandHelp)
		return nil
	}
	return fmt.Errorf("Unknown command: %s", args[0])
}

func (c *commander) list() error {
	as, err := c.backend.ListAttributes()
	if err != nil {
		return err
	}
	for _, a := range as {
		fmt.Fprintf(c.out, "%-40s %s\n", a.Path(), attr.Operation(a.Operations))
	}
	return nil
}

func (c *commander) read(path string) error {
	group, name, err := attr.ParsePath(path)
	if err != nil {
		return err
	}
	v, err := c.backend.GetValue(group, name)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, v)
	return nil
}

func (c *commander) write(path, value string) error {
	group, name, err := attr.ParsePath(path)
	if err != nil {
		return err
	}
	return c.backend.SetValue(group, name, value)
}

func (c *commander) group(group string) error {
	ps, err := c.backend.GetParamset(group)
	if err != nil {
		return err
	}
	fmt.Fprint(c.out, formatParamset(ps, "\n"))
	return nil
}

func formatParamset(ps map[string]string, sep string) string {
	names := make([]string, 0, len(ps))
	for n := range ps {
		names = append(names, n)
	}
	sort.Strings(names)
	var sb strings.Builder
	for _, n := range names {
		fmt.Fprintf(&sb, "%s=%s%s", n, ps[n], sep)
	}
	return sb.String()
}

func parseMethod(s string) (wmi.MethodID, error) {
	m, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("Invalid method ID: %s", s)
	}
	return wmi.MethodID(m), nil
}

func (c *commander) get(method string) error {
	if c.device == nil {
		return errors.New("Raw method calls are not available on a remote service")
	}
	m, err := parseMethod(method)
	if err != nil {
		return err
	}
	v, err := c.device.GetValue(m, nil)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, v)
	return nil
}

func (c *commander) set(args []string) error {
	if c.device == nil {
		return errors.New("Raw method calls are not available on a remote service")
	}
	m, err := parseMethod(args[0])
	if err != nil {
		return err
	}
	var in []byte
	if len(args) == 2 {
		v, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return wmi.NewInputError(wmi.FamilySet, m, "Invalid value: "+args[1], err)
		}
		in = make([]byte, 4)
		binary.LittleEndian.PutUint32(in, uint32(v))
	}
	v, ok, err := c.device.Set(m, in)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintln(c.out, v)
	}
	return nil
}
