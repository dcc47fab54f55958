// Package config loads the YAML configuration of the gbwmi tool.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/mdzio/go-gbwmi/platform"
	"github.com/mdzio/go-gbwmi/wmi"
)

// Interface configures a WMI call family.
type Interface struct {
	GUID uuid.UUID `yaml:"guid"`
	// Method is the ACPI path of the method implementing the interface, e.g.
	// \_SB.PCI0.WMID.WMBC. Required for the acpi_call transport.
	Method string `yaml:"method"`
}

// Interfaces configures both call families.
type Interfaces struct {
	Get Interface `yaml:"get"`
	Set Interface `yaml:"set"`
}

// Server configures the attribute service.
type Server struct {
	Address string `yaml:"address"`
}

// Watch configures the periodic logging of an attribute group.
type Watch struct {
	Interval time.Duration `yaml:"interval"`
	Group    string        `yaml:"group"`
}

// Config is the root of the configuration.
type Config struct {
	// ACPICall is the proc file of the acpi_call module.
	ACPICall   string              `yaml:"acpiCall"`
	SysRoot    string              `yaml:"sysRoot"`
	Interfaces Interfaces          `yaml:"interfaces"`
	Platforms  []platform.Platform `yaml:"platforms"`
	// CallTimeout bounds the wait for a firmware call. 0 waits forever.
	CallTimeout time.Duration `yaml:"callTimeout"`
	Server      Server        `yaml:"server"`
	Watch       Watch         `yaml:"watch"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ACPICall: "/proc/acpi/call",
		SysRoot:  platform.DefaultSysRoot,
		Interfaces: Interfaces{
			Get: Interface{GUID: wmi.GetGUID},
			Set: Interface{GUID: wmi.SetGUID},
		},
		Platforms: append([]platform.Platform(nil), platform.Supported...),
		Server:    Server{Address: "127.0.0.1:2130"},
		Watch:     Watch{Interval: 5 * time.Second, Group: "sensors"},
	}
}

// Load reads a configuration file. Values not present in the file keep their
// defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Reading configuration failed: %w", err)
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("Parsing configuration %s failed: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Invalid configuration %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Interfaces.Get.GUID == uuid.Nil || c.Interfaces.Set.GUID == uuid.Nil {
		return errors.New("Interface GUIDs must be set")
	}
	if c.Interfaces.Get.GUID == c.Interfaces.Set.GUID {
		return fmt.Errorf("Get and set interface must differ: %s", c.Interfaces.Get.GUID)
	}
	if c.CallTimeout < 0 {
		return fmt.Errorf("Negative call timeout: %v", c.CallTimeout)
	}
	if c.Watch.Interval < 0 {
		return fmt.Errorf("Negative watch interval: %v", c.Watch.Interval)
	}
	for i, p := range c.Platforms {
		if p.Ident == "" {
			return fmt.Errorf("Platform %d has no ident", i+1)
		}
	}
	return nil
}

// Dump encodes the configuration as YAML.
func (c *Config) Dump() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
