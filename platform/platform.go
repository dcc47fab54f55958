/*
Package platform identifies the machine by its DMI data and checks the
presence of the WMI interfaces before a device is used.
*/
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/mdzio/go-logging"
)

var log = logging.Get("platform")

// DefaultSysRoot is the mount point of sysfs.
const DefaultSysRoot = "/sys"

// Platform describes a supported machine. Empty fields match any value,
// others match as substring of the corresponding DMI field.
type Platform struct {
	Ident   string `yaml:"ident"`
	Vendor  string `yaml:"vendor"`
	Product string `yaml:"product"`
	SKU     string `yaml:"sku"`
}

// Supported lists the machines the attribute table was verified on.
var Supported = []Platform{
	{Ident: "Aero 16 YE5", Vendor: "GIGABYTE", Product: "AERO 16 YE5", SKU: "P86YE5"},
}

// Identity holds the DMI fields of the running machine.
type Identity struct {
	Vendor  string
	Product string
	SKU     string
}

func (i Identity) String() string {
	return fmt.Sprintf("%s %s (%s)", i.Vendor, i.Product, i.SKU)
}

// Matches reports whether the identity satisfies the platform.
func (p Platform) Matches(id Identity) bool {
	return strings.Contains(id.Vendor, p.Vendor) &&
		strings.Contains(id.Product, p.Product) &&
		strings.Contains(id.SKU, p.SKU)
}

// ReadIdentity reads the DMI fields below sysRoot. Missing fields are left
// empty. An error is returned only if no field could be read.
func ReadIdentity(sysRoot string) (Identity, error) {
	dir := filepath.Join(sysRoot, "class/dmi/id")
	var id Identity
	var found bool
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"sys_vendor", &id.Vendor},
		{"product_name", &id.Product},
		{"product_sku", &id.SKU},
	} {
		b, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			log.Debugf("Reading DMI field %s failed: %v", f.name, err)
			continue
		}
		*f.dst = strings.TrimSpace(string(b))
		found = true
	}
	if !found {
		return Identity{}, fmt.Errorf("No DMI data found in %s", dir)
	}
	return id, nil
}

// Check reads the identity below sysRoot and returns the ident of the first
// matching platform.
func Check(sysRoot string, platforms []Platform) (string, error) {
	id, err := ReadIdentity(sysRoot)
	if err != nil {
		return "", err
	}
	for _, p := range platforms {
		if p.Matches(id) {
			log.Infof("Computer model: '%s'", p.Ident)
			return p.Ident, nil
		}
	}
	return "", fmt.Errorf("Unsupported computer model: %v", id)
}

// WMIInterfaces lists the GUIDs of the WMI interfaces registered below sysRoot.
// Device entries are named by the GUID, optionally followed by an instance
// suffix (e.g. -1).
func WMIInterfaces(sysRoot string) ([]uuid.UUID, error) {
	dir := filepath.Join(sysRoot, "bus/wmi/devices")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("Listing WMI devices failed: %w", err)
	}
	seen := make(map[uuid.UUID]bool)
	var guids []uuid.UUID
	for _, e := range entries {
		name := e.Name()
		// GUID has 36 characters
		if len(name) < 36 {
			continue
		}
		guid, err := uuid.Parse(name[:36])
		if err != nil {
			log.Tracef("Ignoring WMI device entry %s: %v", name, err)
			continue
		}
		if !seen[guid] {
			seen[guid] = true
			guids = append(guids, guid)
		}
	}
	sort.Slice(guids, func(i, j int) bool { return guids[i].String() < guids[j].String() })
	return guids, nil
}

// CheckInterfaces fails if the get or the set interface is not registered.
func CheckInterfaces(sysRoot string, get, set uuid.UUID) error {
	guids, err := WMIInterfaces(sysRoot)
	if err != nil {
		return err
	}
	has := func(g uuid.UUID) bool {
		for _, x := range guids {
			if x == g {
				return true
			}
		}
		return false
	}
	if !has(get) {
		return fmt.Errorf("No get methods found in WMI ACPI (interface %s)", get)
	}
	if !has(set) {
		return fmt.Errorf("No set methods found in WMI ACPI (interface %s)", set)
	}
	return nil
}
