/*
Package wmi marshals calls to the Gigabyte laptop WMI interface. The firmware
offers two call families, "get" and "set", each reachable through its own
interface GUID and selecting an operation by a numeric method ID. A Device
serializes the calls of each family, decodes integer results into fixed-width
output buffers according to the method registry and releases the transport
results on every path.
*/
package wmi

import (
	"fmt"

	"github.com/google/uuid"
)

// Interface GUIDs of the Gigabyte WMI call families.
var (
	GetGUID = uuid.MustParse("ABBC0F6F-8EA1-11d1-00A0-C90629100000")
	SetGUID = uuid.MustParse("ABBC0F75-8EA1-11d1-00A0-C90629100000")
)

// Family selects one of the two disjoint firmware call families.
type Family int

// Call families.
const (
	FamilyGet Family = iota + 1
	FamilySet
)

func (f Family) String() string {
	switch f {
	case FamilyGet:
		return "get"
	case FamilySet:
		return "set"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

func (f Family) valid() bool {
	return f == FamilyGet || f == FamilySet
}
