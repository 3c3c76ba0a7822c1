// Package isa holds the version-independent data model for a single V3D
// QPU instruction: the device descriptor, the structured instruction
// record, and the per-version lookup tables that the codec and
// assembler dispatch through.
package isa

// Version identifies a V3D ISA revision as major*10+minor, matching the
// wire convention the codec tables are keyed on.
type Version uint8

// Recognized ISA versions. Any other value behaves like Ver33 for
// signal-map selection (per spec) but may produce incorrect encodings.
const (
	Ver33 Version = 33
	Ver40 Version = 40
	Ver41 Version = 41
	Ver42 Version = 42
	Ver71 Version = 71
)

// Device describes the target GPU for version-aware table dispatch.
// Ver is the sole discriminator used throughout the codec and the
// validator; the other fields are carried for callers, and nothing in
// this module reads them.
type Device struct {
	Ver              Version
	Rev              uint8
	VPMSize          int32
	QPUCount         int32
	HasAccumulators  bool
}

// NewDevice builds a Device for ver, defaulting unset fields to sane
// values. Rev can be set directly on the returned Device by callers
// that care about it (nothing in this module's tables key on it).
func NewDevice(ver Version) Device {
	return Device{
		Ver:             ver,
		VPMSize:         1024,
		QPUCount:        1,
		HasAccumulators: ver < Ver71,
	}
}

// Is71 reports whether this device uses the v7.1 per-input raddr
// encoding instead of the v4.x mux encoding.
func (d Device) Is71() bool { return d.Ver >= Ver71 }

// AtLeast reports whether the device's version is at or above v.
func (d Device) AtLeast(v Version) bool { return d.Ver >= v }

// inRange reports whether d.Ver satisfies a table entry's
// [firstVer, lastVer] applicability window, where 0 means unbounded.
func inRange(ver Version, firstVer, lastVer Version) bool {
	if firstVer != 0 && ver < firstVer {
		return false
	}
	if lastVer != 0 && ver > lastVer {
		return false
	}
	return true
}
