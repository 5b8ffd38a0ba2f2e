// Package biometric exposes the capability query the lock state machine
// consults. Actual biometric challenges belong to the OS and are out of
// scope; the core only ever combines these booleans.
package biometric

// Capability reports what the device's biometric hardware can do.
type Capability interface {
	HasHardware() bool
	IsEnrolled() bool
	SupportedTypes() []string
}

// StaticCapability is a Capability with fixed answers, fed from
// configuration (or zeroed for devices without hardware).
type StaticCapability struct {
	Hardware bool
	Enrolled bool
	Types    []string
}

func (c StaticCapability) HasHardware() bool        { return c.Hardware }
func (c StaticCapability) IsEnrolled() bool         { return c.Enrolled }
func (c StaticCapability) SupportedTypes() []string { return c.Types }

// None is the capability of a device without biometric hardware.
func None() StaticCapability {
	return StaticCapability{}
}
