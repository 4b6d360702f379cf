// Package device implements the graphics API side of the context bootstrap:
// instance creation, physical device enumeration, capability queries, and
// the creation of the logical device and presentation pipeline from the
// parameters the core negotiated.
package device

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/devblok/gpuctx/core"
)

// PhysicalDeviceInfo describes available physical properties of a rendering
// device
type PhysicalDeviceInfo struct {
	ID            int
	VendorID      int
	DriverVersion int
	Name          string
	Invalid       bool
	Extensions    []string
	Layers        []string
	Memory        vk.DeviceSize
}

// Context describes an initialised graphics API context, ready for device
// selection and presentation negotiation.
type Context interface {
	core.CapabilityQuery

	// PhysicalDevicesInfo returns a struct for each physical device
	// along with info about those devices
	PhysicalDevicesInfo() []PhysicalDeviceInfo

	// SetSurface sets the window surface to present to
	SetSurface(unsafe.Pointer)

	// Surface returns the target surface; valid but empty if unset
	Surface() core.Surface

	// Instance returns the inner handle of the underlying API
	Instance() interface{}

	// Destroy destroys internal members
	Destroy()
}
