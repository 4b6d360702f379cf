// Package core selects a graphics accelerator, resolves the queue families
// a rendering context needs, and negotiates presentation parameters against
// the capability envelope a surface advertises. Everything here is local
// computation over data read through the CapabilityQuery boundary; the
// graphics API itself lives behind that interface.
package core

// Device is an opaque handle to a physical accelerator. It is owned by the
// underlying graphics API; the core never creates, destroys or mutates one,
// it only reads capability data derived from it.
type Device interface{}

// Surface is an opaque handle to a window surface, owned by whatever
// windowing layer created it.
type Surface interface{}

// QueueFamilyProperties describes the operation flags of a single queue
// family.
type QueueFamilyProperties struct {
	Flags QueueFlags
}

// CapabilityQuery is a read-only view into the graphics API. Implementations
// are expected to ask the driver on every call; nothing is cached here
// because the capability envelope is device and surface specific.
type CapabilityQuery interface {
	// Devices returns handles of all physical devices known to the
	// instance, in enumeration order.
	Devices() ([]Device, error)

	// QueueFamilies returns the device's queue families in index order.
	QueueFamilies(device Device) ([]QueueFamilyProperties, error)

	// PresentSupport reports whether the given queue family on the device
	// can present to surface.
	PresentSupport(device Device, family uint32, surface Surface) (bool, error)

	// DeviceExtensions returns the names of the extensions the device
	// makes available.
	DeviceExtensions(device Device) ([]string, error)

	// SurfaceCapabilities returns a fresh capability envelope snapshot
	// for the device and surface pair.
	SurfaceCapabilities(device Device, surface Surface) (*SurfaceCapabilities, error)
}
