package core_test

import (
	"github.com/cockroachdb/errors"

	"github.com/devblok/gpuctx/core"
)

// fakeDevice stands in for an opaque accelerator handle.
type fakeDevice string

// fakeSurface stands in for an opaque window surface handle.
type fakeSurface string

const testSurface = fakeSurface("window")

// errDriver simulates a failing collaborator call.
var errDriver = errors.New("driver failure")

// deviceProfile is everything the fake query knows about one device.
type deviceProfile struct {
	families     []core.QueueFamilyProperties
	presentable  []bool // present support per family index
	extensions   []string
	capabilities *core.SurfaceCapabilities
}

// fakeQuery implements core.CapabilityQuery from canned device profiles.
type fakeQuery struct {
	order    []core.Device
	profiles map[fakeDevice]*deviceProfile

	failWith error
	broken   map[fakeDevice]error
}

func newFakeQuery() *fakeQuery {
	return &fakeQuery{
		profiles: map[fakeDevice]*deviceProfile{},
		broken:   map[fakeDevice]error{},
	}
}

func (q *fakeQuery) add(name fakeDevice, profile *deviceProfile) *fakeQuery {
	q.order = append(q.order, name)
	q.profiles[name] = profile
	return q
}

// breakDevice makes every per-device query against name fail with err.
func (q *fakeQuery) breakDevice(name fakeDevice, err error) *fakeQuery {
	q.broken[name] = err
	return q
}

func (q *fakeQuery) profile(device core.Device) *deviceProfile {
	return q.profiles[device.(fakeDevice)]
}

func (q *fakeQuery) Devices() ([]core.Device, error) {
	if q.failWith != nil {
		return nil, q.failWith
	}
	return q.order, nil
}

func (q *fakeQuery) QueueFamilies(device core.Device) ([]core.QueueFamilyProperties, error) {
	if q.failWith != nil {
		return nil, q.failWith
	}
	if err := q.broken[device.(fakeDevice)]; err != nil {
		return nil, err
	}
	return q.profile(device).families, nil
}

func (q *fakeQuery) PresentSupport(device core.Device, family uint32, surface core.Surface) (bool, error) {
	if q.failWith != nil {
		return false, q.failWith
	}
	presentable := q.profile(device).presentable
	if int(family) >= len(presentable) {
		return false, errors.Newf("family %d out of range", family)
	}
	return presentable[family], nil
}

func (q *fakeQuery) DeviceExtensions(device core.Device) ([]string, error) {
	if q.failWith != nil {
		return nil, q.failWith
	}
	return q.profile(device).extensions, nil
}

func (q *fakeQuery) SurfaceCapabilities(device core.Device, surface core.Surface) (*core.SurfaceCapabilities, error) {
	if q.failWith != nil {
		return nil, q.failWith
	}
	return q.profile(device).capabilities, nil
}

// completeProfile is a device that passes every suitability check.
func completeProfile() *deviceProfile {
	return &deviceProfile{
		families: []core.QueueFamilyProperties{
			{Flags: core.QueueGraphics | core.QueueCompute},
		},
		presentable: []bool{true},
		extensions:  []string{core.SwapchainExtensionName, "VK_KHR_maintenance1"},
		capabilities: &core.SurfaceCapabilities{
			MinImageCount:  2,
			MaxImageCount:  8,
			CurrentExtent:  core.Extent2D{Width: 800, Height: 600},
			MinImageExtent: core.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: core.Extent2D{Width: 4096, Height: 4096},
			Formats: []core.SurfaceFormat{
				{Format: core.FormatB8G8R8A8SRGB, ColorSpace: core.ColorSpaceSRGBNonlinear},
			},
			PresentModes: []core.PresentMode{core.PresentModeFIFO},
		},
	}
}

func uint32Ptr(v uint32) *uint32 {
	return &v
}
