package core

import "math"

// Format identifies a pixel format. Values match the graphics API's format
// enumeration.
type Format uint32

// Pixel formats relevant to presentation negotiation
const (
	FormatB8G8R8A8UNorm Format = 44
	FormatB8G8R8A8SRGB  Format = 50
)

// ColorSpace identifies how presented pixel values are interpreted.
type ColorSpace uint32

// ColorSpaceSRGBNonlinear is the standard non-linear sRGB color space.
const ColorSpaceSRGBNonlinear ColorSpace = 0

// PresentMode identifies how presented images are queued for display.
type PresentMode uint32

// Present modes
const (
	PresentModeImmediate PresentMode = iota
	PresentModeMailbox
	PresentModeFIFO
	PresentModeFIFORelaxed
)

// SharingMode declares how pipeline images are accessed across queue
// families.
type SharingMode uint32

// Sharing modes
const (
	SharingModeExclusive SharingMode = iota
	SharingModeConcurrent
)

// SwapchainExtensionName is the device extension implementing the
// presentation pipeline.
const SwapchainExtensionName = "VK_KHR_swapchain"

// ExtentUndefined is the extent value a surface reports when it leaves the
// image size to the application.
const ExtentUndefined uint32 = math.MaxUint32

// Extent2D is an image size in pixels.
type Extent2D struct {
	Width  uint32
	Height uint32
}

// SurfaceFormat pairs a pixel format with a color space.
type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

// SurfaceCapabilities is a snapshot of the capability envelope of one
// device and surface pair. It has to be queried fresh for every
// negotiation; the envelope changes with the window and is never valid for
// another device.
type SurfaceCapabilities struct {
	MinImageCount uint32
	MaxImageCount uint32 // 0 means unbounded

	CurrentExtent  Extent2D
	MinImageExtent Extent2D
	MaxImageExtent Extent2D

	Formats      []SurfaceFormat
	PresentModes []PresentMode
}

// PresentationConfig is a fully negotiated presentation pipeline setup. It
// is produced once per negotiation and stays immutable for the lifetime of
// the pipeline created from it.
type PresentationConfig struct {
	Format      Format
	ColorSpace  ColorSpace
	PresentMode PresentMode
	Extent      Extent2D
	ImageCount  uint32

	// QueueFamilyIndices carries the families sharing the pipeline
	// images. It is only populated for SharingModeConcurrent.
	SharingMode        SharingMode
	QueueFamilyIndices []uint32
}

// NewNegotiator creates a negotiator with the given preferences.
// drawableSize supplies the actual framebuffer pixel size from the
// windowing layer, consulted only when the surface reports ExtentUndefined;
// it must not be nil.
func NewNegotiator(cfg PresentationConfiguration, drawableSize func() (width, height uint32)) *Negotiator {
	if drawableSize == nil {
		panic("core: NewNegotiator requires a drawableSize callback")
	}
	return &Negotiator{
		configuration: cfg,
		drawableSize:  drawableSize,
	}
}

// Negotiator derives concrete presentation parameters from a surface
// capability envelope.
type Negotiator struct {
	configuration PresentationConfiguration
	drawableSize  func() (width, height uint32)
}

// Negotiate computes the presentation configuration for the capability
// snapshot. It requires complete queue family indices and a non-empty
// envelope; past those preconditions it cannot fail, every preference has
// a guaranteed fallback.
func (n *Negotiator) Negotiate(capabilities *SurfaceCapabilities, indices QueueFamilyIndices) (PresentationConfig, error) {
	if !indices.Complete() {
		return PresentationConfig{}, ErrIncompleteQueueIndices
	}
	if len(capabilities.Formats) == 0 || len(capabilities.PresentModes) == 0 {
		return PresentationConfig{}, ErrEmptyCapability
	}

	format := n.surfaceFormat(capabilities.Formats)

	config := PresentationConfig{
		Format:      format.Format,
		ColorSpace:  format.ColorSpace,
		PresentMode: n.presentMode(capabilities.PresentModes),
		Extent:      n.extent(capabilities),
		ImageCount:  imageCount(capabilities),
		SharingMode: SharingModeExclusive,
	}

	// Cross-family image access has to be declared to the driver up
	// front, it cannot change without recreating the pipeline.
	if !indices.Shared() {
		config.SharingMode = SharingModeConcurrent
		config.QueueFamilyIndices = []uint32{*indices.Graphics, *indices.Present}
	}

	return config, nil
}

func (n *Negotiator) surfaceFormat(available []SurfaceFormat) SurfaceFormat {
	for _, format := range available {
		if format.Format == n.configuration.PreferredFormat && format.ColorSpace == n.configuration.PreferredColorSpace {
			return format
		}
	}
	return available[0]
}

func (n *Negotiator) presentMode(available []PresentMode) PresentMode {
	for _, mode := range available {
		if mode == n.configuration.PreferredPresentMode {
			return mode
		}
	}

	// FIFO is the one mode the graphics API guarantees.
	return PresentModeFIFO
}

func (n *Negotiator) extent(capabilities *SurfaceCapabilities) Extent2D {
	current := capabilities.CurrentExtent
	if current.Width != ExtentUndefined || current.Height != ExtentUndefined {
		// The surface dictates the extent, clamping does not apply.
		return current
	}

	width, height := n.drawableSize()
	return Extent2D{
		Width:  clamp(width, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width),
		Height: clamp(height, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height),
	}
}

// imageCount biases toward one image over the minimum so the pipeline can
// multi-buffer without the caller asking, while never exceeding the device
// limit.
func imageCount(capabilities *SurfaceCapabilities) uint32 {
	count := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && count > capabilities.MaxImageCount {
		count = capabilities.MaxImageCount
	}
	return count
}

func clamp(value, min, max uint32) uint32 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
