package core

// Configuration defines a global context setup configuration
type Configuration struct {
	Instance     InstanceConfiguration
	Window       WindowConfiguration
	Selector     SelectorConfiguration
	Presentation PresentationConfiguration
	Time         TimeConfiguration
}

// InstanceConfiguration is used to configure the graphics API instance
type InstanceConfiguration struct {
	// DebugMode wires the validation layer and debug reporting into
	// the instance
	DebugMode bool

	Extensions []string
	Layers     []string
}

// WindowConfiguration is used to configure the host window
type WindowConfiguration struct {
	Title string

	Width  uint32
	Height uint32
}

// SelectorConfiguration fixes the capability set every candidate device
// must satisfy
type SelectorConfiguration struct {
	// RequiredExtensions lists the device extensions a device has to
	// support to be selectable
	RequiredExtensions []string
}

// PresentationConfiguration fixes the preferences applied during
// presentation negotiation. Preferences that the surface does not support
// fall back per Negotiate, they never fail the negotiation.
type PresentationConfiguration struct {
	PreferredFormat      Format
	PreferredColorSpace  ColorSpace
	PreferredPresentMode PresentMode
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out.
	// To unlimit, set to 0
	FramesPerSecond int

	// EventPollDelay is the delay between event loop polls, in
	// milliseconds
	EventPollDelay int
}

// DefaultSelectorConfiguration requires only the presentation pipeline
// extension.
var DefaultSelectorConfiguration = SelectorConfiguration{
	RequiredExtensions: []string{SwapchainExtensionName},
}

// DefaultPresentationConfiguration prefers 32-bit sRGB output with
// low-latency triple buffering.
var DefaultPresentationConfiguration = PresentationConfiguration{
	PreferredFormat:      FormatB8G8R8A8SRGB,
	PreferredColorSpace:  ColorSpaceSRGBNonlinear,
	PreferredPresentMode: PresentModeMailbox,
}
