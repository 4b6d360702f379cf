package core

import "sort"

// SelectDevice returns the first device in enumeration order for which
// suitable holds. There is no scoring between multiple suitable devices;
// enumeration order is whatever the graphics API reports, so the pick is
// only deterministic for a fixed enumeration.
func SelectDevice(devices []Device, suitable func(Device) bool) (Device, error) {
	if len(devices) == 0 {
		return nil, ErrNoDeviceEnumerated
	}

	for _, device := range devices {
		if suitable(device) {
			return device, nil
		}
	}
	return nil, ErrNoSuitableDevice
}

// NewDeviceSelector creates a selector that filters devices against the
// capability set fixed by cfg.
func NewDeviceSelector(query CapabilityQuery, cfg SelectorConfiguration) *DeviceSelector {
	return &DeviceSelector{
		query:         query,
		configuration: cfg,
	}
}

// DeviceSelector picks a physical device able to drive a rendering context
// for a given surface.
type DeviceSelector struct {
	query         CapabilityQuery
	configuration SelectorConfiguration
}

// Select enumerates the available devices and returns the first suitable
// one for surface.
func (s *DeviceSelector) Select(surface Surface) (Device, error) {
	devices, err := s.query.Devices()
	if err != nil {
		return nil, err
	}

	return SelectDevice(devices, func(device Device) bool {
		return s.Check(device, surface) == nil
	})
}

// Suitable is the predicate form of Check.
func (s *DeviceSelector) Suitable(device Device, surface Surface) bool {
	return s.Check(device, surface) == nil
}

// Check returns nil for a suitable device, or the first failed requirement.
// The sub-checks short-circuit in order: a complete queue family set, the
// required extensions, a non-empty surface capability envelope.
func (s *DeviceSelector) Check(device Device, surface Surface) error {
	indices, err := ResolveQueueFamilies(s.query, device, surface)
	if err != nil {
		return err
	}
	if !indices.Complete() {
		return ErrIncompleteQueueIndices
	}

	available, err := s.query.DeviceExtensions(device)
	if err != nil {
		return err
	}
	if missing := MissingExtensions(s.configuration.RequiredExtensions, available); len(missing) != 0 {
		return &MissingExtensionError{Missing: missing}
	}

	capabilities, err := s.query.SurfaceCapabilities(device, surface)
	if err != nil {
		return err
	}
	if len(capabilities.Formats) == 0 || len(capabilities.PresentModes) == 0 {
		return ErrEmptyCapability
	}

	return nil
}

// MissingExtensions computes the set difference between required and
// available extension names. The result is sorted; an empty result means
// the requirement is met.
func MissingExtensions(required, available []string) []string {
	remaining := make(map[string]struct{}, len(required))
	for _, name := range required {
		remaining[name] = struct{}{}
	}
	for _, name := range available {
		delete(remaining, name)
	}
	if len(remaining) == 0 {
		return nil
	}

	missing := make([]string, 0, len(remaining))
	for name := range remaining {
		missing = append(missing, name)
	}
	sort.Strings(missing)
	return missing
}
