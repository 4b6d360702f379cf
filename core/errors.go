package core

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Context initialisation failures. All of them are terminal: driver and
// hardware state do not change within a process run, so nothing is retried.
var (
	// ErrNoDeviceEnumerated means the instance reported no accelerator
	// at all.
	ErrNoDeviceEnumerated = errors.New("no accelerator device enumerated")

	// ErrNoSuitableDevice means devices were enumerated but none
	// satisfies the required capability set.
	ErrNoSuitableDevice = errors.New("no enumerated device satisfies the required capability set")

	// ErrIncompleteQueueIndices means no queue family combination covers
	// both command submission and presentation.
	ErrIncompleteQueueIndices = errors.New("queue family indices are incomplete")

	// ErrEmptyCapability means the surface advertises no pixel formats
	// or no present modes for the device.
	ErrEmptyCapability = errors.New("surface reports no formats or present modes")
)

// MissingExtensionError lists required device extensions a candidate device
// does not provide. It disqualifies the device; the names are kept for
// diagnosing driver and hardware mismatches.
type MissingExtensionError struct {
	Missing []string
}

func (e *MissingExtensionError) Error() string {
	return "device is missing required extensions: " + strings.Join(e.Missing, ", ")
}
