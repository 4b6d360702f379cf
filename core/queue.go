package core

// QueueFlags is a bitmask of the operation types a queue family supports.
// Values match the graphics API's queue flag bits.
type QueueFlags uint32

// Queue family operation flags
const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
	QueueSparseBinding
)

// QueueFamilyIndices holds the queue family indices a rendering context
// needs. A nil field means no family satisfying the role was found; index
// zero is a legitimate value, which is why the fields are pointers and not
// sentinels. Both roles may resolve to the same family.
type QueueFamilyIndices struct {
	Graphics *uint32
	Present  *uint32
}

// Complete reports whether both roles have been resolved.
func (i QueueFamilyIndices) Complete() bool {
	return i.Graphics != nil && i.Present != nil
}

// Shared reports whether both roles resolved to the same family.
func (i QueueFamilyIndices) Shared() bool {
	return i.Complete() && *i.Graphics == *i.Present
}

// Unique returns the distinct resolved indices, one entry per queue that
// has to be created.
func (i QueueFamilyIndices) Unique() []uint32 {
	var indices []uint32
	if i.Graphics != nil {
		indices = append(indices, *i.Graphics)
	}
	if i.Present != nil && (i.Graphics == nil || *i.Present != *i.Graphics) {
		indices = append(indices, *i.Present)
	}
	return indices
}

// ResolveQueueFamilies scans the device's queue families in index order and
// records the ones usable for command submission and for presenting to
// surface. The two roles are evaluated independently; when several families
// satisfy a role the last one enumerated wins, except that the scan stops
// as soon as both roles are covered. Resolution itself only fails when the
// underlying query does; an incomplete result is left for the caller to
// judge.
func ResolveQueueFamilies(query CapabilityQuery, device Device, surface Surface) (QueueFamilyIndices, error) {
	var indices QueueFamilyIndices

	families, err := query.QueueFamilies(device)
	if err != nil {
		return indices, err
	}

	for idx, family := range families {
		familyIdx := uint32(idx)

		if family.Flags&QueueGraphics != 0 {
			indices.Graphics = new(uint32)
			*indices.Graphics = familyIdx
		}

		supported, err := query.PresentSupport(device, familyIdx, surface)
		if err != nil {
			return indices, err
		}
		if supported {
			indices.Present = new(uint32)
			*indices.Present = familyIdx
		}

		if indices.Complete() {
			break
		}
	}

	return indices, nil
}
