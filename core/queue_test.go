package core_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/gpuctx/core"
)

func TestResolveQueueFamiliesSharedFamily(t *testing.T) {
	c := qt.New(t)

	query := newFakeQuery().add("igpu", completeProfile())

	indices, err := core.ResolveQueueFamilies(query, fakeDevice("igpu"), testSurface)
	c.Assert(err, qt.IsNil)
	c.Assert(indices.Complete(), qt.Equals, true)
	c.Assert(indices.Shared(), qt.Equals, true)
	c.Assert(*indices.Graphics, qt.Equals, uint32(0))
	c.Assert(*indices.Present, qt.Equals, uint32(0))
	c.Assert(indices.Unique(), qt.DeepEquals, []uint32{0})
}

func TestResolveQueueFamiliesDisjointFamilies(t *testing.T) {
	c := qt.New(t)

	query := newFakeQuery().add("dgpu", &deviceProfile{
		families: []core.QueueFamilyProperties{
			{Flags: core.QueueGraphics},
			{Flags: core.QueueTransfer},
		},
		presentable: []bool{false, true},
	})

	indices, err := core.ResolveQueueFamilies(query, fakeDevice("dgpu"), testSurface)
	c.Assert(err, qt.IsNil)
	c.Assert(indices.Complete(), qt.Equals, true)
	c.Assert(indices.Shared(), qt.Equals, false)
	c.Assert(*indices.Graphics, qt.Equals, uint32(0))
	c.Assert(*indices.Present, qt.Equals, uint32(1))
	c.Assert(indices.Unique(), qt.DeepEquals, []uint32{0, 1})
}

// Later matches overwrite earlier ones for each role independently, so when
// completeness is only reached at the end of the scan, the last graphics
// capable family is the one kept.
func TestResolveQueueFamiliesLastMatchWins(t *testing.T) {
	c := qt.New(t)

	query := newFakeQuery().add("dgpu", &deviceProfile{
		families: []core.QueueFamilyProperties{
			{Flags: core.QueueGraphics},
			{Flags: core.QueueGraphics},
			{Flags: core.QueueTransfer},
		},
		presentable: []bool{false, false, true},
	})

	indices, err := core.ResolveQueueFamilies(query, fakeDevice("dgpu"), testSurface)
	c.Assert(err, qt.IsNil)
	c.Assert(*indices.Graphics, qt.Equals, uint32(1))
	c.Assert(*indices.Present, qt.Equals, uint32(2))
}

// Once both roles are covered the scan stops, families past that point
// never overwrite the result.
func TestResolveQueueFamiliesEarlyExit(t *testing.T) {
	c := qt.New(t)

	query := newFakeQuery().add("dgpu", &deviceProfile{
		families: []core.QueueFamilyProperties{
			{Flags: core.QueueGraphics},
			{Flags: core.QueueGraphics},
			{Flags: core.QueueGraphics},
		},
		presentable: []bool{true, true, true},
	})

	indices, err := core.ResolveQueueFamilies(query, fakeDevice("dgpu"), testSurface)
	c.Assert(err, qt.IsNil)
	c.Assert(*indices.Graphics, qt.Equals, uint32(0))
	c.Assert(*indices.Present, qt.Equals, uint32(0))
}

func TestResolveQueueFamiliesIncomplete(t *testing.T) {
	c := qt.New(t)

	query := newFakeQuery().add("compute", &deviceProfile{
		families: []core.QueueFamilyProperties{
			{Flags: core.QueueCompute},
			{Flags: core.QueueTransfer},
		},
		presentable: []bool{true, false},
	})

	indices, err := core.ResolveQueueFamilies(query, fakeDevice("compute"), testSurface)
	c.Assert(err, qt.IsNil)
	c.Assert(indices.Complete(), qt.Equals, false)
	c.Assert(indices.Graphics, qt.IsNil)
	c.Assert(*indices.Present, qt.Equals, uint32(0))
}

func TestResolveQueueFamiliesNoFamilies(t *testing.T) {
	c := qt.New(t)

	query := newFakeQuery().add("empty", &deviceProfile{})

	indices, err := core.ResolveQueueFamilies(query, fakeDevice("empty"), testSurface)
	c.Assert(err, qt.IsNil)
	c.Assert(indices.Complete(), qt.Equals, false)
	c.Assert(indices.Graphics, qt.IsNil)
	c.Assert(indices.Present, qt.IsNil)
	c.Assert(indices.Unique(), qt.HasLen, 0)
}

func TestResolveQueueFamiliesQueryFailure(t *testing.T) {
	c := qt.New(t)

	query := newFakeQuery().add("igpu", completeProfile())
	query.failWith = errDriver

	_, err := core.ResolveQueueFamilies(query, fakeDevice("igpu"), testSurface)
	c.Assert(err, qt.Equals, errDriver)
}

func TestQueueFamilyIndicesUniqueOrder(t *testing.T) {
	c := qt.New(t)

	indices := core.QueueFamilyIndices{
		Graphics: uint32Ptr(2),
		Present:  uint32Ptr(0),
	}
	c.Assert(indices.Unique(), qt.DeepEquals, []uint32{2, 0})

	same := core.QueueFamilyIndices{
		Graphics: uint32Ptr(3),
		Present:  uint32Ptr(3),
	}
	c.Assert(same.Unique(), qt.DeepEquals, []uint32{3})
}
