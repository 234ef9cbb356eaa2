package nbbuddy

import "sync/atomic"

// Bit layout of node.val (bit 0 = LSB):
//
//	0 occR     some descendant in the right subtree is occupied/partial
//	1 occL     some descendant in the left subtree is occupied/partial
//	2 coalR    a free in the right subtree is pending coalescing here
//	3 coalL    a free in the left subtree is pending coalescing here
//	4 occSelf  this node itself is allocated as a single block
//
// bits 5 and above are reserved and always zero.
const (
	occRight  uint32 = 1 << 0
	occLeft   uint32 = 1 << 1
	coalRight uint32 = 1 << 2
	coalLeft  uint32 = 1 << 3
	occSelf   uint32 = 1 << 4

	// occupyBlock is the value a node's val takes once claimed whole.
	occupyBlock = occSelf | occLeft | occRight
)

// side identifies which child of a node an update is propagating from.
type side uint8

const (
	sideLeft side = iota
	sideRight
)

// sideOf reports which child a node at pos is of its parent. Left children
// sit at even indices (2*parent), right children at odd indices (2*parent+1).
func sideOf(pos uint32) side {
	if pos%2 == 0 {
		return sideLeft
	}
	return sideRight
}

// node is one entry of the implicit buddy tree. Geometry (pos, memStart,
// memSize) is frozen after Tree init; val is the only field ever mutated
// post-init, and is padded onto its own cache line to prevent false sharing
// between concurrently-contended siblings.
type node struct { // betteralign:ignore
	_        [sizeOfCacheLine]byte // leading pad //nolint:unused
	val      atomic.Uint32
	memStart uint32
	memSize  uint32
	pos      uint32
	_        [sizeOfCacheLine - sizeOfAtomicUint32]byte // trailing pad //nolint:unused
}

// tryClaim attempts to CAS this node's val from free (0) to occupyBlock.
// Reports failure immediately, without attempting the CAS, if the node is
// already non-zero (partially or fully occupied).
func (n *node) tryClaim() bool {
	if n.val.Load() != 0 {
		return false
	}
	return n.val.CompareAndSwap(0, occupyBlock)
}

// propagateOccupation CASes v -> (v &^ coalSide) | occSide at n, retrying
// until it either succeeds or observes occSelf already set (meaning a
// concurrent whole-block allocation beat this one to n). A computed value
// equal to the value read is treated as success without a write.
func propagateOccupation(n *node, s side) bool {
	for {
		v := n.val.Load()
		if v&occSelf != 0 {
			return false
		}
		var next uint32
		if s == sideLeft {
			next = (v &^ coalLeft) | occLeft
		} else {
			next = (v &^ coalRight) | occRight
		}
		if next == v {
			return true
		}
		if n.val.CompareAndSwap(v, next) {
			return true
		}
	}
}

// setCoalesce ORs the coalesce bit for side s into n's val. Idempotent, so no
// CAS loop is required.
func setCoalesce(n *node, s side) {
	if s == sideLeft {
		n.val.Or(coalLeft)
	} else {
		n.val.Or(coalRight)
	}
}

// clearCoalesceAndOccupation CASes v -> v &^ coalSide &^ occSide at n,
// retrying on contention. Returns false without writing if the coalesce bit
// for side s is already clear (someone else finished this branch's cleanup,
// or it was re-claimed and the allocator already cleared it); true once the
// clearing CAS succeeds.
func clearCoalesceAndOccupation(n *node, s side) (cleared bool, result uint32) {
	for {
		v := n.val.Load()
		var coalBit, occBit uint32
		if s == sideLeft {
			coalBit, occBit = coalLeft, occLeft
		} else {
			coalBit, occBit = coalRight, occRight
		}
		if v&coalBit == 0 {
			return false, v
		}
		next := v &^ coalBit &^ occBit
		if n.val.CompareAndSwap(v, next) {
			return true, next
		}
	}
}

// release stores val := 0 with the ordering sync/atomic gives all its typed
// operations (sequentially consistent, which is at least as strong as the
// release ordering the free protocol requires). Only safe to call while
// occSelf is known to be set for n, since no other party may CAS a node out
// of that state (see node bitmap protocol, release-block rule).
func release(n *node) {
	n.val.Store(0)
}
