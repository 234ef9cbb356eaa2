package nbbuddy

// Allocator partitions a single contiguous arena among concurrent
// requesters using a non-blocking buddy scheme. The zero value is not
// usable; construct with New.
type Allocator struct {
	tree              *Tree
	numberOfProcesses uint32
	logger            Logger
}

// New builds an Allocator with the given number of tree levels, which fixes
// the arena size at MinAllocableBytes * 2^(levels-1). See the Option
// constructors for the rest of the configuration surface.
func New(levels int, opts ...Option) (*Allocator, error) {
	c, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	tree, err := newTree(levels, c.minAllocableBytes, c.maxAllocableByte)
	if err != nil {
		return nil, err
	}
	return &Allocator{
		tree:              tree,
		numberOfProcesses: c.numberOfProcesses,
		logger:            c.logger,
	}, nil
}

// Close releases the Allocator's backing storage. Callers must ensure no
// other goroutine is concurrently calling Request or Free; Close itself
// does no synchronization.
func (a *Allocator) Close() error {
	a.tree.close()
	return nil
}

// Node is a handle to a block of memory claimed by Request. It must be
// passed to Free exactly once.
type Node struct {
	tree *Tree
	pos  uint32
}

// Offset returns the byte offset of the block within the Allocator's arena.
func (n *Node) Offset() uint64 {
	return uint64(n.tree.at(n.pos).memStart)
}

// Size returns the size in bytes of the block, which may be larger than the
// size originally requested, rounded up to the nearest power of two no
// smaller than MinAllocableBytes.
func (n *Node) Size() uint64 {
	return uint64(n.tree.at(n.pos).memSize)
}

// Bytes returns the slice of the Allocator's arena backing this block. The
// slice is only valid until Free is called on n.
func (n *Node) Bytes() []byte {
	node := n.tree.at(n.pos)
	return n.tree.arena[node.memStart : node.memStart+node.memSize]
}

// Request claims a block of at least bytes size for requester myid. myid is
// used only to spread concurrent requesters' initial search position across
// a size class, reducing contention; it carries no ownership semantics and
// need not be unique.
//
// Returns ErrSizeOutOfRange if bytes is zero or exceeds the Allocator's
// configured MaxAllocableByte, and ErrOutOfMemory if no block of the
// required size class was free after a full scan.
func (a *Allocator) Request(myid, bytes int) (*Node, error) {
	if bytes <= 0 || uint32(bytes) > a.tree.maxAllocableByte {
		logAt(a.logger, LevelWarn, "request size out of range", 0, myid, ErrSizeOutOfRange)
		return nil, ErrSizeOutOfRange
	}

	blockSize := nextPow2(uint32(bytes))
	if blockSize < a.tree.minAllocableBytes {
		blockSize = a.tree.minAllocableBytes
	}

	n, err := a.tree.search(blockSize, myid, a.numberOfProcesses)
	if err != nil {
		logAt(a.logger, LevelWarn, "out of memory", 0, myid, err)
		return nil, err
	}

	logAt(a.logger, LevelInfo, "claimed block", n.pos, myid, nil)
	return &Node{tree: a.tree, pos: n.pos}, nil
}

// Free releases a block previously returned by Request, coalescing the
// freed state back toward the root. Returns ErrBadFree if n does not
// identify a currently-allocated block of this Allocator.
func (a *Allocator) Free(n *Node) error {
	if n == nil || n.tree != a.tree {
		logAt(a.logger, LevelError, "bad free: foreign or nil node", 0, -1, ErrBadFree)
		return ErrBadFree
	}
	node := a.tree.at(n.pos)
	if node.val.Load()&occSelf == 0 {
		logAt(a.logger, LevelError, "bad free: node not occupied", n.pos, -1, ErrBadFree)
		return ErrBadFree
	}

	// occSelf being set at node guarantees every ancestor up to the root
	// was already marked when node was originally claimed, so the release
	// walk always runs the full path to the root.
	a.tree.freeFrom(node, 1)
	logAt(a.logger, LevelInfo, "released block", n.pos, -1, nil)
	return nil
}
