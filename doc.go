// Package nbbuddy implements a non-blocking buddy memory allocator: a
// concurrent allocator that partitions a single contiguous arena among many
// parallel requesters using a binary buddy scheme, without ever taking a
// lock.
//
// # Architecture
//
// The allocator is built around an implicit binary heap of [node] values
// ([Tree]), one per buddy-system block, addressed purely by arithmetic index
// (parent/left/right, no pointers between nodes). Each node carries a single
// atomic 32-bit word recording its own occupancy and the occupancy/coalesce
// state of its two subtrees; allocation and free both walk this tree from a
// leaf toward the root, making progress entirely through CAS, atomic OR, and
// atomic load/store on that word.
//
// [New] builds the tree and backing arena for a given number of levels.
// [Allocator.Request] claims the smallest power-of-two block that satisfies a
// requested size, searching across the size class's sibling nodes on
// contention. [Allocator.Free] releases a block and coalesces the freed
// state back toward the root.
//
// # Concurrency
//
// All coordination is lock-free: a thread may retry its own CAS loop
// indefinitely under contention, but some thread always makes progress.
// There are no blocking calls and no cancellation; see the package-level
// tests for the property and scenario suite this guarantees are checked
// against.
package nbbuddy
