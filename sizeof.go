package nbbuddy

// These constants are cross-checked against runtime/portable values by
// align_test.go.
const (
	// sizeOfCacheLine is the size, in bytes, of a CPU cache line used for
	// padding calculations. 64 bytes is standard for x86-64; 128 bytes is
	// standard for Apple Silicon and other ARM64 parts. We use 128 to
	// satisfy the largest common alignment requirement, so a node's val
	// never shares a line with a neighboring node's val regardless of
	// target architecture.
	sizeOfCacheLine = 128

	// sizeOfAtomicUint32 is the size, in bytes, of an atomic.Uint32 value.
	sizeOfAtomicUint32 = 4
)
