package tabfs

import "sync/atomic"

// Handle is the nonzero integer a client uses to refer to one open file or
// directory for the duration of a single logical open. Handles are
// allocated from a process-wide monotonic counter and are never reused
// within a session.
type Handle uint64

// handleAllocator hands out ever-increasing nonzero file handles, shared by
// the contents adapter and the route table's injected open defaults.
type handleAllocator struct {
	next uint64
}

// allocate returns the next handle, starting at 1.
func (a *handleAllocator) allocate() Handle {
	return Handle(atomic.AddUint64(&a.next, 1))
}

// sharedHandles is the single handle source for the whole engine: every
// file open() in a process draws from it, so a file handle is never reused
// within a session. Directory opens are the one exception — the injected
// opendir default answers with a fixed handle, since nothing is keyed by
// directory handles.
var sharedHandles handleAllocator
