// Package fence implements the per-chunk completion tracker the scheduler
// uses to know when a chunk's mesh job has finished without blocking on it
// (spec.md §4.7 "Fence-based scheduling"). It generalizes the teacher's
// ChunkManager worker-completion pattern (pkg/game/chunk_manager.go) from
// "one queue, fire-and-forget" to "one fence per chunk, coordinator reads
// it whenever it likes."
package fence

import (
	"sync"

	"github.com/rs/xid"

	"github.com/leterax/voxelcore/pkg/voxel"
)

// Handle is an opaque reference to one in-flight (or completed) mesh job.
// The zero Handle is the canonical "no job" / "already completed" sentinel
// -- Tail returns it for a chunk with nothing pending.
type Handle struct {
	id   xid.ID
	done chan struct{}
}

// IsZero reports whether h is the sentinel "no job" handle.
func (h Handle) IsZero() bool {
	return h.id == (xid.ID{})
}

// Registry tracks the most recent (tail) fence issued per chunk. It is
// meant to be owned and mutated by exactly one coordinator goroutine per
// frame; Update and CompleteAndReset are not safe to call concurrently for
// the same chunk from two coordinators. TryComplete and Tail may be called
// freely -- they only read -- but the mutex exists because worker
// goroutines other than the coordinator never touch the registry directly,
// they only hold the completion closure Update hands back.
type Registry struct {
	mu     sync.Mutex
	fences map[voxel.ChunkID]Handle
}

// NewRegistry returns an empty fence registry.
func NewRegistry() *Registry {
	return &Registry{fences: make(map[voxel.ChunkID]Handle)}
}

// Tail returns the most recently issued handle for id, or the zero Handle
// if none was ever issued or the last one was already reset via
// CompleteAndReset. A handle whose job has finished stays the tail until
// that reset.
func (r *Registry) Tail(id voxel.ChunkID) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fences[id]
}

// Update issues a new fence for id, replacing whatever tail was there, and
// returns three things: the new handle (to hand to whatever reads this
// job's completion), the chunk's previous tail (spec.md §4.2: a new job
// must schedule with that tail as its predecessor, so two jobs for the
// same chunk never run out of order), and the completion closure (to hand
// to the worker that will call it exactly once when the job finishes).
// The coordinator is the only caller of Update; the worker is the only
// caller of the returned closure.
func (r *Registry) Update(id voxel.ChunkID) (handle Handle, prev Handle, complete func()) {
	h := Handle{id: xid.New(), done: make(chan struct{})}

	r.mu.Lock()
	prev = r.fences[id]
	r.fences[id] = h
	r.mu.Unlock()

	var fired bool
	complete = func() {
		if fired {
			return
		}
		fired = true
		close(h.done)
	}
	return h, prev, complete
}

// TryComplete reports whether h's job has finished, without blocking.
func TryComplete(h Handle) bool {
	if h.IsZero() {
		return true
	}
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Wait blocks until h's job has finished. The zero Handle (no predecessor,
// or nothing ever issued) returns immediately.
func Wait(h Handle) {
	if h.IsZero() {
		return
	}
	<-h.done
}

// CompleteAndReset blocks until h's job finishes, then clears id's tail
// entry if it still points at h (a newer Update may have replaced it
// first, in which case the newer fence is left alone).
func (r *Registry) CompleteAndReset(id voxel.ChunkID, h Handle) {
	if !h.IsZero() {
		<-h.done
	}

	r.mu.Lock()
	if cur, ok := r.fences[id]; ok && cur.id == h.id {
		delete(r.fences, id)
	}
	r.mu.Unlock()
}

// InFlight reports the number of chunks with a non-completed tail fence.
func (r *Registry) InFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, h := range r.fences {
		if !TryComplete(h) {
			n++
		}
	}
	return n
}
