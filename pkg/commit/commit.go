// Package commit implements the boundary between a finished mesh job and
// whatever owns the rendering/physics representation of a chunk (spec.md
// §4.8 "Commit/apply boundary"). The core engine never touches a vertex
// buffer object or a collision mesh directly -- it hands a finished
// voxel.MeshBuffers to a Presenter, either immediately or batched for an
// atomic front/back-slot swap.
package commit

import (
	"github.com/leterax/voxelcore/pkg/voxel"
)

// Presenter is implemented by the embedding host (renderer, physics world,
// test harness). ExtractChunk/fairing output is never touched by the core
// engine past this boundary.
type Presenter interface {
	// PresentImmediate applies a chunk's mesh as soon as it is ready, with
	// no batching: suitable for a single chunk streamed in response to a
	// player action.
	PresentImmediate(id voxel.ChunkID, mesh *voxel.MeshBuffers)
}

// BatchPresenter is the optional extension a host implements to receive
// whole-frame batches atomically (spec.md §4.8 "rolling grid commit").
type BatchPresenter interface {
	Presenter
	// PresentCommitBatch applies every entry in batch as one atomic unit:
	// a caller reading chunk state mid-frame must never observe a partial
	// batch.
	PresentCommitBatch(batch []BatchEntry)
}

// BatchEntry pairs a chunk with its finished mesh for a commit batch.
type BatchEntry struct {
	ChunkID voxel.ChunkID
	Mesh    *voxel.MeshBuffers
}

// StampKind distinguishes the two ways a chunk enters a commit batch:
// Interior chunks were already part of the rolling grid and got re-meshed
// in place; Entering chunks are newly streamed in at the grid's moving
// boundary. The kind is recorded per Batch entry; neither Presenter method
// receives it, so hosts see only the chunk ID and mesh.
type StampKind int

const (
	StampInterior StampKind = iota
	StampEntering
)

// Batch accumulates finished chunk meshes for one atomic commit, recording
// each entry's stamp kind alongside it. Commit passes only the chunk ID and
// mesh to the host; the stamp kind is not forwarded.
type Batch struct {
	entries []stampedEntry
}

type stampedEntry struct {
	BatchEntry
	Stamp StampKind
}

// Add appends a finished chunk mesh to the batch with the given stamp.
func (b *Batch) Add(id voxel.ChunkID, mesh *voxel.MeshBuffers, stamp StampKind) {
	b.entries = append(b.entries, stampedEntry{BatchEntry{ChunkID: id, Mesh: mesh}, stamp})
}

// Len reports the number of entries queued in the batch.
func (b *Batch) Len() int {
	return len(b.entries)
}

// Commit presents every queued entry to host as one atomic swap (via
// PresentCommitBatch, if host supports it) and clears the batch. A host
// that only implements Presenter gets each entry applied immediately
// instead -- a graceful degradation, not an atomic guarantee.
func (b *Batch) Commit(host Presenter) {
	if len(b.entries) == 0 {
		return
	}

	if batchHost, ok := host.(BatchPresenter); ok {
		plain := make([]BatchEntry, len(b.entries))
		for i, e := range b.entries {
			plain[i] = e.BatchEntry
		}
		batchHost.PresentCommitBatch(plain)
	} else {
		for _, e := range b.entries {
			host.PresentImmediate(e.ChunkID, e.Mesh)
		}
	}

	b.entries = b.entries[:0]
}

// Host wires a Presenter to either the immediate-apply or the batched
// commit mode described by spec.md §4.8, selected once at construction.
type Host struct {
	presenter Presenter
	batched   bool
	pending   Batch
}

// NewImmediateHost returns a Host that applies every finished chunk mesh
// the moment it arrives.
func NewImmediateHost(p Presenter) *Host {
	return &Host{presenter: p, batched: false}
}

// NewBatchedHost returns a Host that accumulates finished chunk meshes and
// only applies them when Flush is called -- typically once per frame, so
// readers never observe a partially-updated rolling grid.
func NewBatchedHost(p Presenter) *Host {
	return &Host{presenter: p, batched: true}
}

// Submit hands a finished chunk mesh to the host. In immediate mode it is
// applied synchronously; in batched mode it is queued for the next Flush.
func (h *Host) Submit(id voxel.ChunkID, mesh *voxel.MeshBuffers, stamp StampKind) {
	if !h.batched {
		h.presenter.PresentImmediate(id, mesh)
		return
	}
	h.pending.Add(id, mesh, stamp)
}

// Flush applies every pending batched entry, atomically when the presenter
// implements BatchPresenter and one entry at a time otherwise (see
// Batch.Commit). A no-op in immediate mode, since there is nothing pending
// to flush.
func (h *Host) Flush() {
	if !h.batched {
		return
	}
	h.pending.Commit(h.presenter)
}

// Pending reports how many entries are queued awaiting the next Flush.
func (h *Host) Pending() int {
	return h.pending.Len()
}
