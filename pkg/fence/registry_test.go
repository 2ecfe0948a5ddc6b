package fence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leterax/voxelcore/pkg/voxel"
)

func TestTailIsZeroForUnknownChunk(t *testing.T) {
	r := NewRegistry()
	h := r.Tail(voxel.ChunkID{X: 1, Y: 2, Z: 3})
	assert.True(t, h.IsZero())
}

func TestUpdateThenTailReturnsSameHandle(t *testing.T) {
	r := NewRegistry()
	id := voxel.ChunkID{X: 0, Y: 0, Z: 0}
	h, _, _ := r.Update(id)
	assert.False(t, h.IsZero())
	assert.Equal(t, h, r.Tail(id))
}

func TestTryCompleteNonBlocking(t *testing.T) {
	r := NewRegistry()
	id := voxel.ChunkID{X: 0, Y: 0, Z: 0}
	h, _, complete := r.Update(id)

	assert.False(t, TryComplete(h))
	complete()
	assert.True(t, TryComplete(h))
}

func TestTryCompleteZeroHandleIsAlwaysDone(t *testing.T) {
	assert.True(t, TryComplete(Handle{}))
}

func TestCompleteAndResetBlocksUntilDone(t *testing.T) {
	r := NewRegistry()
	id := voxel.ChunkID{X: 5, Y: 5, Z: 5}
	h, _, complete := r.Update(id)

	done := make(chan struct{})
	go func() {
		r.CompleteAndReset(id, h)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("CompleteAndReset returned before the fence was completed")
	case <-time.After(20 * time.Millisecond):
	}

	complete()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("CompleteAndReset did not return after completion")
	}

	assert.True(t, r.Tail(id).IsZero())
}

func TestCompleteAndResetLeavesNewerFenceAlone(t *testing.T) {
	r := NewRegistry()
	id := voxel.ChunkID{X: 1, Y: 1, Z: 1}
	h1, _, complete1 := r.Update(id)
	complete1()

	h2, _, _ := r.Update(id)
	require.NotEqual(t, h1, h2)

	r.CompleteAndReset(id, h1)
	assert.Equal(t, h2, r.Tail(id), "a stale fence reset must not clobber a newer one")
}

func TestInFlightCounts(t *testing.T) {
	r := NewRegistry()
	a, _, completeA := r.Update(voxel.ChunkID{X: 0})
	_, _, completeB := r.Update(voxel.ChunkID{X: 1})
	_ = a

	assert.Equal(t, 2, r.InFlight())
	completeA()
	assert.Equal(t, 1, r.InFlight())
	completeB()
	assert.Equal(t, 0, r.InFlight())
}
