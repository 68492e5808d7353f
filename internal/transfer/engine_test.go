package transfer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/fieldacc/layout"
	"github.com/hupe1980/fieldacc/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(n int, v float32) []layout.Record {
	out := make([]layout.Record, n)
	for i := range out {
		out[i].Fill(v + float32(i))
	}
	return out
}

func engines(t *testing.T) map[string]Engine {
	t.Helper()
	a := NewAsync(t.Context())
	t.Cleanup(func() { _ = a.Close() })
	return map[string]Engine{
		"async":    a,
		"sync":     NewSync(),
		"deferred": NewDeferred(),
		"recorder": NewRecorder(NewSync()),
	}
}

func TestEngine_GetWait(t *testing.T) {
	for name, e := range engines(t) {
		t.Run(name, func(t *testing.T) {
			src := records(8, 1)
			dst := make([]layout.Record, 8)

			require.NoError(t, e.Get(3, dst, src))
			require.NoError(t, e.Wait(3))
			assert.Equal(t, src, dst)
		})
	}
}

func TestEngine_PutWait(t *testing.T) {
	for name, e := range engines(t) {
		t.Run(name, func(t *testing.T) {
			src := records(4, 10)
			dst := make([]layout.Record, 4)

			require.NoError(t, e.Put(OutputTag(3), dst, src))
			require.NoError(t, e.Wait(OutputTag(3)))
			assert.Equal(t, src, dst)
		})
	}
}

func TestEngine_TagBusy(t *testing.T) {
	for name, e := range engines(t) {
		t.Run(name, func(t *testing.T) {
			src := records(2, 0)
			dst := make([]layout.Record, 2)

			require.NoError(t, e.Get(1, dst, src))
			assert.ErrorIs(t, e.Get(1, dst, src), ErrTagBusy)

			// Other tags are independent.
			other := make([]layout.Record, 2)
			require.NoError(t, e.Get(2, other, src))

			require.NoError(t, e.Wait(1))
			require.NoError(t, e.Wait(2))
			require.NoError(t, e.Get(1, dst, src))
			require.NoError(t, e.Wait(1))
		})
	}
}

func TestEngine_InvalidTag(t *testing.T) {
	for name, e := range engines(t) {
		t.Run(name, func(t *testing.T) {
			b := make([]layout.Record, 1)
			assert.ErrorIs(t, e.Get(MaxTags, b, b), ErrInvalidTag)
			assert.ErrorIs(t, e.Wait(MaxTags), ErrInvalidTag)
		})
	}
}

func TestEngine_LengthMismatch(t *testing.T) {
	for name, e := range engines(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, e.Get(0, make([]layout.Record, 2), make([]layout.Record, 3)), ErrShortBuffer)
		})
	}
}

func TestEngine_WaitIdle(t *testing.T) {
	for name, e := range engines(t) {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, e.Wait(0))
			assert.NoError(t, e.Wait(OutputTag(MaxReplicas)))
		})
	}
}

func TestDeferred_CopiesOnWait(t *testing.T) {
	d := NewDeferred()
	src := records(3, 5)
	dst := make([]layout.Record, 3)

	require.NoError(t, d.Get(0, dst, src))
	assert.Equal(t, 1, d.Outstanding())
	assert.Zero(t, dst[0][0], "copy must not happen before Wait")

	// Mutating the source before Wait is visible: the engine reads late.
	src[0].Fill(99)
	require.NoError(t, d.Wait(0))
	assert.Equal(t, float32(99), dst[0][0])
	assert.Zero(t, d.Outstanding())
}

func TestAsync_Throttled(t *testing.T) {
	rc := resource.NewController(resource.Config{TransferBytesPerSec: 64 * layout.RecordBytes})
	a := NewAsync(t.Context(), WithController(rc))

	src := records(32, 0)
	dst := make([]layout.Record, 32)
	require.NoError(t, a.Get(0, dst, src))
	require.NoError(t, a.Wait(0))
	assert.Equal(t, src, dst)
	assert.Equal(t, int64(32*layout.RecordBytes), rc.TransferredBytes())
	require.NoError(t, a.Close())
}

func TestAsync_ThrottleCancelled(t *testing.T) {
	rc := resource.NewController(resource.Config{TransferBytesPerSec: layout.RecordBytes})
	require.NoError(t, rc.AcquireTransfer(t.Context(), layout.RecordBytes))

	ctx, cancel := context.WithCancel(t.Context())
	a := NewAsync(ctx, WithController(rc))

	src := records(4, 0)
	dst := make([]layout.Record, 4)
	require.NoError(t, a.Get(0, dst, src))
	cancel()

	assert.ErrorIs(t, a.Wait(0), context.Canceled)
	assert.NoError(t, a.Close())
}

func TestAsync_ConcurrentTags(t *testing.T) {
	a := NewAsync(t.Context())
	defer func() { require.NoError(t, a.Close()) }()

	const n = MaxTags
	srcs := make([][]layout.Record, n)
	dsts := make([][]layout.Record, n)
	for i := 0; i < n; i++ {
		srcs[i] = records(64, float32(i*100))
		dsts[i] = make([]layout.Record, 64)
		require.NoError(t, a.Get(Tag(i), dsts[i], srcs[i]))
	}
	for i := n - 1; i >= 0; i-- {
		require.NoError(t, a.Wait(Tag(i)))
		assert.Equal(t, srcs[i], dsts[i])
	}
}

func TestAsync_IndependentEngines(t *testing.T) {
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a := NewAsync(context.Background())
			src := records(16, float32(w))
			dst := make([]layout.Record, 16)
			for i := 0; i < 50; i++ {
				if err := a.Get(0, dst, src); err != nil {
					t.Error(err)
					return
				}
				if err := a.Wait(0); err != nil {
					t.Error(err)
					return
				}
			}
			_ = a.Close()
		}()
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("engines stalled")
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "get", Get.String())
	assert.Equal(t, "put", Put.String())
	assert.Equal(t, "issue", Issue.String())
	assert.Equal(t, "complete", Complete.String())
}
