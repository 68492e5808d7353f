package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(42).Records(10, -1, 1)
	b := NewRNG(42).Records(10, -1, 1)
	assert.Equal(t, a, b)

	r := NewRNG(3)
	first := r.Records(4, 0, 1)
	r.Reset()
	assert.Equal(t, first, r.Records(4, 0, 1))
	assert.Equal(t, int64(3), r.Seed())
}

func TestRNG_RecordsInRange(t *testing.T) {
	recs := NewRNG(1).Records(100, -2, 3)
	for _, rec := range recs {
		for i := 0; i < 12; i++ {
			assert.GreaterOrEqual(t, rec[i], float32(-2))
			assert.Less(t, rec[i], float32(3))
		}
		for i := 12; i < 16; i++ {
			assert.Zero(t, rec[i])
		}
	}
}

func TestReplicas_GapIsNaN(t *testing.T) {
	recs := NewRNG(5).Replicas(3, 2, 5, 0, 1)
	require.Len(t, recs, 8)
	assert.True(t, math.IsNaN(float64(recs[3][0])))
	assert.True(t, math.IsNaN(float64(recs[4][0])))
	assert.False(t, math.IsNaN(float64(recs[5][0])))
	assert.Nil(t, NewRNG(5).Replicas(3, 0, 5, 0, 1))
}

func TestReferenceSum(t *testing.T) {
	recs := ConstantReplicas(4, 6, 1, 2, 4)
	got := ReferenceSum(recs, 4, 3, 6)
	for _, rec := range got {
		for i := 0; i < 12; i++ {
			assert.Equal(t, float32(7), rec[i])
		}
	}
}
