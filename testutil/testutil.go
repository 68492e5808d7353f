package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/fieldacc/layout"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic test data
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float32, minVal, maxVal float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float32()*span
	}
}

// Records generates n records whose live lanes are uniform in [minVal, maxVal).
// Padding lanes are zero.
func (r *RNG) Records(n int, minVal, maxVal float32) []layout.Record {
	out := make([]layout.Record, n)
	r.fillRecords(out, minVal, maxVal)
	return out
}

// Replicas generates a replicated accumulator allocation of nArray copies of n
// records spaced stride records apart. Gap records between copies hold NaN so
// that a reduction touching them is detectable.
func (r *RNG) Replicas(n, nArray, stride int, minVal, maxVal float32) []layout.Record {
	if nArray <= 0 {
		return nil
	}
	out := make([]layout.Record, (nArray-1)*stride+n)
	for i := range out {
		for l := range out[i] {
			out[i][l] = float32(math.NaN())
		}
	}
	for a := 0; a < nArray; a++ {
		r.fillRecords(out[a*stride:a*stride+n], minVal, maxVal)
	}
	return out
}

func (r *RNG) fillRecords(dst []layout.Record, minVal, maxVal float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for n := range dst {
		for i := 0; i < layout.Components; i++ {
			dst[n][i] = minVal + r.rand.Float32()*span
		}
		dst[n].ClearPadding()
	}
}

// ConstantReplicas builds nArray copies of n records where every live lane of
// replica a holds values[a].
func ConstantReplicas(n, stride int, values ...float32) []layout.Record {
	if len(values) == 0 {
		return nil
	}
	out := make([]layout.Record, (len(values)-1)*stride+n)
	for a, v := range values {
		for i := a * stride; i < a*stride+n; i++ {
			out[i].Fill(v)
		}
	}
	return out
}

// ReferenceSum reduces the replicas sequentially in ascending replica order
// with float64 accumulation, rounding once at the end.
func ReferenceSum(recs []layout.Record, n, nArray, stride int) []layout.Record {
	out := make([]layout.Record, n)
	for i := 0; i < n; i++ {
		for l := 0; l < layout.Components; l++ {
			var sum float64
			for a := 0; a < nArray; a++ {
				sum += float64(recs[a*stride+i][l])
			}
			out[i][l] = float32(sum)
		}
	}
	return out
}
