package kernel

import "github.com/hupe1980/fieldacc/layout"

// StagingLen returns the staging length in float64 values for n records.
func StagingLen(n int) int {
	return n * layout.Components
}

func wide(d []float64, n int) *layout.Wide {
	off := n * layout.Components
	return (*layout.Wide)(d[off : off+layout.Components])
}

// Seed overwrites the staging buffer with the widened block f.
func Seed(d []float64, f []layout.Record) {
	_ = d[:StagingLen(len(f))]
	for n := range f {
		layout.Unpack(wide(d, n), &f[n])
	}
}

// Accumulate adds the widened block f into the staging buffer.
func Accumulate(d []float64, f []layout.Record) {
	_ = d[:StagingLen(len(f))]
	for n := range f {
		layout.AddUnpacked(wide(d, n), &f[n])
	}
}

// Pack rounds the staging buffer into the packed block g.
func Pack(g []layout.Record, d []float64) {
	_ = d[:StagingLen(len(g))]
	for n := range g {
		layout.Pack(&g[n], wide(d, n))
	}
}

// Reduce sums the blocks in ascending order into out using d as staging.
// It is the synchronous reference for the pipelined reduction.
func Reduce(out []layout.Record, d []float64, blocks ...[]layout.Record) {
	if len(blocks) == 0 {
		return
	}
	Seed(d, blocks[0])
	for _, b := range blocks[1:] {
		Accumulate(d, b)
	}
	Pack(out, d)
}
