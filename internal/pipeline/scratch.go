package pipeline

import (
	"fmt"

	"github.com/hupe1980/fieldacc/internal/kernel"
	"github.com/hupe1980/fieldacc/internal/mem"
	"github.com/hupe1980/fieldacc/layout"
	"github.com/hupe1980/fieldacc/resource"
)

// Scratch is a worker's local buffer set.
type Scratch struct {
	nb     int
	nArray int

	f []layout.Record // nArray fetch slots of nb records
	g []layout.Record // output staging slot
	d []float64       // float64 staging

	rc    *resource.Controller
	bytes int64
}

// ScratchBytes returns the scratch footprint for block size nb and nArray replicas.
func ScratchBytes(nb, nArray int) int64 {
	return int64(nArray*nb+nb)*layout.RecordBytes + int64(kernel.StagingLen(nb))*8
}

// NewScratch allocates aligned scratch buffers, charging rc's memory budget.
func NewScratch(nb, nArray, align int, rc *resource.Controller) (*Scratch, error) {
	if nb <= 0 || nArray <= 0 || nArray > MaxReplicas {
		return nil, fmt.Errorf("%w: scratch for block size %d, %d replicas", ErrInvalidConfig, nb, nArray)
	}
	if err := mem.ValidateAlignment(align); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	bytes := ScratchBytes(nb, nArray)
	if err := rc.AcquireMemory(bytes); err != nil {
		return nil, fmt.Errorf("scratch of %d bytes: %w", bytes, err)
	}

	return &Scratch{
		nb:     nb,
		nArray: nArray,
		f:      mem.AllocAlignedRecords(nArray*nb, align),
		g:      mem.AllocAlignedRecords(nb, align),
		d:      mem.AllocAlignedFloat64(kernel.StagingLen(nb), align),
		rc:     rc,
		bytes:  bytes,
	}, nil
}

// Fits reports whether the scratch can serve cfg.
func (s *Scratch) Fits(cfg Config) bool {
	return s != nil && s.nb == cfg.BlockSize && s.nArray >= cfg.NArray
}

// Bytes returns the accounted size of the scratch buffers.
func (s *Scratch) Bytes() int64 { return s.bytes }

// Release returns the scratch memory to the controller.
func (s *Scratch) Release() {
	if s == nil || s.bytes == 0 {
		return
	}
	s.rc.ReleaseMemory(s.bytes)
	s.bytes = 0
	s.f, s.g, s.d = nil, nil, nil
}

func (s *Scratch) slot(r, n int) []layout.Record {
	return s.f[r*s.nb : r*s.nb+n]
}
