package transfer

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/hupe1980/fieldacc/layout"
)

// Op is the type of a recorded event.
type Op uint8

const (
	// Issue marks a Get or Put call.
	Issue Op = iota
	// Complete marks the return of Wait for an outstanding transfer.
	Complete
)

func (o Op) String() string {
	if o == Complete {
		return "complete"
	}
	return "issue"
}

// Event is one entry of a Recorder's log.
type Event struct {
	Seq  int
	Op   Op
	Kind Kind
	Tag  Tag
	// Local is the address of the first record of the worker-local buffer:
	// dst for a Get, src for a Put.
	Local uintptr
	// Remote is the address of the first record in the shared array.
	Remote uintptr
	Len    int
}

func (e Event) String() string {
	return fmt.Sprintf("#%d %s %s tag=%d local=%#x len=%d", e.Seq, e.Op, e.Kind, e.Tag, e.Local, e.Len)
}

// Recorder wraps an Engine and logs every issue and completion.
type Recorder struct {
	inner   Engine
	mu      sync.Mutex
	events  []Event
	pending [MaxTags]*Event
}

// NewRecorder wraps inner.
func NewRecorder(inner Engine) *Recorder {
	return &Recorder{inner: inner}
}

func addr(b []layout.Record) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0])) //nolint:gosec // identity only
}

// Get implements Engine.
func (r *Recorder) Get(tag Tag, dst, src []layout.Record) error {
	if err := r.inner.Get(tag, dst, src); err != nil {
		return err
	}
	r.record(Event{Op: Issue, Kind: Get, Tag: tag, Local: addr(dst), Remote: addr(src), Len: len(dst)})
	return nil
}

// Put implements Engine.
func (r *Recorder) Put(tag Tag, dst, src []layout.Record) error {
	if err := r.inner.Put(tag, dst, src); err != nil {
		return err
	}
	r.record(Event{Op: Issue, Kind: Put, Tag: tag, Local: addr(src), Remote: addr(dst), Len: len(src)})
	return nil
}

// Wait implements Engine.
func (r *Recorder) Wait(tag Tag) error {
	err := r.inner.Wait(tag)
	if tag < MaxTags {
		r.mu.Lock()
		if p := r.pending[tag]; p != nil {
			done := *p
			done.Op = Complete
			r.pending[tag] = nil
			r.appendLocked(done)
		}
		r.mu.Unlock()
	}
	return err
}

func (r *Recorder) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev := r.appendLocked(e)
	r.pending[e.Tag] = &ev
}

func (r *Recorder) appendLocked(e Event) Event {
	e.Seq = len(r.events)
	r.events = append(r.events, e)
	return e
}

// Events returns a copy of the log.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Outstanding returns the number of transfers issued but not waited on.
func (r *Recorder) Outstanding() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.pending {
		if p != nil {
			n++
		}
	}
	return n
}

// CheckBufferReuse verifies that no transfer was issued on a local buffer
// while an earlier transfer on the same buffer was still outstanding.
func CheckBufferReuse(events []Event) error {
	inflight := make(map[uintptr]Event)
	for _, e := range events {
		switch e.Op {
		case Issue:
			if prev, ok := inflight[e.Local]; ok {
				return fmt.Errorf("buffer %#x reused by %s while %s outstanding", e.Local, e, prev)
			}
			inflight[e.Local] = e
		case Complete:
			delete(inflight, e.Local)
		}
	}
	return nil
}
