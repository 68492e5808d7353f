package transfer

import (
	"fmt"

	"github.com/hupe1980/fieldacc/layout"
)

// Deferred postpones every copy until the tag is waited on.
//
// It is the latest completion an Engine may legally exhibit, so any caller
// that reads or rewrites a buffer before waiting observes stale data.
type Deferred struct {
	pending [MaxTags]*deferredCopy
}

type deferredCopy struct {
	dst, src []layout.Record
}

// NewDeferred creates a Deferred engine.
func NewDeferred() *Deferred {
	return &Deferred{}
}

// Get implements Engine.
func (d *Deferred) Get(tag Tag, dst, src []layout.Record) error {
	return d.issue(tag, dst, src)
}

// Put implements Engine.
func (d *Deferred) Put(tag Tag, dst, src []layout.Record) error {
	return d.issue(tag, dst, src)
}

func (d *Deferred) issue(tag Tag, dst, src []layout.Record) error {
	if err := checkIssue(tag, dst, src); err != nil {
		return err
	}
	if d.pending[tag] != nil {
		return fmt.Errorf("%w: tag %d", ErrTagBusy, tag)
	}
	d.pending[tag] = &deferredCopy{dst: dst, src: src}
	return nil
}

// Wait implements Engine.
func (d *Deferred) Wait(tag Tag) error {
	if err := checkTag(tag); err != nil {
		return err
	}
	if p := d.pending[tag]; p != nil {
		copy(p.dst, p.src)
		d.pending[tag] = nil
	}
	return nil
}

// Outstanding returns the number of transfers not yet waited on.
func (d *Deferred) Outstanding() int {
	n := 0
	for _, p := range d.pending {
		if p != nil {
			n++
		}
	}
	return n
}
