package transfer

import (
	"fmt"

	"github.com/hupe1980/fieldacc/layout"
)

// Sync completes every transfer at issue time.
// It keeps the tag bookkeeping of Async so contract violations still surface.
type Sync struct {
	busy [MaxTags]bool
}

// NewSync creates a Sync engine.
func NewSync() *Sync {
	return &Sync{}
}

// Get implements Engine.
func (s *Sync) Get(tag Tag, dst, src []layout.Record) error {
	return s.issue(tag, dst, src)
}

// Put implements Engine.
func (s *Sync) Put(tag Tag, dst, src []layout.Record) error {
	return s.issue(tag, dst, src)
}

func (s *Sync) issue(tag Tag, dst, src []layout.Record) error {
	if err := checkIssue(tag, dst, src); err != nil {
		return err
	}
	if s.busy[tag] {
		return fmt.Errorf("%w: tag %d", ErrTagBusy, tag)
	}
	s.busy[tag] = true
	copy(dst, src)
	return nil
}

// Wait implements Engine.
func (s *Sync) Wait(tag Tag) error {
	if err := checkTag(tag); err != nil {
		return err
	}
	s.busy[tag] = false
	return nil
}
