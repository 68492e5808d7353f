package transfer

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/fieldacc/layout"
	"github.com/hupe1980/fieldacc/resource"
)

// Async runs every transfer on its own goroutine.
//
// An Async engine belongs to one pipeline; its methods must not be called
// concurrently.
type Async struct {
	ctx  context.Context
	rc   *resource.Controller
	wg   sync.WaitGroup
	tags [MaxTags]chan error
}

// AsyncOption configures an Async engine.
type AsyncOption func(*Async)

// WithController throttles transfers through the controller's bandwidth limit.
func WithController(rc *resource.Controller) AsyncOption {
	return func(a *Async) {
		a.rc = rc
	}
}

// NewAsync creates an Async engine. ctx bounds throttled transfers only.
func NewAsync(ctx context.Context, optFns ...AsyncOption) *Async {
	a := &Async{ctx: ctx}
	for _, fn := range optFns {
		fn(a)
	}
	return a
}

// Get implements Engine.
func (a *Async) Get(tag Tag, dst, src []layout.Record) error {
	return a.issue(tag, dst, src)
}

// Put implements Engine.
func (a *Async) Put(tag Tag, dst, src []layout.Record) error {
	return a.issue(tag, dst, src)
}

func (a *Async) issue(tag Tag, dst, src []layout.Record) error {
	if err := checkIssue(tag, dst, src); err != nil {
		return err
	}
	if a.tags[tag] != nil {
		return fmt.Errorf("%w: tag %d", ErrTagBusy, tag)
	}

	done := make(chan error, 1)
	a.tags[tag] = done
	a.wg.Add(1)

	go func() {
		defer a.wg.Done()
		if err := a.rc.AcquireTransfer(a.ctx, len(src)*layout.RecordBytes); err != nil {
			done <- fmt.Errorf("transfer: tag %d: %w", tag, err)
			return
		}
		copy(dst, src)
		done <- nil
	}()

	return nil
}

// Wait implements Engine.
func (a *Async) Wait(tag Tag) error {
	if err := checkTag(tag); err != nil {
		return err
	}
	done := a.tags[tag]
	if done == nil {
		return nil
	}
	a.tags[tag] = nil
	return <-done
}

// Close waits for every outstanding transfer, including ones never waited on.
func (a *Async) Close() error {
	var firstErr error
	for tag := range a.tags {
		if err := a.Wait(Tag(tag)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.wg.Wait()
	return firstErr
}
