package transfer

import (
	"errors"
	"fmt"

	"github.com/hupe1980/fieldacc/layout"
)

// MaxReplicas bounds the number of replica arrays a pipeline can fetch from.
const MaxReplicas = 11

// MaxTags is the tag budget: one per replica plus the output tag.
const MaxTags = MaxReplicas + 1

var (
	// ErrTagBusy is returned when a transfer is issued on a tag whose previous
	// transfer has not been waited on.
	ErrTagBusy = errors.New("transfer: tag has an outstanding transfer")

	// ErrInvalidTag is returned for tags outside the tag budget.
	ErrInvalidTag = errors.New("transfer: tag out of range")

	// ErrShortBuffer is returned when dst and src lengths differ.
	ErrShortBuffer = errors.New("transfer: buffer length mismatch")
)

// Tag identifies a transfer's completion signal.
type Tag uint8

// OutputTag returns the tag reserved for stores when nArray replicas are fetched.
func OutputTag(nArray int) Tag { return Tag(nArray) }

// Kind distinguishes fetches from stores.
type Kind uint8

const (
	// Get copies a block from the accumulator array into a local buffer.
	Get Kind = iota
	// Put copies a local buffer back into the accumulator array.
	Put
)

func (k Kind) String() string {
	if k == Put {
		return "put"
	}
	return "get"
}

// Engine issues tagged asynchronous block transfers.
//
// Get and Put return immediately. The buffers passed to them must not be
// touched until Wait(tag) has returned.
type Engine interface {
	// Get starts copying src (shared array) into dst (local buffer).
	Get(tag Tag, dst, src []layout.Record) error
	// Put starts copying src (local buffer) into dst (shared array).
	Put(tag Tag, dst, src []layout.Record) error
	// Wait blocks until the transfer on tag completes and returns its error.
	// Waiting on an idle tag returns nil immediately.
	Wait(tag Tag) error
}

func checkIssue(tag Tag, dst, src []layout.Record) error {
	if tag >= MaxTags {
		return fmt.Errorf("%w: %d >= %d", ErrInvalidTag, tag, MaxTags)
	}
	if len(dst) != len(src) {
		return fmt.Errorf("%w: dst %d records, src %d records", ErrShortBuffer, len(dst), len(src))
	}
	return nil
}

func checkTag(tag Tag) error {
	if tag >= MaxTags {
		return fmt.Errorf("%w: %d >= %d", ErrInvalidTag, tag, MaxTags)
	}
	return nil
}
