package telemetry

import (
	"context"
)

// Iterator is a lazy, single-pass sequence.
type Iterator[T any] interface {
	// Next advances the iterator and returns true if there is another value
	// to read, false when the iteration is complete or if an error occurred.
	Next(context.Context) bool

	// Current returns the current value. If called after Next() returns false,
	// the behavior is undefined.
	Current() T

	// Error returns any error that occurred during iteration.
	// If Next() returns false, Error() should be checked to distinguish between
	// end of data and an error condition.
	Error() error

	// Close releases any resources associated with the iterator.
	Close() error
}

// SliceIterator iterates over samples held in memory.
type SliceIterator struct {
	samples []Sample
	pos     int
	err     error
}

// NewSliceIterator returns an iterator over samples. The slice is not copied.
func NewSliceIterator(samples []Sample) *SliceIterator {
	return &SliceIterator{samples: samples, pos: -1}
}

func (it *SliceIterator) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		it.err = err
		return false
	}
	if it.pos+1 >= len(it.samples) {
		it.pos = len(it.samples)
		return false
	}
	it.pos++
	return true
}

func (it *SliceIterator) Current() *Sample {
	if it.pos < 0 || it.pos >= len(it.samples) {
		return nil
	}
	return &it.samples[it.pos]
}

func (it *SliceIterator) Error() error {
	return it.err
}

func (it *SliceIterator) Close() error {
	it.pos = len(it.samples)
	return nil
}
