package assets

import (
	"context"

	"github.com/milk9111/brawler/ecs/component"
)

// ClipFuture is the pending result of an asynchronous clip load. The spawn
// path polls it once per tick with Poll and never blocks.
type ClipFuture struct {
	done chan struct{}
	set  *component.AnimationSet
	err  error
}

// LoadClipSetAsync starts loading a clip set on its own goroutine.
func LoadClipSetAsync(name string) *ClipFuture {
	return Go(func() (*component.AnimationSet, error) {
		return LoadClipSet(name)
	})
}

// Go runs load on a new goroutine and returns its future.
func Go(load func() (*component.AnimationSet, error)) *ClipFuture {
	f := &ClipFuture{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.set, f.err = load()
	}()
	return f
}

// Resolved returns an already completed future.
func Resolved(set *component.AnimationSet, err error) *ClipFuture {
	f := &ClipFuture{done: make(chan struct{}), set: set, err: err}
	close(f.done)
	return f
}

// Poll reports whether the load finished, and its result if so.
func (f *ClipFuture) Poll() (*component.AnimationSet, bool, error) {
	if f == nil {
		return nil, true, ErrClipNotFound
	}
	select {
	case <-f.done:
		return f.set, true, f.err
	default:
		return nil, false, nil
	}
}

// Wait blocks until the load finishes or ctx is done.
func (f *ClipFuture) Wait(ctx context.Context) (*component.AnimationSet, error) {
	if f == nil {
		return nil, ErrClipNotFound
	}
	select {
	case <-f.done:
		return f.set, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
