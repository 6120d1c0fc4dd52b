// Package dfs defines visitation states, errors and options shared by the
// traversals.
package dfs

import (
	"context"
	"errors"
)

// VertexState represents the DFS visitation state of a vertex.
const (
	White = iota // White: the vertex has not been visited yet.
	Gray         // Gray: the vertex is in the recursion stack (visiting).
	Black        // Black: the vertex and all its descendants have been fully explored.
)

// ErrGraphNil is returned when a nil *core.Graph is passed to a traversal.
var ErrGraphNil = errors.New("dfs: graph is nil")

// Option configures optional behavior of a traversal.
type Option func(*Options)

// Options holds configurable parameters for a traversal.
type Options struct {
	// Ctx allows cancellation; defaults to context.Background().
	// It is checked once per discovered vertex.
	Ctx context.Context

	// OnVisit, if non-nil, is invoked when a vertex is first discovered.
	// Returning an error aborts the traversal with that error.
	OnVisit func(id string) error

	// MaxLoops, if > 0, caps the loops DetectCycles records. The walk still
	// runs to completion; loops past the cap are not materialized.
	MaxLoops int
}

// DefaultOptions returns Options with a background context and no hooks.
func DefaultOptions() Options {
	return Options{Ctx: context.Background()}
}

// WithContext sets the Context for the traversal.
// Passing a nil context has no effect (Background is retained).
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnVisit installs fn as a discovery hook.
func WithOnVisit(fn func(id string) error) Option {
	return func(o *Options) {
		o.OnVisit = fn
	}
}

// WithMaxLoops caps the number of recorded loops; n <= 0 means no cap.
func WithMaxLoops(n int) Option {
	return func(o *Options) {
		o.MaxLoops = n
	}
}

func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// visit runs the per-vertex checks: cancellation first, then the hook.
func (o *Options) visit(id string) error {
	if err := o.Ctx.Err(); err != nil {
		return err
	}
	if o.OnVisit != nil {
		return o.OnVisit(id)
	}
	return nil
}
