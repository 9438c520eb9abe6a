package dijkstra

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors returned by the Dijkstra implementation.
var (
	// ErrNoSource indicates that no source node was given.
	ErrNoSource = errors.New("dijkstra: source node not set")

	// ErrNilGraph indicates that a nil *segment.Graph was passed to Dijkstra.
	ErrNilGraph = errors.New("dijkstra: graph is nil")

	// ErrNodeNotFound indicates that the source or target node does not exist.
	ErrNodeNotFound = errors.New("dijkstra: node not found in graph")

	// ErrBadMaxDistance indicates a negative or NaN distance cap.
	ErrBadMaxDistance = errors.New("dijkstra: MaxDistance must be non-negative")

	// ErrBadInfThreshold indicates a non-positive impassable-edge threshold.
	ErrBadInfThreshold = errors.New("dijkstra: InfEdgeThreshold must be positive")

	// ErrNoPath indicates the target is unreachable from the source.
	ErrNoPath = errors.New("dijkstra: no path")
)

// Unreachable is the distance reported for nodes not reached.
var Unreachable = math.Inf(1)

// Options configures the behavior of the Dijkstra algorithm.
//
// Source           – starting node ID; must be set and present in the graph.
// ReturnPath       – if true, return the predecessor map; otherwise prev is nil.
// MaxDistance      – nodes farther than this are not explored. Default +Inf.
// InfEdgeThreshold – edges at least this long are impassable. Default +Inf.
type Options struct {
	Source           int
	ReturnPath       bool
	MaxDistance      float64
	InfEdgeThreshold float64
}

// Option represents a functional option for configuring Dijkstra.
type Option func(*Options)

// Source sets the starting node.
func Source(id int) Option {
	return func(o *Options) {
		o.Source = id
	}
}

// WithReturnPath enables the predecessor map in the result.
func WithReturnPath() Option {
	return func(o *Options) {
		o.ReturnPath = true
	}
}

// WithMaxDistance caps exploration. It panics on a negative or NaN value.
func WithMaxDistance(max float64) Option {
	if max < 0 || math.IsNaN(max) {
		panic(fmt.Sprintf("%s: %g", ErrBadMaxDistance, max))
	}

	return func(o *Options) {
		o.MaxDistance = max
	}
}

// WithInfEdgeThreshold makes edges of length ≥ threshold impassable.
// It panics on a non-positive or NaN value.
func WithInfEdgeThreshold(threshold float64) Option {
	if !(threshold > 0) {
		panic(fmt.Sprintf("%s: %g", ErrBadInfThreshold, threshold))
	}

	return func(o *Options) {
		o.InfEdgeThreshold = threshold
	}
}

// DefaultOptions returns Options with no source, no caps and no path.
func DefaultOptions() Options {
	return Options{
		Source:           -1,
		MaxDistance:      math.Inf(1),
		InfEdgeThreshold: math.Inf(1),
	}
}
