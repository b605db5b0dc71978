// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/crossattn/internal/backend/cpu"
	"github.com/born-ml/crossattn/internal/parallel"
	"github.com/born-ml/crossattn/tensor"
)

// Backend represents the CPU backend implementation.
//
// The CPU backend provides pure Go implementations of all tensor operations.
// Matrix products go through gonum's BLAS and independent slices run on a
// pool of goroutines.
type Backend = internalcpu.CPUBackend

// ParallelConfig controls how the backend spreads work across goroutines.
type ParallelConfig = parallel.Config

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend using one worker per logical core.
//
// Example:
//
//	import (
//	    "github.com/born-ml/crossattn/backend/cpu"
//	    "github.com/born-ml/crossattn/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
func NewWithConfig(cfg ParallelConfig) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// DefaultParallelConfig returns the configuration New uses.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// SequentialConfig returns a configuration that runs every kernel on the
// calling goroutine.
func SequentialConfig() ParallelConfig {
	return parallel.Sequential()
}
