// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - BLAS GEMM from gonum for matrix and batched matrix products
//   - Float32 and Float64 support
//   - NumPy-compatible broadcasting
//   - Numerically stable softmax along any axis
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/crossattn/backend/cpu"
//	    "github.com/born-ml/crossattn/nn"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    layer, err := nn.NewBidirectionalCrossAttention(nn.DefaultConfig(64), backend)
//	}
//
// # Performance
//
// Batched matrix products and softmax rows are split across workers by
// internal/parallel. The default worker count is the number of logical
// cores reported by cpuid. Use NewWithConfig(SequentialConfig()) to keep
// everything on one goroutine.
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each tensor operation
// is isolated and does not share mutable state.
package cpu
