// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe dense tensors for crossattn.
//
// # Overview
//
// This package provides:
//   - Generic type-safe tensors (Tensor[T, B]) over float32 and float64
//   - NumPy-style broadcasting for element-wise operations
//   - Batched matrix multiplication over leading axes
//   - Seeded random creation through an explicit *rand.Rand
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/crossattn/backend/cpu"
//	    "github.com/born-ml/crossattn/tensor"
//	    "golang.org/x/exp/rand"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    rng := rand.New(rand.NewSource(0))
//
//	    x := tensor.Randn[float32](tensor.Shape{2, 3, 4}, backend, rng)
//	    w := tensor.Randn[float32](tensor.Shape{2, 4, 5}, backend, rng)
//	    y := x.BatchMatMul(w) // [2, 3, 5]
//	    p := y.Softmax(-1)    // rows sum to 1
//	}
//
// # Memory
//
// Tensors are contiguous row-major buffers. Every operation allocates a new
// result and never modifies its operands, so tensors may be shared freely
// between goroutines as long as nobody writes through Data or Set.
package tensor
