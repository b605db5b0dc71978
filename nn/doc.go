// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides bidirectional cross-attention and the layers it is
// built from.
//
// # Overview
//
// This package contains:
//   - BidirectionalCrossAttention: two sequences attend to each other
//     through one shared similarity matrix
//   - Layers: Linear, LayerNorm, TalkingHeads, Dropout, Identity
//   - Building blocks: SplitHeads, MergeHeads, Similarity, DualSoftmax,
//     AggregateValues
//   - Utilities: Module interface, Parameter, state dictionaries
//   - Errors: ConfigError, ShapeError and the ErrConfig/ErrShape sentinels
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/crossattn/backend/cpu"
//	    "github.com/born-ml/crossattn/nn"
//	    "github.com/born-ml/crossattn/tensor"
//	    "golang.org/x/exp/rand"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    layer, err := nn.NewBidirectionalCrossAttention(nn.Config{
//	        Dim:        512,
//	        ContextDim: 386,
//	        Heads:      8,
//	        DimHead:    64,
//	    }, backend)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    rng := rand.New(rand.NewSource(0))
//	    video := tensor.Randn[float32](tensor.Shape{1, 4096, 512}, backend, rng)
//	    audio := tensor.Randn[float32](tensor.Shape{1, 8192, 386}, backend, rng)
//
//	    out, err := layer.Forward(video, audio, nn.ForwardOptions{})
//	    // out.Sequence: [1, 4096, 512], out.Context: [1, 8192, 386]
//	}
//
// # Training Mode
//
// Attention dropout only runs when ForwardOptions.Training is set. The
// random source is supplied per call through ForwardOptions.RNG, so layers
// hold no RNG state and concurrent calls stay reproducible.
package nn
