// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"fmt"

	"github.com/born-ml/crossattn/backend/cpu"
	"github.com/born-ml/crossattn/nn"
	"github.com/born-ml/crossattn/tensor"
	"golang.org/x/exp/rand"
)

func ExampleNewBidirectionalCrossAttention() {
	backend := cpu.New()
	layer, err := nn.NewBidirectionalCrossAttention(nn.Config{
		Dim:        16,
		ContextDim: 12,
		Heads:      4,
		DimHead:    8,
		Prenorm:    true,
	}, backend)
	if err != nil {
		fmt.Println(err)
		return
	}

	rng := rand.New(rand.NewSource(0))
	video := tensor.Randn[float32](tensor.Shape{1, 10, 16}, backend, rng)
	audio := tensor.Randn[float32](tensor.Shape{1, 20, 12}, backend, rng)

	out, err := layer.Forward(video, audio, nn.ForwardOptions{ReturnAttn: true})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(out.Sequence.Shape(), out.Context.Shape(), out.Attn.Shape())
	// Output: [1 10 16] [1 20 12] [1 4 10 20]
}
