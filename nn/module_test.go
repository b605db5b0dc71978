// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"errors"
	"testing"

	"github.com/born-ml/crossattn/backend/cpu"
	"github.com/born-ml/crossattn/nn"
	"github.com/born-ml/crossattn/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// TestModuleInterface verifies that concrete types implement Module interface.
func TestModuleInterface(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(0))

	tests := []struct {
		name   string
		module nn.Module[*cpu.Backend]
		input  tensor.Shape
	}{
		{"Linear", nn.NewLinear(10, 5, true, backend, rng), tensor.Shape{2, 10}},
		{"LayerNorm", nn.NewLayerNorm(10, 1e-3, backend), tensor.Shape{2, 3, 10}},
		{"TalkingHeads", nn.NewTalkingHeads(3, backend, rng), tensor.Shape{1, 3, 2, 4}},
		{"Identity", nn.Identity[*cpu.Backend]{}, tensor.Shape{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tensor.Randn[float32](tt.input, backend, rng)
			out := tt.module.Forward(input)
			require.NotNil(t, out)
			for _, p := range tt.module.Parameters() {
				assert.NotEmpty(t, p.Name())
			}
		})
	}
}

// TestBidirectionalCrossAttention exercises the public constructor and call surface.
func TestBidirectionalCrossAttention(t *testing.T) {
	backend := cpu.New()
	layer, err := nn.NewBidirectionalCrossAttention(nn.Config{Dim: 8, ContextDim: 6, Heads: 2, DimHead: 4}, backend)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	x := tensor.Randn[float32](tensor.Shape{2, 3, 8}, backend, rng)
	ctx := tensor.Randn[float32](tensor.Shape{2, 5, 6}, backend, rng)

	out, err := layer.Forward(x, ctx, nn.ForwardOptions{ReturnAttn: true})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3, 8}, out.Sequence.Shape())
	assert.Equal(t, tensor.Shape{2, 5, 6}, out.Context.Shape())
	assert.Equal(t, tensor.Shape{2, 2, 3, 5}, out.Attn.Shape())

	_, err = layer.Forward(ctx, x, nn.ForwardOptions{})
	assert.True(t, errors.Is(err, nn.ErrShape))

	_, err = nn.NewBidirectionalCrossAttention(nn.Config{Dim: 8, Heads: 2, DimHead: 4, Dropout: 2}, backend)
	var cfgErr *nn.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Dropout", cfgErr.Field)
}
