// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/crossattn/internal/nn"
	"github.com/born-ml/crossattn/tensor"
	"golang.org/x/exp/rand"
)

// Errors

// Sentinel errors for errors.Is checks.
var (
	ErrConfig = nn.ErrConfig
	ErrShape  = nn.ErrShape
)

// ConfigError reports an invalid construction or call parameter.
type ConfigError = nn.ConfigError

// ShapeError reports tensors whose shapes cannot be combined.
type ShapeError = nn.ShapeError

// Attention

// Conventional layer sizes used by DefaultConfig.
const (
	DefaultHeads        = nn.DefaultHeads
	DefaultDimHead      = nn.DefaultDimHead
	DefaultLayerNormEps = nn.DefaultLayerNormEps
)

// Config configures a BidirectionalCrossAttention layer.
type Config = nn.Config

// DefaultConfig returns a configuration for a dim-wide sequence with
// DefaultHeads heads of DefaultDimHead width.
func DefaultConfig(dim int) Config {
	return nn.DefaultConfig(dim)
}

// ForwardOptions controls a single Forward call.
type ForwardOptions = nn.ForwardOptions

// Output holds the results of a Forward call.
type Output[B tensor.Backend] = nn.Output[B]

// Params groups every learned component of the attention layer.
type Params[B tensor.Backend] = nn.Params[B]

// BidirectionalCrossAttention attends two sequences to each other through a
// single shared similarity matrix.
type BidirectionalCrossAttention[B tensor.Backend] = nn.BidirectionalCrossAttention[B]

// NewBidirectionalCrossAttention validates cfg, applies defaults and builds a
// layer with weights drawn from cfg.Seed.
//
// Example:
//
//	backend := cpu.New()
//	layer, err := nn.NewBidirectionalCrossAttention(nn.Config{Dim: 512, ContextDim: 386, Heads: 8, DimHead: 64}, backend)
func NewBidirectionalCrossAttention[B tensor.Backend](cfg Config, backend B) (*BidirectionalCrossAttention[B], error) {
	return nn.NewBidirectionalCrossAttention(cfg, backend)
}

// Building blocks

// SplitHeads reshapes [batch, n, heads*dimHead] into [batch, heads, n, dimHead].
func SplitHeads[B tensor.Backend](t *tensor.Tensor[float32, B], heads int) (*tensor.Tensor[float32, B], error) {
	return nn.SplitHeads(t, heads)
}

// MergeHeads reshapes [batch, heads, n, dimHead] into [batch, n, heads*dimHead].
func MergeHeads[B tensor.Backend](t *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	return nn.MergeHeads(t)
}

// Similarity computes qk @ ctxQK^T / sqrt(dim_head) per batch and head.
func Similarity[B tensor.Backend](qk, ctxQK *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	return nn.Similarity(qk, ctxQK)
}

// DualSoftmax returns softmax(sim, -1) and softmax(sim, -2).
func DualSoftmax[B tensor.Backend](sim *tensor.Tensor[float32, B]) (attn, ctxAttn *tensor.Tensor[float32, B]) {
	return nn.DualSoftmax(sim)
}

// AggregateValues returns attn @ ctxV and ctxAttn^T @ v.
func AggregateValues[B tensor.Backend](attn, ctxAttn, v, ctxV *tensor.Tensor[float32, B]) (out, ctxOut *tensor.Tensor[float32, B], err error) {
	return nn.AggregateValues(attn, ctxAttn, v, ctxV)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier initialization drawn from rng.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(784, 128, true, backend, rand.New(rand.NewSource(0)))
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, useBias bool, backend B, rng *rand.Rand) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, useBias, backend, rng)
}

// LayerNorm normalizes the last axis and applies a learned scale and shift.
type LayerNorm[B tensor.Backend] = nn.LayerNorm[B]

// NewLayerNorm creates a LayerNorm over the last axis of width normalizedShape.
func NewLayerNorm[B tensor.Backend](normalizedShape int, epsilon float32, backend B) *LayerNorm[B] {
	return nn.NewLayerNorm(normalizedShape, epsilon, backend)
}

// TalkingHeads mixes attention weights across heads.
type TalkingHeads[B tensor.Backend] = nn.TalkingHeads[B]

// NewTalkingHeads creates a head mixer with Xavier-initialized weights.
func NewTalkingHeads[B tensor.Backend](heads int, backend B, rng *rand.Rand) *TalkingHeads[B] {
	return nn.NewTalkingHeads(heads, backend, rng)
}

// Dropout zeroes elements during training with a per-call random source.
type Dropout[B tensor.Backend] = nn.Dropout[B]

// NewDropout creates a dropout layer with the given rate in [0, 1].
func NewDropout[B tensor.Backend](rate float64, backend B) *Dropout[B] {
	return nn.NewDropout(rate, backend)
}

// Identity returns its input unchanged.
type Identity[B tensor.Backend] = nn.Identity[B]

// Initialization

// Xavier creates a tensor with Xavier/Glorot uniform initialization drawn from rng.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B, rng *rand.Rand) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend, rng)
}

// Zeros creates a tensor filled with zeros.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Zeros(shape, backend)
}

// Ones creates a tensor filled with ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Ones(shape, backend)
}
