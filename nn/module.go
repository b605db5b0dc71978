// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/crossattn/internal/nn"
	"github.com/born-ml/crossattn/tensor"
)

// Module is the base interface for single-input neural network components.
//
// Every module must implement:
//   - Forward: Compute output from input
//   - Parameters: Return all learned parameters
//
// Linear, LayerNorm, TalkingHeads and Identity are modules. The full
// attention layer takes two inputs and options, so it exposes its own
// Forward plus StateDict/LoadStateDict instead.
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] = nn.Module[B]

// Normalizer is the prenorm slot of the attention layer: LayerNorm or Identity.
type Normalizer[B tensor.Backend] = nn.Normalizer[B]

// HeadMixer is the head mixing slot of the attention layer: TalkingHeads or Identity.
type HeadMixer[B tensor.Backend] = nn.HeadMixer[B]

// Parameter represents a named learned tensor.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}
