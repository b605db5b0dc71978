// Package nn implements the neural network layers behind bidirectional
// cross-attention.
//
// This package provides:
//   - Module interface: Base interface for single-input layers
//   - Parameter: Named learned tensors
//   - Linear: Fully connected layer (with or without bias)
//   - LayerNorm, TalkingHeads, Dropout and their Identity stand-ins
//   - Head split/merge, similarity, dual softmax and value aggregation
//   - BidirectionalCrossAttention: the full layer
//
// Design follows PyTorch's nn.Module, adapted for Go generics: every layer
// is parameterized by its compute backend B.
package nn

import (
	"github.com/born-ml/crossattn/internal/tensor"
)

// Module is the base interface for single-input neural network components.
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all learned parameters of this module.
	// Returns an empty slice for parameter-free modules such as Identity.
	Parameters() []*Parameter[B]
}
