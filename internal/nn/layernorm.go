package nn

import (
	"github.com/born-ml/crossattn/internal/tensor"
)

// LayerNorm applies Layer Normalization over an input tensor along the last dimension.
//
// Formula: Y = gamma * (X - mean(X)) / sqrt(var(X) + eps) + beta
//
// Where:
//   - gamma is the learnable scale parameter [d_model]
//   - beta is the learnable shift parameter [d_model]
//   - mean and variance are computed along the last dimension
//   - eps is a small value to avoid division by zero
//
// Example:
//
//	layernorm := nn.NewLayerNorm(768, 1e-3, backend)
//	output := layernorm.Forward(hiddenStates)  // [..., 768] -> [..., 768]
type LayerNorm[B tensor.Backend] struct {
	Gamma   *Parameter[B] // learnable scale [d_model]
	Beta    *Parameter[B] // learnable shift [d_model]
	Epsilon float32       // numerical stability constant
	backend B
}

// NewLayerNorm creates a new LayerNorm layer.
//
// The gamma parameter is initialized to ones, beta to zeros.
func NewLayerNorm[B tensor.Backend](normalizedShape int, epsilon float32, backend B) *LayerNorm[B] {
	return &LayerNorm[B]{
		Gamma:   NewParameter("gamma", Ones(tensor.Shape{normalizedShape}, backend)),
		Beta:    NewParameter("beta", Zeros(tensor.Shape{normalizedShape}, backend)),
		Epsilon: epsilon,
		backend: backend,
	}
}

// Forward applies LayerNorm to the input tensor.
//
// Shapes:
//   - input: [..., d_model]
//   - output: [..., d_model]
//
// Algorithm:
//  1. mean = mean(x) along last dimension (keepdim)
//  2. x_centered = x - mean
//  3. variance = mean(x_centered^2) along last dimension
//  4. x_norm = x_centered * rsqrt(variance + epsilon)
//  5. output = gamma * x_norm + beta (broadcast over leading axes)
func (l *LayerNorm[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	mean := x.MeanDim(-1, true)
	xCentered := x.Sub(mean)
	variance := xCentered.Mul(xCentered).MeanDim(-1, true)
	rsqrt := variance.AddScalar(l.Epsilon).Rsqrt()
	xNorm := xCentered.Mul(rsqrt)

	return xNorm.Mul(l.Gamma.Tensor()).Add(l.Beta.Tensor())
}

// Parameters returns the learnable parameters (gamma and beta).
func (l *LayerNorm[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.Gamma, l.Beta}
}
