package nn

import (
	"github.com/born-ml/crossattn/internal/tensor"
)

// Normalizer is applied to each input before projection.
// LayerNorm and Identity implement it.
type Normalizer[B tensor.Backend] interface {
	Module[B]
}

// HeadMixer recombines attention weights across the head axis.
// TalkingHeads and Identity implement it.
type HeadMixer[B tensor.Backend] interface {
	Module[B]
}

// Identity returns its input unchanged and owns no parameters.
type Identity[B tensor.Backend] struct{}

// Forward returns x.
func (Identity[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return x
}

// Parameters returns nil.
func (Identity[B]) Parameters() []*Parameter[B] {
	return nil
}
