package nn

import (
	"fmt"

	"github.com/born-ml/crossattn/internal/tensor"
	"golang.org/x/exp/rand"
)

// TalkingHeads mixes attention weights across heads with a learned
// [heads, heads] matrix and no bias:
//
//	out[b,g,i,j] = Σ_h W[g,h] · attn[b,h,i,j]
//
// This is a 1x1 convolution that treats heads as channels and the two
// sequence axes as spatial dimensions.
type TalkingHeads[B tensor.Backend] struct {
	heads   int
	weight  *Parameter[B] // [heads_out, heads_in]
	backend B
}

// NewTalkingHeads creates a head mixer with Xavier-initialized weights.
func NewTalkingHeads[B tensor.Backend](heads int, backend B, rng *rand.Rand) *TalkingHeads[B] {
	return &TalkingHeads[B]{
		heads:   heads,
		weight:  NewParameter("weight", Xavier(heads, heads, tensor.Shape{heads, heads}, backend, rng)),
		backend: backend,
	}
}

// Forward mixes a [batch, heads, seq_len, ctx_len] tensor along the head axis.
// Panics if the head axis does not match.
func (t *TalkingHeads[B]) Forward(attn *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := attn.Shape()
	if len(shape) != 4 || shape[1] != t.heads {
		panic(fmt.Sprintf("TalkingHeads.Forward: expected [batch, %d, i, j], got %v", t.heads, shape))
	}
	batch, i, j := shape[0], shape[2], shape[3]

	// Heads to the front: [h, b*i*j]
	flat := attn.Transpose(1, 0, 2, 3).Reshape(t.heads, batch*i*j)

	// [g, h] @ [h, b*i*j] = [g, b*i*j]
	mixed := t.weight.Tensor().MatMul(flat)

	return mixed.Reshape(t.heads, batch, i, j).Transpose(1, 0, 2, 3)
}

// Parameters returns the mixing weight.
func (t *TalkingHeads[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{t.weight}
}

// Weight returns the mixing weight parameter.
func (t *TalkingHeads[B]) Weight() *Parameter[B] {
	return t.weight
}
