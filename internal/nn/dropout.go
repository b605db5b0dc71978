package nn

import (
	"github.com/born-ml/crossattn/internal/tensor"
	"golang.org/x/exp/rand"
)

// Dropout zeroes elements with probability Rate during training and scales
// the survivors by 1/(1-Rate).
//
// The random source is passed per call, so a layer holds no RNG state and
// two calls with identically seeded sources produce identical masks.
// Rate 1 zeroes everything.
type Dropout[B tensor.Backend] struct {
	Rate    float64
	backend B
}

// NewDropout creates a dropout layer with the given rate in [0, 1].
func NewDropout[B tensor.Backend](rate float64, backend B) *Dropout[B] {
	return &Dropout[B]{Rate: rate, backend: backend}
}

// Active reports whether Forward would touch its input.
func (d *Dropout[B]) Active(training bool) bool {
	return training && d.Rate > 0
}

// Forward applies dropout. Outside training, or with Rate 0, x is returned
// unchanged and rng is not consulted. rng must be non-nil otherwise.
func (d *Dropout[B]) Forward(x *tensor.Tensor[float32, B], training bool, rng *rand.Rand) *tensor.Tensor[float32, B] {
	if !d.Active(training) {
		return x
	}

	mask := tensor.Zeros[float32](x.Shape(), d.backend)
	if d.Rate >= 1 {
		return x.Mul(mask)
	}

	scale := float32(1.0 / (1.0 - d.Rate))
	data := mask.Data()
	for i := range data {
		if rng.Float64() >= d.Rate {
			data[i] = scale
		}
	}
	return x.Mul(mask)
}
