package cpu

import (
	"math"
	"testing"

	"github.com/born-ml/crossattn/internal/tensor"
	"github.com/stretchr/testify/assert"
)

func TestSoftmax_LastDim(t *testing.T) {
	for name, backend := range backends() {
		t.Run(name, func(t *testing.T) {
			x := rawFrom(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 0, 0, 0})

			out := backend.Softmax(x, -1).AsFloat32()

			e1, e2, e3 := math.Exp(1), math.Exp(2), math.Exp(3)
			s := e1 + e2 + e3
			assert.InDeltaSlice(t, []float32{
				float32(e1 / s), float32(e2 / s), float32(e3 / s),
				1.0 / 3, 1.0 / 3, 1.0 / 3,
			}, out, 1e-6)
		})
	}
}

func TestSoftmax_SecondToLastDim(t *testing.T) {
	for name, backend := range backends() {
		t.Run(name, func(t *testing.T) {
			// [1, 2, 3, 4]: columns of each 3x4 matrix must sum to 1.
			data := make([]float32, 24)
			for i := range data {
				data[i] = float32(i%5) - float32(i%3)
			}
			x := rawFrom(t, tensor.Shape{1, 2, 3, 4}, data)

			out := backend.Softmax(x, -2).AsFloat32()

			for h := 0; h < 2; h++ {
				for j := 0; j < 4; j++ {
					var sum float32
					for i := 0; i < 3; i++ {
						sum += out[h*12+i*4+j]
					}
					assert.InDelta(t, 1.0, sum, 1e-6, "head %d column %d", h, j)
				}
			}
		})
	}
}

func TestSoftmax_StableForLargeInputs(t *testing.T) {
	backend := New()
	x := rawFrom(t, tensor.Shape{1, 3}, []float32{1000, 1000, 1000})

	out := backend.Softmax(x, 0).AsFloat32()
	assert.Equal(t, []float32{1, 1, 1}, out)

	out = backend.Softmax(x, 1).AsFloat32()
	for _, v := range out {
		assert.InDelta(t, 1.0/3, v, 1e-6)
	}
}

func TestSoftmax_PropagatesNaN(t *testing.T) {
	backend := New()
	nan := float32(math.NaN())
	x := rawFrom(t, tensor.Shape{2, 2}, []float32{nan, 1, 1, 1})

	out := backend.Softmax(x, -1).AsFloat32()

	assert.True(t, math.IsNaN(float64(out[0])))
	assert.True(t, math.IsNaN(float64(out[1])))
	assert.InDelta(t, 0.5, out[2], 1e-6)
	assert.InDelta(t, 0.5, out[3], 1e-6)
}

func TestSoftmax_InvalidDim(t *testing.T) {
	backend := New()
	x := rawFrom(t, tensor.Shape{2, 2}, seq(4, 0))
	assert.Panics(t, func() { backend.Softmax(x, 2) })
	assert.Panics(t, func() { backend.Softmax(x, -3) })
}
