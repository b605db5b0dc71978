package cpu

import (
	"testing"

	"github.com/born-ml/crossattn/internal/tensor"
	"github.com/stretchr/testify/assert"
)

func TestTranspose_2D(t *testing.T) {
	backend := New()
	x := rawFrom(t, tensor.Shape{2, 3}, seq(6, 0))

	out := backend.Transpose(x)

	assert.Equal(t, tensor.Shape{3, 2}, out.Shape())
	assert.Equal(t, []float32{0, 3, 1, 4, 2, 5}, out.AsFloat32())
}

func TestTranspose_HeadSplitAxes(t *testing.T) {
	backend := New()
	// [b=1, n=2, h=3, d=2] -> [b, h, n, d]
	x := rawFrom(t, tensor.Shape{1, 2, 3, 2}, seq(12, 0))

	out := backend.Transpose(x, 0, 2, 1, 3)

	assert.Equal(t, tensor.Shape{1, 3, 2, 2}, out.Shape())
	assert.Equal(t, []float32{
		0, 1, 6, 7, // head 0
		2, 3, 8, 9, // head 1
		4, 5, 10, 11, // head 2
	}, out.AsFloat32())

	back := backend.Transpose(out, 0, 2, 1, 3)
	assert.Equal(t, x.AsFloat32(), back.AsFloat32())
}

func TestTranspose_InvalidAxes(t *testing.T) {
	backend := New()
	x := rawFrom(t, tensor.Shape{2, 3}, seq(6, 0))

	assert.Panics(t, func() { backend.Transpose(x, 0) })
	assert.Panics(t, func() { backend.Transpose(x, 0, 0) })
	assert.Panics(t, func() { backend.Transpose(x, 0, 2) })
}

func TestReshape(t *testing.T) {
	backend := New()
	x := rawFrom(t, tensor.Shape{2, 6}, seq(12, 0))

	out := backend.Reshape(x, tensor.Shape{3, 4})
	assert.Equal(t, tensor.Shape{3, 4}, out.Shape())
	assert.Equal(t, x.AsFloat32(), out.AsFloat32())

	// Zero-copy view over the same buffer.
	assert.Same(t, &x.AsFloat32()[0], &out.AsFloat32()[0])
	assert.Equal(t, tensor.Shape{2, 6}, x.Shape())

	assert.Panics(t, func() { backend.Reshape(x, tensor.Shape{5, 2}) })
}
