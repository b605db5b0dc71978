package cpu

import (
	"fmt"

	"github.com/born-ml/crossattn/internal/tensor"
	"golang.org/x/exp/constraints"
)

// Reshape returns t viewed under a new shape of the same element count.
// The result shares t's buffer; backend outputs are never written after
// they are returned, so no copy is needed.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	view, err := t.WithShape(newShape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v -> %v: %v", t.Shape(), newShape, err))
	}
	return view
}

// Transpose transposes the tensor by permuting its dimensions.
// With no axes all dimensions are reversed.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}

	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	result := cpu.newResult("transpose", newShape, t.DType())

	switch t.DType() {
	case tensor.Float32:
		transposeKernel(result.AsFloat32(), t.AsFloat32(), shape, newShape, axes)
	case tensor.Float64:
		transposeKernel(result.AsFloat64(), t.AsFloat64(), shape, newShape, axes)
	default:
		panic(fmt.Sprintf("transpose: unsupported dtype %s", t.DType()))
	}

	return result
}

// transposeKernel writes dst[..., i_k, ...] = src[..., i_axes[k], ...].
func transposeKernel[T constraints.Float](dst, src []T, oldShape, newShape tensor.Shape, axes []int) {
	oldStrides := oldShape.ComputeStrides()
	newStrides := newShape.ComputeStrides()

	// srcStrides[k] is the step in src when output coordinate k increments.
	srcStrides := make([]int, len(axes))
	for k, ax := range axes {
		srcStrides[k] = oldStrides[ax]
	}

	for i := range dst {
		dst[i] = src[computeFlatIndex(i, newStrides, srcStrides)]
	}
}
