package cpu

import (
	"fmt"

	"github.com/born-ml/crossattn/internal/tensor"
	"golang.org/x/exp/constraints"
)

// SumDim sums tensor elements along the specified dimension.
//
// Parameters:
//   - dim: dimension to reduce (supports negative indexing: -1 = last dim)
//   - keepDim: if true, keep the reduced dimension with size 1; if false, remove it
//
// Example:
//
//	y := backend.SumDim(x, -1, true)   // [2, 3, 4] -> [2, 3, 1]
//	z := backend.SumDim(x, -1, false)  // [2, 3, 4] -> [2, 3]
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("sumdim", x, dim, keepDim, false)
}

// MeanDim computes the mean of tensor elements along the specified dimension.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("meandim", x, dim, keepDim, true)
}

func (cpu *CPUBackend) reduceDim(op string, x *tensor.RawTensor, dim int, keepDim, mean bool) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	dim, err := tensor.NormalizeAxis(dim, ndim)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	var outShape tensor.Shape
	if keepDim {
		outShape = shape.Clone()
		outShape[dim] = 1
	} else {
		outShape = make(tensor.Shape, 0, ndim-1)
		for i := 0; i < ndim; i++ {
			if i != dim {
				outShape = append(outShape, shape[i])
			}
		}
	}

	result := cpu.newResult(op, outShape, x.DType())

	switch x.DType() {
	case tensor.Float32:
		reduceDimKernel(result.AsFloat32(), x.AsFloat32(), shape, dim, mean)
	case tensor.Float64:
		reduceDimKernel(result.AsFloat64(), x.AsFloat64(), shape, dim, mean)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32/float64 supported)", op, x.DType()))
	}

	return result
}

// reduceDimKernel views src as [outer, dimSize, inner] and reduces the middle axis.
func reduceDimKernel[T constraints.Float](dst, src []T, shape tensor.Shape, dim int, mean bool) {
	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	inner := 1
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	dimSize := shape[dim]

	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			var sum float64
			for d := 0; d < dimSize; d++ {
				sum += float64(src[(o*dimSize+d)*inner+in])
			}
			if mean {
				sum /= float64(dimSize)
			}
			dst[o*inner+in] = T(sum)
		}
	}
}
