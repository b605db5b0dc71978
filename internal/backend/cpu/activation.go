package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/crossattn/internal/parallel"
	"github.com/born-ml/crossattn/internal/tensor"
	"golang.org/x/exp/constraints"
)

// Softmax computes softmax along the specified dimension.
// Softmax(x_i) = exp(x_i - max) / sum(exp(x_j - max)) for all j in dimension.
//
// Each slice along dim is independent. NaN and Inf inputs are not
// special-cased and propagate into the slice they belong to.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	dim, err := tensor.NormalizeAxis(dim, len(shape))
	if err != nil {
		panic(fmt.Sprintf("softmax: %v", err))
	}

	result := cpu.newResult("softmax", shape, x.DType())

	switch x.DType() {
	case tensor.Float32:
		softmaxKernel(result.AsFloat32(), x.AsFloat32(), shape, dim, cpu.parallel)
	case tensor.Float64:
		softmaxKernel(result.AsFloat64(), x.AsFloat64(), shape, dim, cpu.parallel)
	default:
		panic(fmt.Sprintf("softmax: unsupported dtype %s (only float32/float64 supported)", x.DType()))
	}

	return result
}

func softmaxKernel[T constraints.Float](dst, src []T, shape tensor.Shape, dim int, cfg parallel.Config) {
	strides := shape.ComputeStrides()
	dimSize := shape[dim]
	dimStride := strides[dim]

	// A "row" is every combination of the non-reduced axes.
	numRows := shape.NumElements() / dimSize

	parallel.For(numRows, func(row int) {
		baseIdx := 0
		remaining := row
		for i := len(shape) - 1; i >= 0; i-- {
			if i == dim {
				continue
			}
			coord := remaining % shape[i]
			remaining /= shape[i]
			baseIdx += coord * strides[i]
		}

		maxVal := math.Inf(-1)
		for i := 0; i < dimSize; i++ {
			if v := float64(src[baseIdx+i*dimStride]); v > maxVal {
				maxVal = v
			}
		}

		var sum float64
		for i := 0; i < dimSize; i++ {
			idx := baseIdx + i*dimStride
			e := math.Exp(float64(src[idx]) - maxVal)
			dst[idx] = T(e)
			sum += e
		}

		for i := 0; i < dimSize; i++ {
			idx := baseIdx + i*dimStride
			dst[idx] = T(float64(dst[idx]) / sum)
		}
	}, cfg)
}
