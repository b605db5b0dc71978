package cpu

import (
	"testing"

	"github.com/born-ml/crossattn/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// naiveBatchMatMul is the triple loop reference for [batch, m, k] @ [batch, k, n].
func naiveBatchMatMul(a, b []float32, batch, m, k, n int) []float32 {
	c := make([]float32, batch*m*n)
	for bb := 0; bb < batch; bb++ {
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				var sum float32
				for kk := 0; kk < k; kk++ {
					sum += a[bb*m*k+i*k+kk] * b[bb*k*n+kk*n+j]
				}
				c[bb*m*n+i*n+j] = sum
			}
		}
	}
	return c
}

func TestBatchMatMul_3D_Basic(t *testing.T) {
	for name, backend := range backends() {
		t.Run(name, func(t *testing.T) {
			a := rawFrom(t, tensor.Shape{2, 3, 4}, seq(24, 1))
			b := rawFrom(t, tensor.Shape{2, 4, 5}, seq(40, 1))

			result := backend.BatchMatMul(a, b)

			assert.Equal(t, tensor.Shape{2, 3, 5}, result.Shape())
			assert.Equal(t, tensor.Float32, result.DType())
			assert.InDeltaSlice(t, naiveBatchMatMul(seq(24, 1), seq(40, 1), 2, 3, 4, 5), result.AsFloat32(), 1e-3)
		})
	}
}

// Multi-head attention layout: [B, H, S, D] @ [B, H, D, S'].
func TestBatchMatMul_4D_MultiHead(t *testing.T) {
	for name, backend := range backends() {
		t.Run(name, func(t *testing.T) {
			aData := make([]float32, 2*4*3*5)
			bData := make([]float32, 2*4*5*6)
			for i := range aData {
				aData[i] = float32(i%7) - 3
			}
			for i := range bData {
				bData[i] = float32(i%5) * 0.5
			}

			a := rawFrom(t, tensor.Shape{2, 4, 3, 5}, aData)
			b := rawFrom(t, tensor.Shape{2, 4, 5, 6}, bData)

			result := backend.BatchMatMul(a, b)

			assert.Equal(t, tensor.Shape{2, 4, 3, 6}, result.Shape())
			assert.InDeltaSlice(t, naiveBatchMatMul(aData, bData, 8, 3, 5, 6), result.AsFloat32(), 1e-4)
		})
	}
}

func TestBatchMatMul_Panics(t *testing.T) {
	backend := New()

	tests := []struct {
		name   string
		aShape tensor.Shape
		bShape tensor.Shape
	}{
		{"2D input", tensor.Shape{3, 4}, tensor.Shape{4, 5}},
		{"rank mismatch", tensor.Shape{2, 3, 4}, tensor.Shape{1, 2, 4, 5}},
		{"inner dim mismatch", tensor.Shape{2, 3, 4}, tensor.Shape{2, 5, 6}},
		{"batch dim mismatch", tensor.Shape{2, 3, 4}, tensor.Shape{3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := rawFrom(t, tt.aShape, make([]float32, tt.aShape.NumElements()))
			b := rawFrom(t, tt.bShape, make([]float32, tt.bShape.NumElements()))
			assert.Panics(t, func() { backend.BatchMatMul(a, b) })
		})
	}
}

func TestBatchMatMul_Float64(t *testing.T) {
	backend := New()

	a, err := tensor.NewRaw(tensor.Shape{1, 2, 2}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	b, err := tensor.NewRaw(tensor.Shape{1, 2, 2}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	copy(a.AsFloat64(), []float64{1, 2, 3, 4})
	copy(b.AsFloat64(), []float64{5, 6, 7, 8})

	result := backend.BatchMatMul(a, b)

	assert.Equal(t, []float64{19, 22, 43, 50}, result.AsFloat64())
}

func TestMatMul_2D(t *testing.T) {
	backend := New()

	a := rawFrom(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	b := rawFrom(t, tensor.Shape{3, 2}, []float32{7, 8, 9, 10, 11, 12})

	result := backend.MatMul(a, b)

	assert.Equal(t, tensor.Shape{2, 2}, result.Shape())
	assert.Equal(t, []float32{58, 64, 139, 154}, result.AsFloat32())

	assert.Panics(t, func() { backend.MatMul(a, a) })
}
