package cpu

import (
	"testing"

	"github.com/born-ml/crossattn/internal/parallel"
	"github.com/born-ml/crossattn/internal/tensor"
	"github.com/stretchr/testify/require"
)

// rawFrom builds a float32 RawTensor with the given shape and data.
func rawFrom(t *testing.T, shape tensor.Shape, data []float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	require.Len(t, data, shape.NumElements())
	copy(raw.AsFloat32(), data)
	return raw
}

// seq returns [start, start+1, ..., start+n-1] as float32.
func seq(n int, start float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = start + float32(i)
	}
	return out
}

// backends returns a sequential and a forced-parallel backend so kernels
// are checked on both code paths.
func backends() map[string]*CPUBackend {
	return map[string]*CPUBackend{
		"sequential": NewWithConfig(parallel.Sequential()),
		"parallel":   NewWithConfig(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}),
	}
}
