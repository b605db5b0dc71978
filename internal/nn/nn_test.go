package nn_test

import (
	"errors"
	"math"
	"testing"

	"github.com/born-ml/crossattn/internal/backend/cpu"
	"github.com/born-ml/crossattn/internal/nn"
	"github.com/born-ml/crossattn/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// TestParameter tests Parameter creation and methods.
func TestParameter(t *testing.T) {
	backend := cpu.New()

	data, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	require.NoError(t, err)
	param := nn.NewParameter("test_param", data)

	assert.Equal(t, "test_param", param.Name())
	assert.Same(t, data, param.Tensor())
}

// TestLinear_Creation tests parameter shapes with and without bias.
func TestLinear_Creation(t *testing.T) {
	backend := cpu.New()

	layer := nn.NewLinear(4, 3, true, backend, newRNG(1))
	assert.Equal(t, 4, layer.InFeatures())
	assert.Equal(t, 3, layer.OutFeatures())
	assert.Equal(t, tensor.Shape{3, 4}, layer.Weight().Tensor().Shape())
	require.NotNil(t, layer.Bias())
	assert.Equal(t, tensor.Shape{3}, layer.Bias().Tensor().Shape())
	assert.Len(t, layer.Parameters(), 2)

	noBias := nn.NewLinear(4, 3, false, backend, newRNG(1))
	assert.Nil(t, noBias.Bias())
	assert.Len(t, noBias.Parameters(), 1)
	assert.NotContains(t, noBias.StateDict(), "bias")
}

// TestLinear_Forward tests y = x @ W.T + b on known weights.
func TestLinear_Forward(t *testing.T) {
	backend := cpu.New()
	layer := nn.NewLinear(2, 2, true, backend, newRNG(0))

	// Weight: [[1, 2], [3, 4]] (out=2, in=2), bias: [0.5, 1.0]
	copy(layer.Weight().Tensor().Data(), []float32{1, 2, 3, 4})
	copy(layer.Bias().Tensor().Data(), []float32{0.5, 1.0})

	input, err := tensor.FromSlice([]float32{1, 1}, tensor.Shape{1, 2}, backend)
	require.NoError(t, err)

	output := layer.Forward(input)

	// [1, 1] @ [[1, 3], [2, 4]] = [3, 7]; + bias = [3.5, 8.0]
	assert.Equal(t, tensor.Shape{1, 2}, output.Shape())
	assert.InDeltaSlice(t, []float32{3.5, 8.0}, output.Data(), 1e-5)
}

// TestLinear_Forward3D tests that leading axes are preserved.
func TestLinear_Forward3D(t *testing.T) {
	backend := cpu.New()
	rng := newRNG(2)
	layer := nn.NewLinear(3, 5, true, backend, rng)

	input := tensor.Randn[float32](tensor.Shape{2, 4, 3}, backend, rng)
	output := layer.Forward(input)
	assert.Equal(t, tensor.Shape{2, 4, 5}, output.Shape())

	// Rows must match the 2D computation.
	flat := layer.Forward(input.Reshape(8, 3))
	assert.Equal(t, flat.Data(), output.Data())
}

// TestLinear_ForwardWrongWidth tests the panic on a mismatched feature axis.
func TestLinear_ForwardWrongWidth(t *testing.T) {
	backend := cpu.New()
	layer := nn.NewLinear(3, 2, false, backend, newRNG(0))
	input := tensor.Zeros[float32](tensor.Shape{2, 4}, backend)

	assert.Panics(t, func() { layer.Forward(input) })
}

// TestLinear_StateDict tests a round trip between two layers.
func TestLinear_StateDict(t *testing.T) {
	backend := cpu.New()
	src := nn.NewLinear(3, 2, true, backend, newRNG(10))
	dst := nn.NewLinear(3, 2, true, backend, newRNG(20))

	require.NotEqual(t, src.Weight().Tensor().Data(), dst.Weight().Tensor().Data())
	require.NoError(t, dst.LoadStateDict(src.StateDict()))
	assert.Equal(t, src.Weight().Tensor().Data(), dst.Weight().Tensor().Data())
	assert.Equal(t, src.Bias().Tensor().Data(), dst.Bias().Tensor().Data())

	// Shape mismatch reports a ShapeError.
	bad := nn.NewLinear(4, 2, true, backend, newRNG(0))
	err := dst.LoadStateDict(bad.StateDict())
	require.Error(t, err)
	assert.True(t, errors.Is(err, nn.ErrShape))

	// Missing keys are rejected.
	assert.Error(t, dst.LoadStateDict(map[string]*tensor.RawTensor{}))
}

// TestInitialization tests Xavier bounds and seeded reproducibility.
func TestInitialization(t *testing.T) {
	backend := cpu.New()

	// Xavier initialization for fanIn=100, fanOut=50
	w := nn.Xavier(100, 50, tensor.Shape{50, 100}, backend, newRNG(7))

	// Expected bound: sqrt(6 / (100 + 50)) ≈ 0.2
	expectedBound := math.Sqrt(6.0 / 150.0)

	for i, val := range w.Data() {
		require.LessOrEqual(t, math.Abs(float64(val)), expectedBound, "value %d", i)
	}

	again := nn.Xavier(100, 50, tensor.Shape{50, 100}, backend, newRNG(7))
	assert.Equal(t, w.Data(), again.Data())
}

// TestIdentity tests that Identity is a no-op for both capabilities.
func TestIdentity(t *testing.T) {
	backend := cpu.New()
	x := tensor.Randn[float32](tensor.Shape{2, 3, 4}, backend, newRNG(3))

	var norm nn.Normalizer[*cpu.CPUBackend] = nn.Identity[*cpu.CPUBackend]{}
	var mixer nn.HeadMixer[*cpu.CPUBackend] = nn.Identity[*cpu.CPUBackend]{}

	assert.Same(t, x, norm.Forward(x))
	assert.Same(t, x, mixer.Forward(x))
	assert.Empty(t, norm.Parameters())
}
