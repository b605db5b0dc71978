// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/born-ml/crossattn/backend/cpu"
	"github.com/born-ml/crossattn/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// TestBackendInterface verifies that the CPU backend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = (*cpu.Backend)(nil)
}

// TestRawTensorAPI verifies RawTensor type alias exposes expected API.
func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	assert.True(t, raw.Shape().Equal(tensor.Shape{2, 3}))
	assert.Equal(t, tensor.Float32, raw.DType())
	assert.Equal(t, tensor.CPU, raw.Device())
	assert.Equal(t, 6, raw.NumElements())
	assert.Equal(t, 6*4, raw.ByteSize())

	clone := raw.Clone()
	clone.AsFloat32()[0] = 1
	assert.Zero(t, raw.AsFloat32()[0], "Clone must not share memory")
}

// TestCreation verifies the public creation helpers.
func TestCreation(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)
	assert.Equal(t, float32(6), x.At(1, 2))

	_, err = tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{2, 3}, backend)
	assert.Error(t, err)

	assert.Equal(t, []float32{1, 0, 0, 1}, tensor.Eye[float32](2, backend).Data())
	assert.Equal(t, []float64{2.5, 2.5}, tensor.Full[float64](tensor.Shape{2}, 2.5, backend).Data())

	a := tensor.Randn[float32](tensor.Shape{4, 4}, backend, rand.New(rand.NewSource(3)))
	b := tensor.Randn[float32](tensor.Shape{4, 4}, backend, rand.New(rand.NewSource(3)))
	assert.Equal(t, a.Data(), b.Data())
}

// TestBroadcastShapes verifies the public broadcasting helper.
func TestBroadcastShapes(t *testing.T) {
	shape, needs, err := tensor.BroadcastShapes(tensor.Shape{3, 1}, tensor.Shape{3, 4})
	require.NoError(t, err)
	assert.True(t, needs)
	assert.Equal(t, tensor.Shape{3, 4}, shape)

	_, _, err = tensor.BroadcastShapes(tensor.Shape{3}, tensor.Shape{4})
	assert.Error(t, err)
}
