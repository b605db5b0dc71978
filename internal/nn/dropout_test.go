package nn

import (
	"testing"

	"github.com/born-ml/crossattn/internal/backend/cpu"
	"github.com/born-ml/crossattn/internal/tensor"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
)

func TestDropout_Inactive(t *testing.T) {
	backend := cpu.New()
	x := tensor.Ones[float32](tensor.Shape{4, 4}, backend)

	// Inference mode ignores rate and rng.
	assert.Same(t, x, NewDropout(0.5, backend).Forward(x, false, nil))
	// Rate 0 is the identity even while training.
	assert.Same(t, x, NewDropout(0, backend).Forward(x, true, nil))
}

func TestDropout_RateOne(t *testing.T) {
	backend := cpu.New()
	x := tensor.Full[float32](tensor.Shape{3, 5}, 2.5, backend)

	out := NewDropout(1, backend).Forward(x, true, rand.New(rand.NewSource(1)))
	for _, v := range out.Data() {
		assert.Zero(t, v)
	}
}

func TestDropout_Deterministic(t *testing.T) {
	backend := cpu.New()
	x := tensor.Ones[float32](tensor.Shape{8, 16}, backend)
	d := NewDropout(0.3, backend)

	a := d.Forward(x, true, rand.New(rand.NewSource(42)))
	b := d.Forward(x, true, rand.New(rand.NewSource(42)))
	c := d.Forward(x, true, rand.New(rand.NewSource(43)))

	assert.Equal(t, a.Data(), b.Data())
	assert.NotEqual(t, a.Data(), c.Data())
}

func TestDropout_ScalesSurvivors(t *testing.T) {
	backend := cpu.New()
	const n = 10000
	x := tensor.Ones[float32](tensor.Shape{n}, backend)

	out := NewDropout(0.25, backend).Forward(x, true, rand.New(rand.NewSource(7)))

	zeros := 0
	for _, v := range out.Data() {
		if v == 0 {
			zeros++
			continue
		}
		assert.InDelta(t, 1/0.75, v, 1e-6)
	}
	// Roughly a quarter of the entries are dropped.
	assert.InDelta(t, 0.25, float64(zeros)/n, 0.03)
}
