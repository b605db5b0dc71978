package nn

import (
	"fmt"

	"github.com/born-ml/crossattn/internal/tensor"
)

// Parameter is a named learned tensor owned by a layer.
//
// Forward passes only read parameters. LoadStateDict copies new values into
// the existing buffers, so it must not run concurrently with Forward.
type Parameter[B tensor.Backend] struct {
	name   string                     // Parameter name (e.g., "weight", "bias")
	tensor *tensor.Tensor[float32, B] // The parameter tensor
}

// NewParameter creates a new parameter from an initialized tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// check validates raw against the parameter's shape and dtype.
func (p *Parameter[B]) check(key string, raw *tensor.RawTensor) error {
	want := p.tensor.Shape()
	if !raw.Shape().Equal(want) {
		return shapeErrorf("LoadStateDict", "%s: expected %v, got %v", key, want, raw.Shape())
	}
	if raw.DType() != tensor.Float32 {
		return fmt.Errorf("%s: dtype mismatch: expected float32, got %v", key, raw.DType())
	}
	return nil
}

// load copies raw into the parameter after checking shape and dtype.
func (p *Parameter[B]) load(key string, raw *tensor.RawTensor) error {
	if err := p.check(key, raw); err != nil {
		return err
	}
	copy(p.tensor.Data(), raw.AsFloat32())
	return nil
}

// namedParams pairs a state dict prefix with the parameters stored under it.
type namedParams[B tensor.Backend] struct {
	prefix string
	params []*Parameter[B]
}

// loadParams loads every group from stateDict using prefix+"."+name keys.
// All entries are validated before any parameter is overwritten.
func loadParams[B tensor.Backend](stateDict map[string]*tensor.RawTensor, groups []namedParams[B]) error {
	for _, g := range groups {
		for _, p := range g.params {
			key := g.prefix + "." + p.Name()
			raw, ok := stateDict[key]
			if !ok {
				return fmt.Errorf("missing %s in state dict", key)
			}
			if err := p.check(key, raw); err != nil {
				return err
			}
		}
	}
	for _, g := range groups {
		for _, p := range g.params {
			key := g.prefix + "." + p.Name()
			if err := p.load(key, stateDict[key]); err != nil {
				return err
			}
		}
	}
	return nil
}

// addParams adds every group to stateDict under prefix+"."+name.
func addParams[B tensor.Backend](stateDict map[string]*tensor.RawTensor, groups []namedParams[B]) {
	for _, g := range groups {
		for _, p := range g.params {
			stateDict[g.prefix+"."+p.Name()] = p.Tensor().Raw()
		}
	}
}
