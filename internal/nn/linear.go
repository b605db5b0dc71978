package nn

import (
	"fmt"

	"github.com/born-ml/crossattn/internal/tensor"
	"golang.org/x/exp/rand"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input tensor with shape [..., in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the optional bias vector with shape [out_features]
//   - y is the output tensor with shape [..., out_features]
//
// Weights are initialized using Xavier/Glorot initialization.
// Biases are initialized to zeros.
//
// Example:
//
//	rng := rand.New(rand.NewSource(0))
//	layer := nn.NewLinear(784, 128, true, backend, rng)
//	output := layer.Forward(input)  // [32, 784] -> [32, 128]
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter[B] // [out_features, in_features]
	bias        *Parameter[B] // [out_features], nil when disabled
	backend     B
}

// NewLinear creates a new Linear layer.
//
// Parameters:
//   - inFeatures: Number of input features
//   - outFeatures: Number of output features
//   - useBias: Whether to add a learned bias
//   - backend: Backend to use for tensor operations
//   - rng: Random source for weight initialization
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, useBias bool, backend B, rng *rand.Rand) *Linear[B] {
	weightTensor := Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}, backend, rng)

	l := &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", weightTensor),
		backend:     backend,
	}
	if useBias {
		l.bias = NewParameter("bias", Zeros(tensor.Shape{outFeatures}, backend))
	}
	return l
}

// Forward computes the output of the linear layer.
//
// Input shape: [..., in_features]
// Output shape: [..., out_features]
//
// Leading axes are flattened into one row axis for the matrix product and
// restored afterwards. Panics if the last axis is not in_features.
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	if len(inputShape) == 0 {
		panic("Linear.Forward: expected at least 1D input")
	}
	if inputShape[len(inputShape)-1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d",
			l.inFeatures, inputShape[len(inputShape)-1]))
	}

	rows := inputShape.NumElements() / l.inFeatures
	input2D := input.Reshape(rows, l.inFeatures)

	// [rows, in] @ [in, out] = [rows, out]
	output := input2D.MatMul(l.weight.Tensor().Transpose())

	if l.bias != nil {
		output = output.Add(l.bias.Tensor())
	}

	outShape := inputShape.Clone()
	outShape[len(outShape)-1] = l.outFeatures
	return output.Reshape(outShape...)
}

// Parameters returns [weight, bias] if bias is present, otherwise [weight].
func (l *Linear[B]) Parameters() []*Parameter[B] {
	if l.bias != nil {
		return []*Parameter[B]{l.weight, l.bias}
	}
	return []*Parameter[B]{l.weight}
}

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] {
	return l.weight
}

// Bias returns the bias parameter, or nil for a bias-free layer.
func (l *Linear[B]) Bias() *Parameter[B] {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear[B]) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear[B]) OutFeatures() int {
	return l.outFeatures
}

// StateDict returns a map of parameter names to raw tensors.
func (l *Linear[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	stateDict["weight"] = l.weight.Tensor().Raw()
	if l.bias != nil {
		stateDict["bias"] = l.bias.Tensor().Raw()
	}
	return stateDict
}

// LoadStateDict loads parameters from a state dictionary, validating
// presence, shape and dtype of every entry.
func (l *Linear[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	for _, p := range l.Parameters() {
		raw, ok := stateDict[p.Name()]
		if !ok {
			return fmt.Errorf("missing %s in state dict", p.Name())
		}
		if err := p.load(p.Name(), raw); err != nil {
			return err
		}
	}
	return nil
}
