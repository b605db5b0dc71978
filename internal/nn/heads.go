package nn

import (
	"github.com/born-ml/crossattn/internal/tensor"
)

// SplitHeads reshapes [batch, n, heads*dimHead] into [batch, heads, n, dimHead].
//
// The last axis is read as heads contiguous groups, so channel c lands in
// head c/dimHead at position c%dimHead.
func SplitHeads[B tensor.Backend](t *tensor.Tensor[float32, B], heads int) (*tensor.Tensor[float32, B], error) {
	if heads <= 0 {
		return nil, shapeErrorf("SplitHeads", "heads must be positive, got %d", heads)
	}
	shape := t.Shape()
	if len(shape) != 3 {
		return nil, shapeErrorf("SplitHeads", "expected 3D input [batch, n, inner], got %v", shape)
	}
	batch, n, inner := shape[0], shape[1], shape[2]
	if inner%heads != 0 {
		return nil, shapeErrorf("SplitHeads", "last dimension %d not divisible by %d heads", inner, heads)
	}

	return t.Reshape(batch, n, heads, inner/heads).Transpose(0, 2, 1, 3), nil
}

// MergeHeads is the inverse of SplitHeads: [batch, heads, n, dimHead] -> [batch, n, heads*dimHead].
func MergeHeads[B tensor.Backend](t *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	shape := t.Shape()
	if len(shape) != 4 {
		return nil, shapeErrorf("MergeHeads", "expected 4D input [batch, heads, n, dim_head], got %v", shape)
	}
	batch, heads, n, dimHead := shape[0], shape[1], shape[2], shape[3]

	return t.Transpose(0, 2, 1, 3).Reshape(batch, n, heads*dimHead), nil
}
