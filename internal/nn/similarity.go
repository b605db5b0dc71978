package nn

import (
	"math"

	"github.com/born-ml/crossattn/internal/tensor"
)

// Similarity computes the scaled per-head dot products between two
// sequences of shared query/key projections.
//
//	sim[b,h,i,j] = dot(qk[b,h,i,:], ctxQK[b,h,j,:]) / sqrt(dim_head)
//
// Shapes:
//   - qk:    [batch, heads, seq_len, dim_head]
//   - ctxQK: [batch, heads, ctx_len, dim_head]
//   - sim:   [batch, heads, seq_len, ctx_len]
//
// The same tensor feeds both attention directions.
func Similarity[B tensor.Backend](qk, ctxQK *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	qs, cs := qk.Shape(), ctxQK.Shape()
	if len(qs) != 4 || len(cs) != 4 {
		return nil, shapeErrorf("Similarity", "expected 4D inputs, got %v and %v", qs, cs)
	}
	if qs[0] != cs[0] || qs[1] != cs[1] || qs[3] != cs[3] {
		return nil, shapeErrorf("Similarity", "batch, heads and dim_head must match: %v vs %v", qs, cs)
	}

	scale := float32(1.0 / math.Sqrt(float64(qs[3])))

	// [b, h, i, d] @ [b, h, d, j] = [b, h, i, j]
	sim := qk.BatchMatMul(ctxQK.Transpose(0, 1, 3, 2))
	return sim.MulScalar(scale), nil
}

// DualSoftmax normalizes one similarity tensor in both directions.
//
// attn is the softmax over the context axis (-1): every row sums to 1.
// ctxAttn is the softmax over the sequence axis (-2): every column sums to 1.
// Both keep the [batch, heads, seq_len, ctx_len] layout.
func DualSoftmax[B tensor.Backend](sim *tensor.Tensor[float32, B]) (attn, ctxAttn *tensor.Tensor[float32, B]) {
	return sim.Softmax(-1), sim.Softmax(-2)
}

// AggregateValues produces the attended values for both sequences.
//
//	out[b,h,i,:]    = Σ_j attn[b,h,i,j]    · ctxV[b,h,j,:]
//	ctxOut[b,h,j,:] = Σ_i ctxAttn[b,h,i,j] · v[b,h,i,:]
//
// Shapes:
//   - attn, ctxAttn: [batch, heads, seq_len, ctx_len]
//   - v:             [batch, heads, seq_len, dim_head]
//   - ctxV:          [batch, heads, ctx_len, dim_head]
//   - out:           [batch, heads, seq_len, dim_head]
//   - ctxOut:        [batch, heads, ctx_len, dim_head]
func AggregateValues[B tensor.Backend](attn, ctxAttn, v, ctxV *tensor.Tensor[float32, B]) (out, ctxOut *tensor.Tensor[float32, B], err error) {
	as, cas, vs, cvs := attn.Shape(), ctxAttn.Shape(), v.Shape(), ctxV.Shape()
	if len(as) != 4 || len(vs) != 4 || len(cvs) != 4 {
		return nil, nil, shapeErrorf("AggregateValues", "expected 4D inputs, got attn %v, v %v, ctxV %v", as, vs, cvs)
	}
	if !as.Equal(cas) {
		return nil, nil, shapeErrorf("AggregateValues", "attention shapes differ: %v vs %v", as, cas)
	}
	batch, heads, seqLen, ctxLen := as[0], as[1], as[2], as[3]
	if vs[0] != batch || vs[1] != heads || vs[2] != seqLen {
		return nil, nil, shapeErrorf("AggregateValues", "v %v incompatible with attention %v", vs, as)
	}
	if cvs[0] != batch || cvs[1] != heads || cvs[2] != ctxLen {
		return nil, nil, shapeErrorf("AggregateValues", "ctxV %v incompatible with attention %v", cvs, as)
	}
	if vs[3] != cvs[3] {
		return nil, nil, shapeErrorf("AggregateValues", "dim_head differs: %d vs %d", vs[3], cvs[3])
	}

	// [b, h, i, j] @ [b, h, j, d] = [b, h, i, d]
	out = attn.BatchMatMul(ctxV)
	// [b, h, j, i] @ [b, h, i, d] = [b, h, j, d]
	ctxOut = ctxAttn.Transpose(0, 1, 3, 2).BatchMatMul(v)
	return out, ctxOut, nil
}
