package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/crossattn/internal/tensor"
	"golang.org/x/exp/rand"
)

// Conventional layer sizes, applied by DefaultConfig.
const (
	DefaultHeads        = 8
	DefaultDimHead      = 64
	DefaultLayerNormEps = 1e-3
)

// Config configures a BidirectionalCrossAttention layer.
//
// Zero values of ContextDim and LayerNormEps select the defaults. Heads and
// DimHead must be set explicitly; DefaultConfig fills them in.
type Config struct {
	Dim          int     // Width of the sequence input (required)
	ContextDim   int     // Width of the context input (0 = Dim)
	Heads        int     // Number of attention heads (required)
	DimHead      int     // Width of each head (required)
	Dropout      float64 // Attention dropout rate in [0, 1]
	TalkingHeads bool    // Mix attention weights across heads
	Prenorm      bool    // LayerNorm both inputs before projection
	LayerNormEps float32 // Prenorm epsilon (0 = 1e-3)
	Seed         uint64  // Seed for weight initialization
}

// DefaultConfig returns a configuration for a dim-wide sequence with
// DefaultHeads heads of DefaultDimHead width.
func DefaultConfig(dim int) Config {
	return Config{Dim: dim, Heads: DefaultHeads, DimHead: DefaultDimHead}
}

// Validate checks the configuration without applying defaults.
func (c Config) Validate() error {
	if c.Dim <= 0 {
		return configErrorf("Dim", "must be positive, got %d", c.Dim)
	}
	if c.ContextDim < 0 {
		return configErrorf("ContextDim", "must be non-negative, got %d", c.ContextDim)
	}
	if c.Heads <= 0 {
		return configErrorf("Heads", "must be positive, got %d", c.Heads)
	}
	if c.DimHead <= 0 {
		return configErrorf("DimHead", "must be positive, got %d", c.DimHead)
	}
	if math.IsNaN(c.Dropout) || c.Dropout < 0 || c.Dropout > 1 {
		return configErrorf("Dropout", "must be in [0, 1], got %v", c.Dropout)
	}
	if c.LayerNormEps < 0 || math.IsNaN(float64(c.LayerNormEps)) {
		return configErrorf("LayerNormEps", "must be non-negative, got %v", c.LayerNormEps)
	}
	return nil
}

// WithDefaults returns a copy of c with zero-valued fields filled in.
func (c Config) WithDefaults() Config {
	if c.ContextDim == 0 {
		c.ContextDim = c.Dim
	}
	if c.LayerNormEps == 0 {
		c.LayerNormEps = DefaultLayerNormEps
	}
	return c
}

// InnerDim returns Heads*DimHead, the width of the projected sequences.
func (c Config) InnerDim() int {
	return c.Heads * c.DimHead
}

// ForwardOptions controls a single Forward call.
type ForwardOptions struct {
	ReturnAttn bool       // Populate Output.Attn and Output.ContextAttn
	Training   bool       // Enable attention dropout
	RNG        *rand.Rand // Dropout random source, required when dropout is active
}

// Output holds the results of a Forward call.
//
// Attn and ContextAttn are nil unless ForwardOptions.ReturnAttn is set. Both
// have shape [batch, heads, seq_len, ctx_len] and are taken after head mixing
// and dropout, i.e. exactly the weights used for aggregation.
type Output[B tensor.Backend] struct {
	Sequence    *tensor.Tensor[float32, B] // [batch, seq_len, dim]
	Context     *tensor.Tensor[float32, B] // [batch, ctx_len, context_dim]
	Attn        *tensor.Tensor[float32, B] // softmax over ctx_len
	ContextAttn *tensor.Tensor[float32, B] // softmax over seq_len
}

// Params groups every learned component of the layer.
//
// Norm, ContextNorm, TalkingHeads and ContextTalkingHeads are Identity when
// the matching option is disabled.
type Params[B tensor.Backend] struct {
	ToQK         *Linear[B] // [inner, dim], no bias
	ContextToQK  *Linear[B] // [inner, context_dim], no bias
	ToV          *Linear[B] // [inner, dim], no bias
	ContextToV   *Linear[B] // [inner, context_dim], no bias
	ToOut        *Linear[B] // [dim, inner] + bias
	ContextToOut *Linear[B] // [context_dim, inner] + bias

	Norm        Normalizer[B]
	ContextNorm Normalizer[B]

	TalkingHeads        HeadMixer[B]
	ContextTalkingHeads HeadMixer[B]
}

// groups lists parameters by state dict prefix in a fixed order.
func (p *Params[B]) groups() []namedParams[B] {
	return []namedParams[B]{
		{"to_qk", p.ToQK.Parameters()},
		{"context_to_qk", p.ContextToQK.Parameters()},
		{"to_v", p.ToV.Parameters()},
		{"context_to_v", p.ContextToV.Parameters()},
		{"to_out", p.ToOut.Parameters()},
		{"context_to_out", p.ContextToOut.Parameters()},
		{"norm", p.Norm.Parameters()},
		{"context_norm", p.ContextNorm.Parameters()},
		{"talking_heads", p.TalkingHeads.Parameters()},
		{"context_talking_heads", p.ContextTalkingHeads.Parameters()},
	}
}

// BidirectionalCrossAttention attends two sequences to each other through a
// single shared similarity matrix.
//
// Architecture:
//
//	qk, v       = x @ W_qk, x @ W_v                 (split into heads)
//	ctxQK, ctxV = ctx @ W_cqk, ctx @ W_cv
//	sim         = qk @ ctxQK^T / sqrt(dim_head)
//	attn        = softmax(sim, axis=-1)              (sequence attends to context)
//	ctxAttn     = softmax(sim, axis=-2)              (context attends to sequence)
//	out         = attn @ ctxV                        -> merge -> to_out
//	ctxOut      = ctxAttn^T @ v                      -> merge -> context_to_out
//
// Prenorm runs before the projections. Talking heads and dropout act on
// both attention tensors between the softmaxes and aggregation.
//
// Forward never mutates the layer, so concurrent calls are safe as long as
// each call brings its own RNG and no LoadStateDict runs alongside them.
//
// Example:
//
//	backend := cpu.New()
//	layer, err := nn.NewBidirectionalCrossAttention(nn.Config{Dim: 512, ContextDim: 386, Heads: 8, DimHead: 64}, backend)
//	out, err := layer.Forward(video, audio, nn.ForwardOptions{})
//	// out.Sequence: [batch, seq_len, 512], out.Context: [batch, ctx_len, 386]
type BidirectionalCrossAttention[B tensor.Backend] struct {
	config         Config
	params         *Params[B]
	dropout        *Dropout[B]
	contextDropout *Dropout[B]
	backend        B
}

// NewBidirectionalCrossAttention validates cfg, applies defaults and builds a
// layer with Xavier-initialized weights drawn from cfg.Seed.
func NewBidirectionalCrossAttention[B tensor.Backend](cfg Config, backend B) (*BidirectionalCrossAttention[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()

	rng := rand.New(rand.NewSource(cfg.Seed))
	inner := cfg.InnerDim()

	params := &Params[B]{
		ToQK:                NewLinear(cfg.Dim, inner, false, backend, rng),
		ContextToQK:         NewLinear(cfg.ContextDim, inner, false, backend, rng),
		ToV:                 NewLinear(cfg.Dim, inner, false, backend, rng),
		ContextToV:          NewLinear(cfg.ContextDim, inner, false, backend, rng),
		ToOut:               NewLinear(inner, cfg.Dim, true, backend, rng),
		ContextToOut:        NewLinear(inner, cfg.ContextDim, true, backend, rng),
		Norm:                Identity[B]{},
		ContextNorm:         Identity[B]{},
		TalkingHeads:        Identity[B]{},
		ContextTalkingHeads: Identity[B]{},
	}
	if cfg.Prenorm {
		params.Norm = NewLayerNorm(cfg.Dim, cfg.LayerNormEps, backend)
		params.ContextNorm = NewLayerNorm(cfg.ContextDim, cfg.LayerNormEps, backend)
	}
	if cfg.TalkingHeads {
		params.TalkingHeads = NewTalkingHeads(cfg.Heads, backend, rng)
		params.ContextTalkingHeads = NewTalkingHeads(cfg.Heads, backend, rng)
	}

	return &BidirectionalCrossAttention[B]{
		config:         cfg,
		params:         params,
		dropout:        NewDropout(cfg.Dropout, backend),
		contextDropout: NewDropout(cfg.Dropout, backend),
		backend:        backend,
	}, nil
}

// Config returns the resolved configuration (defaults applied).
func (m *BidirectionalCrossAttention[B]) Config() Config {
	return m.config
}

// Params returns the layer's parameter bundle.
func (m *BidirectionalCrossAttention[B]) Params() *Params[B] {
	return m.params
}

// Forward attends x and context to each other.
//
// Args:
//   - x: sequence input [batch, seq_len, dim]
//   - context: context input [batch, ctx_len, context_dim]
//   - opts: attention return, training mode and dropout RNG
//
// Returns a *ShapeError when the inputs do not match the configuration or
// each other, and a *ConfigError when dropout is active without an RNG.
// Nothing is computed in either case.
func (m *BidirectionalCrossAttention[B]) Forward(
	x, context *tensor.Tensor[float32, B],
	opts ForwardOptions,
) (*Output[B], error) {
	if err := m.validateInputs(x, context); err != nil {
		return nil, err
	}
	if (m.dropout.Active(opts.Training) || m.contextDropout.Active(opts.Training)) && opts.RNG == nil {
		return nil, configErrorf("RNG", "required when training with dropout %v", m.config.Dropout)
	}

	p := m.params

	x = p.Norm.Forward(x)
	context = p.ContextNorm.Forward(context)

	// 1. Shared query/key and value projections, split into heads
	qk, err := SplitHeads(p.ToQK.Forward(x), m.config.Heads)
	if err != nil {
		return nil, fmt.Errorf("project sequence: %w", err)
	}
	v, err := SplitHeads(p.ToV.Forward(x), m.config.Heads)
	if err != nil {
		return nil, fmt.Errorf("project sequence: %w", err)
	}
	ctxQK, err := SplitHeads(p.ContextToQK.Forward(context), m.config.Heads)
	if err != nil {
		return nil, fmt.Errorf("project context: %w", err)
	}
	ctxV, err := SplitHeads(p.ContextToV.Forward(context), m.config.Heads)
	if err != nil {
		return nil, fmt.Errorf("project context: %w", err)
	}

	// 2. One similarity matrix, normalized in both directions
	sim, err := Similarity(qk, ctxQK)
	if err != nil {
		return nil, err
	}
	attn, ctxAttn := DualSoftmax(sim)

	// 3. Head mixing, then dropout
	attn = p.TalkingHeads.Forward(attn)
	ctxAttn = p.ContextTalkingHeads.Forward(ctxAttn)

	attn = m.dropout.Forward(attn, opts.Training, opts.RNG)
	ctxAttn = m.contextDropout.Forward(ctxAttn, opts.Training, opts.RNG)

	// 4. Aggregate values in both directions
	out, ctxOut, err := AggregateValues(attn, ctxAttn, v, ctxV)
	if err != nil {
		return nil, err
	}

	// 5. Merge heads and project back to the input widths
	out, err = MergeHeads(out)
	if err != nil {
		return nil, err
	}
	ctxOut, err = MergeHeads(ctxOut)
	if err != nil {
		return nil, err
	}

	result := &Output[B]{
		Sequence: p.ToOut.Forward(out),
		Context:  p.ContextToOut.Forward(ctxOut),
	}
	if opts.ReturnAttn {
		result.Attn = attn
		result.ContextAttn = ctxAttn
	}
	return result, nil
}

func (m *BidirectionalCrossAttention[B]) validateInputs(x, context *tensor.Tensor[float32, B]) error {
	if x == nil || context == nil {
		return shapeErrorf("Forward", "sequence and context must be non-nil")
	}
	xs, cs := x.Shape(), context.Shape()
	if len(xs) != 3 {
		return shapeErrorf("Forward", "sequence must be [batch, seq_len, dim], got %v", xs)
	}
	if len(cs) != 3 {
		return shapeErrorf("Forward", "context must be [batch, ctx_len, context_dim], got %v", cs)
	}
	if xs[2] != m.config.Dim {
		return shapeErrorf("Forward", "sequence width %d != dim %d", xs[2], m.config.Dim)
	}
	if cs[2] != m.config.ContextDim {
		return shapeErrorf("Forward", "context width %d != context_dim %d", cs[2], m.config.ContextDim)
	}
	if xs[0] != cs[0] {
		return shapeErrorf("Forward", "batch sizes differ: %d vs %d", xs[0], cs[0])
	}
	return nil
}

// Parameters returns all learned parameters in state dict order.
func (m *BidirectionalCrossAttention[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, g := range m.params.groups() {
		params = append(params, g.params...)
	}
	return params
}

// StateDict returns the layer's parameters keyed as "to_qk.weight",
// "to_out.bias", "norm.gamma", "talking_heads.weight" and so on. Disabled
// options contribute no keys.
func (m *BidirectionalCrossAttention[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	addParams(stateDict, m.params.groups())
	return stateDict
}

// LoadStateDict copies parameters from stateDict into the layer.
//
// Every expected key must be present with a matching shape and float32
// dtype; otherwise nothing is loaded. Extra keys are ignored. Must not be
// called while a Forward is in flight.
func (m *BidirectionalCrossAttention[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	if err := loadParams(stateDict, m.params.groups()); err != nil {
		return fmt.Errorf("BidirectionalCrossAttention: %w", err)
	}
	return nil
}
