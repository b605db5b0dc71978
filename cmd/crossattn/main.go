// Package main provides the crossattn CLI.
//
// It builds a bidirectional cross-attention layer, runs one forward pass on
// random inputs and reports shapes, timing and how far the attention
// weights drift from exact normalization.
//
// Usage:
//
//	go run ./cmd/crossattn -dim 64 -context-dim 32 -heads 4 -dim-head 16 -seq 128 -ctx 256
//	go run ./cmd/crossattn version
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/born-ml/crossattn/backend/cpu"
	"github.com/born-ml/crossattn/nn"
	"github.com/born-ml/crossattn/tensor"
	"golang.org/x/exp/rand"
)

const version = "v0.1.0-dev"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "crossattn: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) > 0 && args[0] == "version" {
		fmt.Fprintf(stdout, "crossattn %s\n", version)
		return nil
	}

	fs := flag.NewFlagSet("crossattn", flag.ContinueOnError)
	fs.SetOutput(stdout)
	dim := fs.Int("dim", 64, "Sequence feature width")
	contextDim := fs.Int("context-dim", 0, "Context feature width (0 = dim)")
	heads := fs.Int("heads", nn.DefaultHeads, "Number of attention heads")
	dimHead := fs.Int("dim-head", nn.DefaultDimHead, "Width of each head")
	dropout := fs.Float64("dropout", 0, "Attention dropout rate in [0, 1]")
	talkingHeads := fs.Bool("talking-heads", false, "Mix attention weights across heads")
	prenorm := fs.Bool("prenorm", false, "LayerNorm both inputs before projection")
	batch := fs.Int("batch", 1, "Batch size")
	seqLen := fs.Int("seq", 16, "Sequence length")
	ctxLen := fs.Int("ctx", 32, "Context length")
	seed := fs.Uint64("seed", 0, "Seed for weights, inputs and dropout")
	train := fs.Bool("train", false, "Run in training mode (enables dropout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *batch <= 0 || *seqLen <= 0 || *ctxLen <= 0 {
		return fmt.Errorf("batch, seq and ctx must be positive, got %d, %d, %d", *batch, *seqLen, *ctxLen)
	}

	backend := cpu.New()
	layer, err := nn.NewBidirectionalCrossAttention(nn.Config{
		Dim:          *dim,
		ContextDim:   *contextDim,
		Heads:        *heads,
		DimHead:      *dimHead,
		Dropout:      *dropout,
		TalkingHeads: *talkingHeads,
		Prenorm:      *prenorm,
		Seed:         *seed,
	}, backend)
	if err != nil {
		return fmt.Errorf("build layer: %w", err)
	}
	cfg := layer.Config()

	rng := rand.New(rand.NewSource(*seed + 1))
	x := tensor.Randn[float32](tensor.Shape{*batch, *seqLen, cfg.Dim}, backend, rng)
	ctx := tensor.Randn[float32](tensor.Shape{*batch, *ctxLen, cfg.ContextDim}, backend, rng)

	start := time.Now()
	out, err := layer.Forward(x, ctx, nn.ForwardOptions{ReturnAttn: true, Training: *train, RNG: rng})
	if err != nil {
		return fmt.Errorf("forward: %w", err)
	}
	elapsed := time.Since(start)

	fmt.Fprintf(stdout, "crossattn %s\n", version)
	fmt.Fprintf(stdout, "Backend:        %s\n", backend.Name())
	fmt.Fprintf(stdout, "Config:         dim=%d context_dim=%d heads=%d dim_head=%d dropout=%g talking_heads=%t prenorm=%t\n",
		cfg.Dim, cfg.ContextDim, cfg.Heads, cfg.DimHead, cfg.Dropout, cfg.TalkingHeads, cfg.Prenorm)
	fmt.Fprintf(stdout, "Parameters:     %d\n", countParams(layer))
	fmt.Fprintf(stdout, "Sequence out:   %v\n", out.Sequence.Shape())
	fmt.Fprintf(stdout, "Context out:    %v\n", out.Context.Shape())
	fmt.Fprintf(stdout, "Attention:      %v\n", out.Attn.Shape())
	fmt.Fprintf(stdout, "Row sum error:  %.3g\n", maxDeviation(out.Attn.SumDim(-1, false).Data()))
	fmt.Fprintf(stdout, "Col sum error:  %.3g\n", maxDeviation(out.ContextAttn.SumDim(-2, false).Data()))
	fmt.Fprintf(stdout, "Forward time:   %v\n", elapsed)
	return nil
}

func countParams(layer *nn.BidirectionalCrossAttention[*cpu.Backend]) int {
	n := 0
	for _, p := range layer.Parameters() {
		n += p.Tensor().NumElements()
	}
	return n
}

// maxDeviation returns max |s - 1| over sums.
func maxDeviation(sums []float32) float64 {
	worst := 0.0
	for _, s := range sums {
		worst = math.Max(worst, math.Abs(float64(s)-1))
	}
	return worst
}
