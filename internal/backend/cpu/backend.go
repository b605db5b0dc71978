// Package cpu implements the CPU backend on top of gonum BLAS kernels.
package cpu

import (
	"fmt"
	"strings"

	"github.com/born-ml/crossattn/internal/parallel"
	"github.com/born-ml/crossattn/internal/tensor"
	"github.com/klauspost/cpuid/v2"
)

// CPUBackend implements tensor operations on CPU.
//
// Matrix products go through gonum's blas32/blas64 GEMM. Batched kernels
// and softmax slices are spread across goroutines with parallel.For.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// New creates a new CPU backend with the default parallel configuration.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with an explicit parallel configuration.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name together with the SIMD features
// detected on this machine, e.g. "CPU (AVX2,FMA3)".
func (cpu *CPUBackend) Name() string {
	var feats []string
	for _, f := range []cpuid.FeatureID{cpuid.AVX512F, cpuid.AVX2, cpuid.FMA3, cpuid.ASIMD} {
		if cpuid.CPU.Supports(f) {
			feats = append(feats, f.String())
		}
	}
	if len(feats) == 0 {
		return "CPU"
	}
	return fmt.Sprintf("CPU (%s)", strings.Join(feats, ","))
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Parallel returns the parallel configuration used by batched kernels.
func (cpu *CPUBackend) Parallel() parallel.Config {
	return cpu.parallel
}

// newResult allocates an output tensor or panics with an op-prefixed message.
func (cpu *CPUBackend) newResult(op string, shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}
	return result
}
