// Package nn - Bausteine fuer Netzwerkschichten auf ml.Tensor
//
// Enthaelt Conv2D, BatchNorm und Initialisierer fuer neu angelegte Gewichte.
package nn

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/yolograph/yolograph/ml"
)

// GlorotUniform zieht Kernelwerte aus U(-l, l) mit l = sqrt(6 / (fanIn + fanOut)).
// Die Shape ist HWIO: [kh, kw, cin, cout].
func GlorotUniform(kh, kw, cin, cout int) []float32 {
	receptive := float64(kh * kw)
	limit := math.Sqrt(6 / (receptive*float64(cin) + receptive*float64(cout)))

	dist := distuv.Uniform{Min: -limit, Max: limit}
	s := make([]float32, kh*kw*cin*cout)
	for i := range s {
		s[i] = float32(dist.Rand())
	}

	return s
}

// Fill gibt n Kopien von v zurueck
func Fill(n int, v float32) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = v
	}

	return s
}

// NewConv2D legt einen Glorot-initialisierten Kernel und, falls bias gesetzt
// ist, einen Null-Bias im Kontext ctx an
func NewConv2D(ctx ml.Context, size, cin, cout int, bias bool) *Conv2D {
	m := &Conv2D{
		Weight: ctx.FromFloats(GlorotUniform(size, size, cin, cout), size, size, cin, cout),
	}
	if bias {
		m.Bias = ctx.Zeros(ml.DTypeF32, cout)
	}

	return m
}

// NewBatchNorm legt die Keras-Startwerte an: Gamma 1, Beta 0, Mean 0, Variance 1
func NewBatchNorm(ctx ml.Context, channels int, eps float32) *BatchNorm {
	return &BatchNorm{
		Gamma:    ctx.FromFloats(Fill(channels, 1), channels),
		Beta:     ctx.Zeros(ml.DTypeF32, channels),
		Mean:     ctx.Zeros(ml.DTypeF32, channels),
		Variance: ctx.FromFloats(Fill(channels, 1), channels),
		Epsilon:  eps,
	}
}
