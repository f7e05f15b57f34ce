// tensor_arithmetic.go - Elementweise Operationen
// Enthaelt: Add, Sub, Mul, Div mit Broadcasting sowie Scale, Sqrt, Exp, Sigmoid, LeakyRELU

package cpu

import (
	"fmt"
	"math"
	"slices"

	"github.com/yolograph/yolograph/ml"
)

// Sigmoid-Werte bleiben im offenen Intervall (0, 1), auch wenn float32 saettigt
var (
	sigmoidLow  = math.Nextafter32(0, 1)
	sigmoidHigh = math.Nextafter32(1, 0)
)

func (t *Tensor) Add(ctx ml.Context, t2 ml.Tensor) ml.Tensor {
	return t.binary(ctx, "add", t2, func(a, b float32) float32 { return a + b })
}

func (t *Tensor) Sub(ctx ml.Context, t2 ml.Tensor) ml.Tensor {
	return t.binary(ctx, "sub", t2, func(a, b float32) float32 { return a - b })
}

func (t *Tensor) Mul(ctx ml.Context, t2 ml.Tensor) ml.Tensor {
	return t.binary(ctx, "mul", t2, func(a, b float32) float32 { return a * b })
}

func (t *Tensor) Div(ctx ml.Context, t2 ml.Tensor) ml.Tensor {
	return t.binary(ctx, "div", t2, func(a, b float32) float32 { return a / b })
}

func (t *Tensor) Scale(ctx ml.Context, s float64) ml.Tensor {
	f := float32(s)
	return t.unary(ctx, "scale", func(v float32) float32 { return v * f })
}

func (t *Tensor) Sqrt(ctx ml.Context) ml.Tensor {
	return t.unary(ctx, "sqrt", func(v float32) float32 { return float32(math.Sqrt(float64(v))) })
}

func (t *Tensor) Exp(ctx ml.Context) ml.Tensor {
	return t.unary(ctx, "exp", func(v float32) float32 { return float32(math.Exp(float64(v))) })
}

func (t *Tensor) Sigmoid(ctx ml.Context) ml.Tensor {
	return t.unary(ctx, "sigmoid", func(v float32) float32 {
		s := float32(1 / (1 + math.Exp(-float64(v))))
		return min(max(s, sigmoidLow), sigmoidHigh)
	})
}

func (t *Tensor) LeakyRELU(ctx ml.Context, negativeSlope float32) ml.Tensor {
	return t.unary(ctx, "leaky_relu", func(v float32) float32 {
		if v > 0 {
			return v
		}
		return v * negativeSlope
	})
}

func (t *Tensor) unary(ctx ml.Context, op string, fn func(float32) float32) ml.Tensor {
	return node(ctx, op, t.dtype, slices.Clone(t.shape), func(out *Tensor) {
		dst := out.alloc()
		for i, v := range t.data {
			dst[i] = fn(v)
		}
	}, t)
}

// binary wendet fn elementweise an; t2 wird rechtsbuendig in die Shape von t
// gelegt, jede Dimension von t2 muss gleich oder 1 sein
func (t *Tensor) binary(ctx ml.Context, op string, t2 ml.Tensor, fn func(a, b float32) float32) ml.Tensor {
	b := asTensor(t2)
	strides, err := broadcastStrides(t.shape, b.shape)
	if err != nil {
		panic(fmt.Errorf("%w: %s %s and %s", ml.ErrShapeMismatch, op, ml.ShapeString(t.shape), ml.ShapeString(b.shape)))
	}

	shape := slices.Clone(t.shape)
	return node(ctx, op, t.dtype, shape, func(out *Tensor) {
		dst := out.alloc()
		x, y := t.data, b.data

		switch {
		case strides == nil:
			for i := range dst {
				dst[i] = fn(x[i], y[i])
			}
		case len(b.shape) == 1 && b.shape[0] == shape[len(shape)-1]:
			// haeufigster Fall: ein Wert pro Kanal
			c := len(y)
			for i := range dst {
				dst[i] = fn(x[i], y[i%c])
			}
		default:
			idx := make([]int, len(shape))
			off := 0
			for i := range dst {
				dst[i] = fn(x[i], y[off])
				for d := len(shape) - 1; d >= 0; d-- {
					idx[d]++
					off += strides[d]
					if idx[d] < shape[d] {
						break
					}
					off -= strides[d] * shape[d]
					idx[d] = 0
				}
			}
		}
	}, t, b)
}

// broadcastStrides gibt die Schrittweiten von shape2 innerhalb von shape
// zurueck; nil bei identischen Shapes
func broadcastStrides(shape, shape2 []int) ([]int, error) {
	if slices.Equal(shape, shape2) {
		return nil, nil
	}

	if len(shape2) > len(shape) {
		return nil, ml.ErrShapeMismatch
	}

	strides := make([]int, len(shape))
	offset := len(shape) - len(shape2)
	s := 1
	for i := len(shape2) - 1; i >= 0; i-- {
		switch d := shape2[i]; d {
		case shape[offset+i]:
			strides[offset+i] = s
		case 1:
		default:
			return nil, ml.ErrShapeMismatch
		}
		s *= shape2[i]
	}

	return strides, nil
}
