// tensor_shape.go - Shape-Manipulation
// Enthaelt: Reshape, Slice, Concat, Repeat und die Bruecke zu pdevine/tensor

package cpu

import (
	"fmt"
	"slices"

	"github.com/pdevine/tensor"

	"github.com/yolograph/yolograph/ml"
)

// Reshape teilt sich den Puffer mit der Quelle; eine Dimension darf -1 sein
func (t *Tensor) Reshape(ctx ml.Context, shape ...int) ml.Tensor {
	shape = slices.Clone(shape)
	total := ml.Elements(t.shape...)

	infer, known := -1, 1
	for i, d := range shape {
		switch {
		case d == -1 && infer < 0:
			infer = i
		case d > 0:
			known *= d
		default:
			panic(fmt.Errorf("%w: reshape %s to %v", ml.ErrShapeMismatch, ml.ShapeString(t.shape), shape))
		}
	}

	if infer >= 0 && known > 0 && total%known == 0 {
		shape[infer] = total / known
	}

	if ml.Elements(shape...) != total {
		panic(fmt.Errorf("%w: reshape %s to %v", ml.ErrShapeMismatch, ml.ShapeString(t.shape), shape))
	}

	return node(ctx, "reshape", t.dtype, shape, func(out *Tensor) {
		out.data = t.data
	}, t)
}

// Slice nimmt die Indizes low, low+step, ... < high entlang dim
func (t *Tensor) Slice(ctx ml.Context, dim, low, high, step int) ml.Tensor {
	if dim < 0 || dim >= len(t.shape) || low < 0 || high > t.shape[dim] || low >= high || step < 1 {
		panic(fmt.Errorf("%w: slice %s dim %d [%d:%d:%d]", ml.ErrShapeMismatch, ml.ShapeString(t.shape), dim, low, high, step))
	}

	shape := slices.Clone(t.shape)
	shape[dim] = (high - low + step - 1) / step

	outer := ml.Elements(t.shape[:dim]...)
	inner := ml.Elements(t.shape[dim+1:]...)
	return node(ctx, "slice", t.dtype, shape, func(out *Tensor) {
		dst := out.alloc()
		i := 0
		for o := range outer {
			for j := range shape[dim] {
				off := (o*t.shape[dim] + low + j*step) * inner
				copy(dst[i:i+inner], t.data[off:off+inner])
				i += inner
			}
		}
	}, t)
}

func (t *Tensor) Concat(ctx ml.Context, t2 ml.Tensor, dim int) ml.Tensor {
	b := asTensor(t2)
	if len(t.shape) != len(b.shape) || dim < 0 || dim >= len(t.shape) {
		panic(fmt.Errorf("%w: concat %s and %s along %d", ml.ErrShapeMismatch, ml.ShapeString(t.shape), ml.ShapeString(b.shape), dim))
	}

	shape := slices.Clone(t.shape)
	for d := range shape {
		if d != dim && shape[d] != b.shape[d] {
			panic(fmt.Errorf("%w: concat %s and %s along %d", ml.ErrShapeMismatch, ml.ShapeString(t.shape), ml.ShapeString(b.shape), dim))
		}
	}
	shape[dim] += b.shape[dim]

	return node(ctx, "concat", t.dtype, shape, func(out *Tensor) {
		r, err := tensor.Concat(dim, dense(t.shape, t.data), dense(b.shape, b.data))
		if err != nil {
			panic(err)
		}
		materialize(r, out.alloc())
	}, t, b)
}

// Repeat kachelt den ganzen Tensor n-mal entlang dim
func (t *Tensor) Repeat(ctx ml.Context, dim, n int) ml.Tensor {
	if dim < 0 || dim >= len(t.shape) || n < 1 {
		panic(fmt.Errorf("%w: repeat %s dim %d x%d", ml.ErrShapeMismatch, ml.ShapeString(t.shape), dim, n))
	}

	shape := slices.Clone(t.shape)
	shape[dim] *= n

	// eine neue Achse der Laenge 1 vor dim wird wiederholt, dann zusammengelegt
	expanded := slices.Insert(slices.Clone(t.shape), dim, 1)
	return node(ctx, "repeat", t.dtype, shape, func(out *Tensor) {
		r, err := repeat(dense(expanded, t.data), dim, n)
		if err != nil {
			panic(err)
		}
		materialize(r, out.alloc())
	}, t)
}

func dense(shape []int, data []float32) *tensor.Dense {
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(data))
}

func repeat(t tensor.Tensor, axis, n int) (tensor.Tensor, error) {
	if n == 1 {
		return t, nil
	}

	return tensor.Repeat(t, axis, n)
}

func materialize(t tensor.Tensor, dst []float32) {
	switch v := t.Data().(type) {
	case []float32:
		copy(dst, v)
	case float32:
		dst[0] = v
	default:
		panic(fmt.Sprintf("cpu: unexpected tensor data %T", v))
	}
}
