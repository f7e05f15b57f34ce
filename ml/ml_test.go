package ml_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yolograph/yolograph/ml"
	_ "github.com/yolograph/yolograph/ml/backend"
)

func TestDump(t *testing.T) {
	b, err := ml.NewBackend("cpu", ml.BackendParams{NumThreads: 1})
	if err != nil {
		t.Fatal(err)
	}
	ctx := b.NewContext()
	defer ctx.Close()

	x := ctx.FromFloats([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	flat := x.Reshape(ctx, 6)
	neg := x.Scale(ctx, -1).Reshape(ctx, 6)
	cube := ctx.Arange(0, 8, 1, ml.DTypeF32).Reshape(ctx, 2, 2, 2)
	long := ctx.Arange(0, 5, 1, ml.DTypeF32).Reshape(ctx, 5, 1)
	ctx.Forward(flat, neg, cube, long).Compute()

	cases := []struct {
		name string
		t    ml.Tensor
		opts []ml.DumpOption
		want string
	}{
		{"matrix", x, []ml.DumpOption{ml.DumpWithPrecision(0)}, "[[ 1,  2,  3],\n [ 4,  5,  6]]"},
		{"negative", neg, []ml.DumpOption{ml.DumpWithPrecision(1)}, "[-1.0, -2.0, -3.0, -4.0, -5.0, -6.0]"},
		{"edge items", flat, []ml.DumpOption{ml.DumpWithPrecision(0), ml.DumpWithEdgeItems(1)}, "[ 1, ...,  6]"},
		{"cube", cube, []ml.DumpOption{ml.DumpWithPrecision(0)}, "[[[ 0,  1],\n  [ 2,  3]],\n\n [[ 4,  5],\n  [ 6,  7]]]"},
		{"elided rows", long, []ml.DumpOption{ml.DumpWithPrecision(0), ml.DumpWithEdgeItems(1)}, "[[ 0],\n ...,\n [ 4]]"},
		{"not computed", x.Add(ctx, x), nil, "<not computed>"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ml.Dump(tt.t, tt.opts...)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewBackendUnknown(t *testing.T) {
	if _, err := ml.NewBackend("metal", ml.BackendParams{}); err == nil {
		t.Fatal("Fehler erwartet fuer unbekanntes Backend")
	}

	if diff := cmp.Diff([]string{"cpu"}, ml.Backends()); diff != "" {
		t.Errorf("Backends (-want +got):\n%s", diff)
	}
}

func TestTypes(t *testing.T) {
	if got := ml.ShapeString([]int{1, 13, 13, 255}); got != "1x13x13x255" {
		t.Errorf("ShapeString = %q", got)
	}

	if got := ml.Elements(2, 3, 4); got != 24 {
		t.Errorf("Elements = %d, erwartet 24", got)
	}

	if ml.DTypeF16.Size() != 2 || ml.DTypeF32.Size() != 4 {
		t.Error("falsche DType Groessen")
	}
}
