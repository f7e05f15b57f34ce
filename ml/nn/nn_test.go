package nn

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/yolograph/yolograph/ml"
	_ "github.com/yolograph/yolograph/ml/backend"
)

func setup(t *testing.T) ml.Context {
	t.Helper()

	b, err := ml.NewBackend("cpu", ml.BackendParams{NumThreads: 1})
	require.NoError(t, err)

	ctx := b.NewContext()
	t.Cleanup(ctx.Close)
	return ctx
}

func TestConv2DBias(t *testing.T) {
	ctx := setup(t)

	m := &Conv2D{
		Weight: ctx.FromFloats([]float32{2, -1}, 1, 1, 1, 2),
		Bias:   ctx.FromFloats([]float32{0.5, 1}, 2),
	}
	x := ctx.FromFloats([]float32{1, 3}, 1, 1, 2, 1)

	y := m.Forward(ctx, x, 1, 1, 0, 0, 1, 1)
	ctx.Forward(y).Compute(y)
	if diff := cmp.Diff([]float32{2.5, 0, 6.5, -2}, y.Floats()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	if m.Filters() != 2 {
		t.Errorf("Filters = %d, erwartet 2", m.Filters())
	}
}

func TestBatchNorm(t *testing.T) {
	ctx := setup(t)

	m := &BatchNorm{
		Gamma:    ctx.FromFloats([]float32{1, 2}, 2),
		Beta:     ctx.FromFloats([]float32{0, 1}, 2),
		Mean:     ctx.FromFloats([]float32{1, 2}, 2),
		Variance: ctx.FromFloats([]float32{4, 1}, 2),
	}
	x := ctx.FromFloats([]float32{1, 2, 3, 4}, 1, 1, 2, 2)

	y := m.Forward(ctx, x)
	ctx.Forward(y).Compute(y)
	if diff := cmp.Diff([]float32{0, 1, 1, 5}, y.Floats()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestNewBatchNormIsIdentity(t *testing.T) {
	ctx := setup(t)

	m := NewBatchNorm(ctx, 3, 1e-3)
	x := ctx.FromFloats([]float32{1, -2, 3}, 1, 1, 1, 3)

	y := m.Forward(ctx, x)
	ctx.Forward(y).Compute(y)

	scale := float32(1 / math.Sqrt(1+1e-3))
	want := []float32{scale, -2 * scale, 3 * scale}
	if diff := cmp.Diff(want, y.Floats(), cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestGlorotUniform(t *testing.T) {
	s := GlorotUniform(3, 3, 16, 32)
	if len(s) != 3*3*16*32 {
		t.Fatalf("Laenge = %d, erwartet %d", len(s), 3*3*16*32)
	}

	limit := float32(math.Sqrt(6.0 / (9*16 + 9*32)))
	distinct := map[float32]bool{}
	for _, v := range s {
		if v < -limit || v > limit {
			t.Fatalf("Wert %v ausserhalb [-%v, %v]", v, limit, limit)
		}
		distinct[v] = true
	}

	if len(distinct) < len(s)/2 {
		t.Errorf("nur %d verschiedene Werte", len(distinct))
	}
}

func TestNewConv2D(t *testing.T) {
	ctx := setup(t)

	m := NewConv2D(ctx, 3, 4, 8, true)
	if diff := cmp.Diff([]int{3, 3, 4, 8}, m.Weight.Shape()); diff != "" {
		t.Errorf("Weight (-want +got):\n%s", diff)
	}
	if m.Bias == nil || m.Bias.Dim(0) != 8 {
		t.Errorf("Bias fehlt oder falsch: %v", m.Bias)
	}

	if NewConv2D(ctx, 1, 4, 8, false).Bias != nil {
		t.Error("kein Bias erwartet")
	}
}
