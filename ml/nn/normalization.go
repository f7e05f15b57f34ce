package nn

import "github.com/yolograph/yolograph/ml"

// BatchNorm ist die Inferenz-Form der Batch-Normalisierung ueber die letzte Achse:
// (t - Mean) / sqrt(Variance + Epsilon) * Gamma + Beta
type BatchNorm struct {
	Gamma    ml.Tensor
	Beta     ml.Tensor
	Mean     ml.Tensor
	Variance ml.Tensor

	Epsilon float32
}

func (m *BatchNorm) Forward(ctx ml.Context, t ml.Tensor) ml.Tensor {
	eps := ctx.Input().FromFloats([]float32{m.Epsilon}, 1)
	std := m.Variance.Add(ctx, eps).Sqrt(ctx)
	return t.Sub(ctx, m.Mean).Div(ctx, std).Mul(ctx, m.Gamma).Add(ctx, m.Beta)
}
