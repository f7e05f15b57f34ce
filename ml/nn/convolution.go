package nn

import "github.com/yolograph/yolograph/ml"

// Conv2D haelt einen HWIO-Kernel und einen optionalen Bias pro Ausgabekanal
type Conv2D struct {
	Weight ml.Tensor
	Bias   ml.Tensor
}

func (m *Conv2D) Forward(ctx ml.Context, t ml.Tensor, s0, s1, p0, p1, d0, d1 int) ml.Tensor {
	t = t.Conv2D(ctx, m.Weight, s0, s1, p0, p1, d0, d1)
	if m.Bias != nil {
		t = t.Add(ctx, m.Bias)
	}

	return t
}

// Filters gibt die Anzahl der Ausgabekanaele zurueck
func (m *Conv2D) Filters() int {
	return m.Weight.Dim(3)
}
