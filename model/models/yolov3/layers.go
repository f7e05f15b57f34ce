// Modul: layers.go
// Beschreibung: Konstruktoren fuer convolutional, upsample, route und shortcut

package yolov3

import (
	"fmt"
	"slices"

	"github.com/yolograph/yolograph/ml"
	"github.com/yolograph/yolograph/ml/nn"
	"github.com/yolograph/yolograph/model"
	"github.com/yolograph/yolograph/parser"
)

const (
	leakySlope       = 0.1
	batchNormEpsilon = 1e-3
)

func (b *builder) convolutional(i int, x ml.Tensor, block *parser.Block) (ml.Tensor, model.LayerInfo, error) {
	var info model.LayerInfo

	activation, err := block.Value("activation")
	if err != nil {
		return nil, info, err
	}

	filters, err := block.Int("filters")
	if err != nil {
		return nil, info, err
	}

	size, err := block.Int("size")
	if err != nil {
		return nil, info, err
	}

	stride, err := block.Int("stride")
	if err != nil {
		return nil, info, err
	}

	bn, err := block.Flag("batch_normalize")
	if err != nil {
		return nil, info, err
	}

	if filters <= 0 || size <= 0 || stride <= 0 {
		return nil, info, fmt.Errorf("%w: filters=%d size=%d stride=%d must be positive", ErrMalformedBlock, filters, size, stride)
	}

	cin := x.Dim(3)
	conv := nn.NewConv2D(b.ctx, size, cin, filters, !bn)
	info.Name = fmt.Sprintf("conv_%d", i)
	b.param(info.Name+".weight", conv.Weight)
	info.Params = size * size * cin * filters
	if conv.Bias != nil {
		b.param(info.Name+".bias", conv.Bias)
		info.Params += filters
	}

	var t ml.Tensor
	if stride > 1 {
		// nur oben und links auffuellen, dann ohne Padding falten
		if x.Dim(1)+1 < size || x.Dim(2)+1 < size {
			return nil, info, fmt.Errorf("%w: kernel %d larger than padded input %s", ml.ErrShapeMismatch, size, ml.ShapeString(x.Shape()))
		}

		x = x.PadExt(b.ctx, 0, 0, 1, 0, 1, 0, 0, 0)
		t = conv.Forward(b.ctx, x, stride, stride, 0, 0, 1, 1)
	} else {
		before := (size - 1) / 2
		after := size - 1 - before
		if before == after {
			t = conv.Forward(b.ctx, x, 1, 1, before, before, 1, 1)
		} else {
			x = x.PadExt(b.ctx, 0, 0, before, after, before, after, 0, 0)
			t = conv.Forward(b.ctx, x, 1, 1, 0, 0, 1, 1)
		}
	}

	if bn {
		norm := nn.NewBatchNorm(b.ctx, filters, batchNormEpsilon)
		name := fmt.Sprintf("bnorm_%d", i)
		b.param(name+".gamma", norm.Gamma)
		b.param(name+".beta", norm.Beta)
		b.param(name+".moving_mean", norm.Mean)
		b.param(name+".moving_variance", norm.Variance)
		info.Params += 4 * filters

		t = norm.Forward(b.ctx, t)
	}

	if activation == "leaky" {
		t = t.LeakyRELU(b.ctx, leakySlope)
	}

	info.Filters = filters
	return t, info, nil
}

func (b *builder) upsample(i int, x ml.Tensor, block *parser.Block) (ml.Tensor, model.LayerInfo, error) {
	info := model.LayerInfo{Name: fmt.Sprintf("upsample_%d", i), Filters: b.prevFilters(i)}

	stride, err := block.Int("stride")
	if err != nil {
		return nil, info, err
	}

	if stride <= 0 {
		return nil, info, fmt.Errorf("%w: stride=%d must be positive", ErrMalformedBlock, stride)
	}

	shape := x.Shape()
	t := x.Interpolate(b.ctx, [4]int{shape[0], shape[1] * stride, shape[2] * stride, shape[3]}, ml.SamplingModeNearest)
	return t, info, nil
}

// route gibt eine fruehere Ausgabe unveraendert weiter oder verbindet
// mehrere entlang der Kanalachse
func (b *builder) route(i int, block *parser.Block) (ml.Tensor, model.LayerInfo, error) {
	info := model.LayerInfo{Name: fmt.Sprintf("route_%d", i)}

	values, err := block.Ints("layers")
	if err != nil {
		return nil, info, err
	}

	for _, v := range values {
		j, err := b.resolve(i, v)
		if err != nil {
			return nil, info, err
		}
		info.Refs = append(info.Refs, j)
	}

	first := b.outputs[info.Refs[0]]
	for _, j := range info.Refs[1:] {
		if got, want := b.outputs[j].Shape()[:3], first.Shape()[:3]; !slices.Equal(got, want) {
			return nil, info, fmt.Errorf("%w: route layers %d %s and %d %s", ml.ErrShapeMismatch,
				info.Refs[0], ml.ShapeString(first.Shape()), j, ml.ShapeString(b.outputs[j].Shape()))
		}
	}

	t := first
	info.Filters = b.filters[info.Refs[0]]
	for _, j := range info.Refs[1:] {
		t = t.Concat(b.ctx, b.outputs[j], 3)
		info.Filters += b.filters[j]
	}

	return t, info, nil
}

// shortcut addiert die vorherige Ausgabe und die Ausgabe bei from
func (b *builder) shortcut(i int, block *parser.Block) (ml.Tensor, model.LayerInfo, error) {
	info := model.LayerInfo{Name: fmt.Sprintf("shortcut_%d", i)}

	from, err := block.Int("from")
	if err != nil {
		return nil, info, err
	}

	if i == 0 {
		return nil, info, fmt.Errorf("%w: shortcut needs a previous layer", ErrReference)
	}

	j, err := b.resolve(i, from)
	if err != nil {
		return nil, info, err
	}

	prev, other := b.outputs[i-1], b.outputs[j]
	if !ml.SameShape(prev, other) {
		return nil, info, fmt.Errorf("%w: shortcut from layer %d %s onto %s", ml.ErrShapeMismatch,
			j, ml.ShapeString(other.Shape()), ml.ShapeString(prev.Shape()))
	}

	t := prev.Add(b.ctx, other)
	if activation, _ := block.Get("activation"); activation == "leaky" {
		t = t.LeakyRELU(b.ctx, leakySlope)
	}

	info.Refs = []int{i - 1, j}
	info.Filters = b.filters[i-1]
	return t, info, nil
}
