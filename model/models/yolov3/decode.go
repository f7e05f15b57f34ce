// Modul: decode.go
// Beschreibung: Dekodierung der yolo-Bloecke in Boxen und Akkumulation ueber alle Skalen
// Hauptstrukturen:
//   - yolo: Validierung von anchors, mask und classes
//   - decode: Sigmoid/Exp, Anchor-Skalierung und Gitter-Offsets
//   - gridOffsets: (x, y) Zellkoordinaten pro Zeile

package yolov3

import (
	"fmt"
	"log/slog"

	"github.com/yolograph/yolograph/ml"
	"github.com/yolograph/yolograph/model"
	"github.com/yolograph/yolograph/parser"
)

// anchor ist ein Box-Prior (Breite, Hoehe) in Pixeln des Eingabebildes
type anchor [2]float32

// anchors liest die anchors-Paare und waehlt die per mask indizierten aus.
// Ohne mask werden alle Paare verwendet.
func anchors(block *parser.Block) ([]anchor, error) {
	values, err := block.Floats("anchors")
	if err != nil {
		return nil, err
	}

	if len(values)%2 != 0 {
		return nil, fmt.Errorf("%w: anchors has %d values, want (width, height) pairs", ErrMalformedBlock, len(values))
	}

	all := make([]anchor, len(values)/2)
	for i := range all {
		all[i] = anchor{values[2*i], values[2*i+1]}
	}

	if !block.Has("mask") {
		return all, nil
	}

	mask, err := block.Ints("mask")
	if err != nil {
		return nil, err
	}

	selected := make([]anchor, len(mask))
	for i, m := range mask {
		if m < 0 || m >= len(all) {
			return nil, fmt.Errorf("%w: mask index %d outside %d anchors", ErrMalformedBlock, m, len(all))
		}
		selected[i] = all[m]
	}

	return selected, nil
}

func (b *builder) yolo(i int, x ml.Tensor, block *parser.Block) (ml.Tensor, model.LayerInfo, error) {
	info := model.LayerInfo{Name: fmt.Sprintf("yolo_%d", i), Filters: b.prevFilters(i)}

	selected, err := anchors(block)
	if err != nil {
		return nil, info, err
	}

	classes, err := block.IntOr("classes", 0)
	if err != nil {
		return nil, info, err
	}

	numClasses := b.opts.NumClasses
	switch {
	case numClasses == 0:
		numClasses = classes
	case classes != 0 && classes != numClasses:
		slog.Warn("class count differs from config", "layer", i, "config", classes, "using", numClasses)
	}

	if numClasses <= 0 {
		return nil, info, fmt.Errorf("%w: number of classes not set", ErrMalformedBlock)
	}

	if b.seenScale && numClasses != b.numClasses {
		return nil, info, fmt.Errorf("%w: %d classes after %d in an earlier yolo layer", ml.ErrShapeMismatch, numClasses, b.numClasses)
	}

	if want := len(selected) * (5 + numClasses); x.Dim(3) != want {
		return nil, info, fmt.Errorf("%w: yolo input %s has %d channels, want %d anchors x (5 + %d classes) = %d",
			ml.ErrShapeMismatch, ml.ShapeString(x.Shape()), x.Dim(3), len(selected), numClasses, want)
	}

	pred := b.decode(x, selected, numClasses)
	if b.seenScale {
		b.pred = b.pred.Concat(b.ctx, pred, 1)
	} else {
		b.pred = pred
		b.seenScale = true
		b.numClasses = numClasses
	}

	slog.Debug("detection scale", "layer", i, "grid", fmt.Sprintf("%dx%d", x.Dim(1), x.Dim(2)), "anchors", len(selected), "rows", pred.Dim(1))
	return x, info, nil
}

// decode bildet [batch, gh, gw, nA*(5+C)] auf [batch, nA*gh*gw, 5+C] ab.
// Jede Zeile ist (cx, cy, w, h, conf, classes...) in Pixeln des Eingabebildes;
// die Zeilen laufen ueber die Zellen, innerhalb einer Zelle ueber die Anchors.
func (b *builder) decode(x ml.Tensor, anchors []anchor, numClasses int) ml.Tensor {
	ctx := b.ctx
	n, gh, gw := x.Dim(0), x.Dim(1), x.Dim(2)
	nA := len(anchors)
	rows := nA * gh * gw
	attrs := 5 + numClasses

	t := x.Reshape(ctx, n, rows, attrs)

	centers := t.Slice(ctx, 2, 0, 2, 1).Sigmoid(ctx)
	shapes := t.Slice(ctx, 2, 2, 4, 1).Exp(ctx)
	conf := t.Slice(ctx, 2, 4, 5, 1).Sigmoid(ctx)
	classes := t.Slice(ctx, 2, 5, attrs, 1).Sigmoid(ctx)

	flat := make([]float32, 0, 2*nA)
	for _, a := range anchors {
		flat = append(flat, a[0], a[1])
	}
	sizes := ctx.Input().FromFloats(flat, nA, 2).Repeat(ctx, 0, gh*gw)
	shapes = shapes.Mul(ctx, sizes)

	imageH, imageW := b.image.Dim(1), b.image.Dim(2)
	stride := ctx.Input().FromFloats([]float32{float32(imageW / gw), float32(imageH / gh)}, 2)
	centers = centers.Add(ctx, gridOffsets(ctx, gh, gw, nA)).Mul(ctx, stride)

	return centers.Concat(ctx, shapes, 2).Concat(ctx, conf, 2).Concat(ctx, classes, 2)
}

// gridOffsets gibt [gh*gw*nA, 2] zurueck: fuer jede Zelle (Spalte, Zeile),
// nA-mal wiederholt
func gridOffsets(ctx ml.Context, gh, gw, nA int) ml.Tensor {
	cx := ctx.Arange(0, float32(gw), 1, ml.DTypeF32).Reshape(ctx, 1, gw, 1).Repeat(ctx, 0, gh)
	cy := ctx.Arange(0, float32(gh), 1, ml.DTypeF32).Reshape(ctx, gh, 1, 1).Repeat(ctx, 1, gw)

	return cx.Concat(ctx, cy, 2).
		Reshape(ctx, gh*gw, 1, 2).
		Repeat(ctx, 1, nA).
		Reshape(ctx, gh*gw*nA, 2)
}
