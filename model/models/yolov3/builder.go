// Modul: builder.go
// Beschreibung: Linearer Aufbau des Graphen ueber alle Layer-Bloecke
// Hauptstrukturen:
//   - builder: Ausgabentabelle, Filterliste und Vorhersage-Akkumulator
//   - build: Dispatch pro Block auf die Schicht-Konstruktoren
//   - resolve: Aufloesung von route/shortcut Verweisen

package yolov3

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/yolograph/yolograph/logutil"
	"github.com/yolograph/yolograph/ml"
	"github.com/yolograph/yolograph/model"
	"github.com/yolograph/yolograph/parser"
)

// builder traegt den Zustand eines einzelnen Aufbaus. outputs und filters
// wachsen im Gleichschritt, Index i wird genau einmal belegt.
type builder struct {
	ctx  ml.Context
	opts model.Options

	// image ist die skalierte Eingabe [batch, height, width, channels]
	image ml.Tensor

	outputs []ml.Tensor
	filters []int
	layers  []model.LayerInfo

	params map[string]ml.Tensor
	names  []string

	pred       ml.Tensor
	seenScale  bool
	numClasses int
}

func newBuilder(ctx ml.Context, image ml.Tensor, opts model.Options) *builder {
	return &builder{
		ctx:    ctx,
		opts:   opts,
		image:  image,
		params: make(map[string]ml.Tensor),
	}
}

func (b *builder) build(blocks []*parser.Block) error {
	for i, block := range blocks {
		kind, err := ParseKind(block.Type())
		if err != nil {
			return &LayerError{Index: i, Kind: block.Type(), Line: block.Line, Err: err}
		}

		t, info, err := b.layer(i, kind, block)
		if err != nil {
			return &LayerError{Index: i, Kind: kind.String(), Line: block.Line, Err: malformed(err)}
		}

		info.Index = i
		info.Kind = kind.String()
		info.Shape = t.Shape()

		b.outputs = append(b.outputs, t)
		b.filters = append(b.filters, info.Filters)
		b.layers = append(b.layers, info)

		slog.Debug("built layer", "index", i, "kind", kind, "shape", ml.ShapeString(info.Shape), "filters", info.Filters)
	}

	if !b.seenScale {
		return fmt.Errorf("%w: config has no yolo layer", ErrMalformedBlock)
	}

	return nil
}

// layer baut eine Schicht. Shape-Fehler werden vorher geprueft; ein Panic
// des Backends mit ml.ErrShapeMismatch wird trotzdem als Fehler gemeldet.
func (b *builder) layer(i int, kind Kind, block *parser.Block) (t ml.Tensor, info model.LayerInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && errors.Is(e, ml.ErrShapeMismatch) {
				err = e
				return
			}
			panic(r)
		}
	}()

	x := b.input(i)
	switch kind {
	case KindConvolutional:
		return b.convolutional(i, x, block)
	case KindUpsample:
		return b.upsample(i, x, block)
	case KindRoute:
		return b.route(i, block)
	case KindShortcut:
		return b.shortcut(i, block)
	case KindYOLO:
		return b.yolo(i, x, block)
	default:
		return nil, info, fmt.Errorf("%w: unhandled layer type %v", ErrMalformedBlock, kind)
	}
}

// input gibt die Ausgabe der vorherigen Schicht zurueck, fuer i == 0 das Bild
func (b *builder) input(i int) ml.Tensor {
	if i == 0 {
		return b.image
	}

	return b.outputs[i-1]
}

// prevFilters ist die Kanalzahl, die Schichten ohne eigene Filter weiterreichen
func (b *builder) prevFilters(i int) int {
	if i == 0 {
		return b.image.Dim(3)
	}

	return b.filters[i-1]
}

// resolve bildet einen Verweis v der Schicht i auf einen Index in [0, i) ab.
// Negative Werte sind relativ zu i, alle anderen absolut.
func (b *builder) resolve(i, v int) (int, error) {
	j := v
	if v < 0 {
		j = i + v
	}

	if j < 0 || j >= i {
		return 0, fmt.Errorf("%w: %d resolves to layer %d, want [0, %d)", ErrReference, v, j, i)
	}

	logutil.Trace("resolved reference", "layer", i, "value", v, "index", j)
	return j, nil
}

// param registriert einen Gewichts-Tensor unter name
func (b *builder) param(name string, t ml.Tensor) {
	b.params[name] = t
	b.names = append(b.names, name)
}

// malformed ordnet fehlende Pflichtfelder ErrMalformedBlock zu
func malformed(err error) error {
	if errors.Is(err, parser.ErrMissingKey) && !errors.Is(err, ErrMalformedBlock) {
		return fmt.Errorf("%w: %w", ErrMalformedBlock, err)
	}

	return err
}
