// Modul: model.go
// Beschreibung: YOLOv3 Modell-Definition und Initialisierung
// Hauptstrukturen:
//   - Model: fertiger Graph mit Eingabe, Vorhersagen und Gewichts-Tabelle
//   - New: Baut das Netzwerk aus einer Darknet-Konfiguration
//   - Forward: Fuellt die Eingabe und berechnet die Vorhersagen

package yolov3

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/yolograph/yolograph/ml"
	"github.com/yolograph/yolograph/model"
	"github.com/yolograph/yolograph/parser"
)

// Model ist ein aufgebautes YOLOv3-Netzwerk. Die Ausgabe hat die Shape
// [batch, rows, 5+classes] mit rows = Summe nA*gh*gw ueber alle yolo-Schichten.
type Model struct {
	mu sync.Mutex

	backend ml.Backend
	ctx     ml.Context

	input  ml.Tensor
	output ml.Tensor

	layers     []model.LayerInfo
	params     map[string]ml.Tensor
	names      []string
	numClasses int
}

// New baut das Netzwerk aus c. Der erste Block ist [net], alle weiteren
// werden in Reihenfolge als Schichten aufgebaut.
func New(c *parser.Config, opts ...model.Option) (*Model, error) {
	return build(c, model.NewOptions(opts...))
}

func build(c *parser.Config, opts model.Options) (*Model, error) {
	start := time.Now()

	net, _ := c.Net()
	shape, err := inputShape(net, opts)
	if err != nil {
		return nil, err
	}

	backend, err := ml.NewBackend(opts.Backend, opts.BackendParams)
	if err != nil {
		return nil, err
	}

	ctx := backend.NewContext()
	input := ctx.Input().Empty(ml.DTypeF32, shape...)

	b := newBuilder(ctx, input.Scale(ctx, 1.0/255), opts)
	if err := b.build(c.Layers()); err != nil {
		ctx.Close()
		backend.Close()
		return nil, err
	}

	ctx.Forward(b.pred)

	slog.Debug("built yolov3 graph", "layers", len(b.layers), "input", ml.ShapeString(shape),
		"output", ml.ShapeString(b.pred.Shape()), "params", len(b.names), "duration", time.Since(start))

	return &Model{
		backend:    backend,
		ctx:        ctx,
		input:      input,
		output:     b.pred,
		layers:     b.layers,
		params:     b.params,
		names:      b.names,
		numClasses: b.numClasses,
	}, nil
}

// inputShape nimmt die Optionen und faellt auf height/width/channels in [net] zurueck
func inputShape(net *parser.Block, opts model.Options) ([]int, error) {
	h, w, c := opts.Height, opts.Width, opts.Channels
	if net != nil {
		var err error
		if h == 0 {
			if h, err = net.IntOr("height", 0); err != nil {
				return nil, err
			}
		}
		if w == 0 {
			if w, err = net.IntOr("width", 0); err != nil {
				return nil, err
			}
		}
		if c == 0 {
			if c, err = net.IntOr("channels", 0); err != nil {
				return nil, err
			}
		}
	}

	if c == 0 {
		c = 3
	}

	if h <= 0 || w <= 0 || c <= 0 {
		return nil, fmt.Errorf("%w: input shape %dx%dx%d, set height and width in [net] or pass WithInputShape", ErrMalformedBlock, h, w, c)
	}

	return []int{opts.BatchSize, h, w, c}, nil
}

// Forward erwartet pixels im Layout [batch, height, width, channels] mit
// Werten 0..255. Aufrufe werden serialisiert; der zurueckgegebene Tensor
// ist bis zum naechsten Aufruf gueltig.
func (m *Model) Forward(pixels []float32) (ml.Tensor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if want := ml.Elements(m.input.Shape()...); len(pixels) != want {
		return nil, fmt.Errorf("%w: %d values for input %s", ml.ErrShapeMismatch, len(pixels), ml.ShapeString(m.input.Shape()))
	}

	m.input.FromFloats(pixels)
	m.ctx.Compute(m.output)
	return m.output, nil
}

func (m *Model) InputShape() []int {
	return m.input.Shape()
}

func (m *Model) OutputShape() []int {
	return m.output.Shape()
}

// NumClasses ist die Anzahl Klassenwerte pro Zeile der Ausgabe
func (m *Model) NumClasses() int {
	return m.numClasses
}

func (m *Model) Layers() []model.LayerInfo {
	return slices.Clone(m.layers)
}

// Parameter sucht Gewichte nach Keras-Namen, z.B. "conv_0.weight" oder "bnorm_1.moving_mean"
func (m *Model) Parameter(name string) ml.Tensor {
	return m.params[name]
}

// Parameters listet alle Gewichtsnamen in Aufbaureihenfolge
func (m *Model) Parameters() []string {
	return slices.Clone(m.names)
}

// SetParameter ueberschreibt ein Gewicht mit little-endian Daten im Typ dtype
func (m *Model) SetParameter(name string, dtype ml.DType, b []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.params[name]
	if !ok {
		return fmt.Errorf("%w: %q", model.ErrUnknownParameter, name)
	}

	shape := t.Shape()
	if size := dtype.Size(); size == 0 || len(b) != ml.Elements(shape...)*size {
		return fmt.Errorf("%w: %d bytes of %v for %s %s", ml.ErrShapeMismatch, len(b), dtype, name, ml.ShapeString(shape))
	}

	if dtype == t.DType() {
		t.FromBytes(b)
		return nil
	}

	t.FromFloats(m.ctx.Input().FromBytes(dtype, b, shape...).Floats())
	return nil
}

func (m *Model) Close() {
	m.ctx.Close()
	m.backend.Close()
}

func init() {
	model.Register("yolov3", func(c *parser.Config, opts model.Options) (model.Model, error) {
		m, err := build(c, opts)
		if err != nil {
			return nil, err
		}
		return m, nil
	})
}
