// context.go - Context-Struktur und Kern-Methoden
// Enthaelt: Context struct, Input(), Forward(), Compute(), Close() und Blatt-Tensoren

package cpu

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/yolograph/yolograph/logutil"
	"github.com/yolograph/yolograph/ml"
)

// Context sammelt die Knoten eines Graphen und fuehrt sie aus
type Context struct {
	b *Backend

	// forward sind die per Forward() registrierten Ausgaben
	forward []*Tensor

	// nodes zaehlt die angelegten Operationsknoten
	nodes int

	// epoch markiert den aktuellen Compute-Durchlauf
	epoch uint64
}

// Input gibt einen Kontext fuer Eingabe-Tensoren zurueck
func (c *Context) Input() ml.Context {
	return c
}

// Forward fuegt Tensoren zum Berechnungsgraphen hinzu
func (c *Context) Forward(tensors ...ml.Tensor) ml.Context {
	for _, t := range tensors {
		c.forward = append(c.forward, asTensor(t))
	}

	return c
}

// Compute berechnet alle registrierten und uebergebenen Tensoren
func (c *Context) Compute(tensors ...ml.Tensor) {
	start := time.Now()
	c.epoch++

	for _, t := range c.forward {
		c.eval(t)
	}

	for _, t := range tensors {
		c.eval(asTensor(t))
	}

	slog.Debug("compute graph", "nodes", c.nodes, "outputs", len(c.forward)+len(tensors), "threads", c.b.numThreads, "duration", time.Since(start))
}

// eval berechnet t nach seinen Quellen; Blaetter tragen ihre Daten bereits
func (c *Context) eval(t *Tensor) {
	if t.eval == nil || t.epoch == c.epoch {
		return
	}

	for _, src := range t.srcs {
		c.eval(src)
	}

	t.eval(t)
	t.epoch = c.epoch
	logutil.Trace("compute node", "op", t.op, "shape", ml.ShapeString(t.shape))
}

func (c *Context) Close() {
	c.forward = nil
}

// =============================================================================
// Blatt-Tensoren
// =============================================================================

func (c *Context) leaf(dtype ml.DType, shape []int) *Tensor {
	if dtype != ml.DTypeF32 && dtype != ml.DTypeF16 {
		panic(fmt.Sprintf("cpu: unsupported dtype %v", dtype))
	}

	for _, d := range shape {
		if d <= 0 {
			panic(fmt.Errorf("%w: invalid dimension in %v", ml.ErrShapeMismatch, shape))
		}
	}

	return &Tensor{
		c:     c,
		op:    "leaf",
		shape: append([]int(nil), shape...),
		dtype: dtype,
		data:  make([]float32, ml.Elements(shape...)),
	}
}

func (c *Context) Empty(dtype ml.DType, shape ...int) ml.Tensor {
	return c.leaf(dtype, shape)
}

func (c *Context) Zeros(dtype ml.DType, shape ...int) ml.Tensor {
	return c.leaf(dtype, shape)
}

func (c *Context) FromBytes(dtype ml.DType, s []byte, shape ...int) ml.Tensor {
	t := c.leaf(dtype, shape)
	t.FromBytes(s)
	return t
}

func (c *Context) FromFloats(s []float32, shape ...int) ml.Tensor {
	t := c.leaf(ml.DTypeF32, shape)
	t.FromFloats(s)
	return t
}

func (c *Context) Arange(start, stop, step float32, dtype ml.DType) ml.Tensor {
	if step == 0 || (stop-start)/step <= 0 {
		panic(fmt.Sprintf("cpu: empty arange [%v, %v) step %v", start, stop, step))
	}

	n := int(math.Ceil(float64((stop - start) / step)))
	t := c.leaf(dtype, []int{n})
	for i := range t.data {
		t.data[i] = start + float32(i)*step
	}

	return t
}
