// tensor.go - Tensor-Struktur und Daten-Zugriff
// Enthaelt: Tensor struct, Shape-Abfragen, Bytes/Floats und Knoten-Helfer

package cpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/x448/float16"

	"github.com/yolograph/yolograph/ml"
)

// Tensor ist ein Knoten im Graphen eines Context. Blaetter haben kein eval
// und tragen ihre Daten direkt; alle anderen werden in Compute befuellt.
type Tensor struct {
	c     *Context
	op    string
	shape []int
	dtype ml.DType
	data  []float32

	srcs  []*Tensor
	eval  func(t *Tensor)
	epoch uint64
}

func asTensor(t ml.Tensor) *Tensor {
	tt, ok := t.(*Tensor)
	if !ok {
		panic(fmt.Sprintf("cpu: foreign tensor %T", t))
	}

	return tt
}

// node legt einen neuen Operationsknoten im Kontext ctx an
func node(ctx ml.Context, op string, dtype ml.DType, shape []int, eval func(t *Tensor), srcs ...*Tensor) *Tensor {
	c, ok := ctx.(*Context)
	if !ok {
		panic(fmt.Sprintf("cpu: foreign context %T", ctx))
	}

	c.nodes++
	return &Tensor{
		c:     c,
		op:    op,
		shape: shape,
		dtype: dtype,
		srcs:  srcs,
		eval:  eval,
	}
}

// alloc stellt einen Ausgabepuffer passender Groesse bereit
func (t *Tensor) alloc() []float32 {
	n := ml.Elements(t.shape...)
	if len(t.data) != n {
		t.data = make([]float32, n)
	}

	return t.data
}

func (t *Tensor) computed() bool {
	return t.eval == nil || t.epoch != 0
}

func (t *Tensor) String() string {
	return fmt.Sprintf("cpu.Tensor(%s, %s, %v)", t.op, ml.ShapeString(t.shape), t.dtype)
}

func (t *Tensor) Dim(n int) int {
	return t.shape[n]
}

func (t *Tensor) Shape() []int {
	return slices.Clone(t.shape)
}

func (t *Tensor) DType() ml.DType {
	return t.dtype
}

// Floats gibt eine Kopie der Daten zurueck, nil solange der Knoten nicht berechnet wurde
func (t *Tensor) Floats() []float32 {
	if !t.computed() {
		return nil
	}

	return slices.Clone(t.data)
}

// Bytes kodiert die Daten little-endian im DType des Tensors
func (t *Tensor) Bytes() []byte {
	if !t.computed() {
		return nil
	}

	return encode(t.dtype, t.data)
}

func (t *Tensor) FromBytes(b []byte) {
	if want := ml.Elements(t.shape...) * t.dtype.Size(); len(b) != want {
		panic(fmt.Sprintf("cpu: %d bytes for tensor %s of %v, want %d", len(b), ml.ShapeString(t.shape), t.dtype, want))
	}

	decode(t.dtype, b, t.alloc())
}

func (t *Tensor) FromFloats(s []float32) {
	if want := ml.Elements(t.shape...); len(s) != want {
		panic(fmt.Sprintf("cpu: %d floats for tensor %s, want %d", len(s), ml.ShapeString(t.shape), want))
	}

	dst := t.alloc()
	copy(dst, s)
	if t.dtype == ml.DTypeF16 {
		roundF16(dst, dst)
	}
}

func roundF16(dst, src []float32) {
	for i, v := range src {
		dst[i] = float16.Fromfloat32(v).Float32()
	}
}

func encode(dtype ml.DType, s []float32) []byte {
	switch dtype {
	case ml.DTypeF16:
		b := make([]byte, 2*len(s))
		for i, v := range s {
			binary.LittleEndian.PutUint16(b[2*i:], float16.Fromfloat32(v).Bits())
		}
		return b
	default:
		b := make([]byte, 4*len(s))
		for i, v := range s {
			binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(v))
		}
		return b
	}
}

func decode(dtype ml.DType, b []byte, dst []float32) {
	switch dtype {
	case ml.DTypeF16:
		for i := range dst {
			dst[i] = float16.Frombits(binary.LittleEndian.Uint16(b[2*i:])).Float32()
		}
	default:
		for i := range dst {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
		}
	}
}
