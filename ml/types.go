// types.go - Datentypen und Konstanten fuer ML-Operationen
// Dieses Modul definiert grundlegende Typen wie DType und SamplingMode.
package ml

import (
	"errors"
	"slices"
	"strconv"
	"strings"
)

// ErrShapeMismatch wird gemeldet, wenn zwei Tensoren fuer eine Operation
// nicht zueinander passen. Backends paniken mit einem Fehler, der darauf
// verweist; Graph-Builder pruefen vorher und geben ihn zurueck.
var ErrShapeMismatch = errors.New("shape mismatch")

// DType represents the data type of tensor elements.
type DType int

const (
	DTypeOther DType = iota
	DTypeF32
	DTypeF16
)

func (d DType) String() string {
	switch d {
	case DTypeF32:
		return "f32"
	case DTypeF16:
		return "f16"
	default:
		return "other"
	}
}

// Size gibt die Anzahl Bytes pro Element zurueck
func (d DType) Size() int {
	switch d {
	case DTypeF32:
		return 4
	case DTypeF16:
		return 2
	default:
		return 0
	}
}

// SamplingMode specifies the interpolation method for tensor resizing.
type SamplingMode int

const (
	SamplingModeNearest SamplingMode = iota
)

// ShapeString formatiert eine Shape als "1x13x13x255"
func ShapeString(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, "x")
}

// SameShape prueft zwei Tensoren auf identische Shapes
func SameShape(a, b Tensor) bool {
	return slices.Equal(a.Shape(), b.Shape())
}

// Elements gibt die Anzahl der Elemente einer Shape zurueck
func Elements(shape ...int) int {
	return mul(shape...)
}
