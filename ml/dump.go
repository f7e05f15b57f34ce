// dump.go - Textdarstellung berechneter Tensoren
// Hauptfunktionen: Dump, DumpWithPrecision, DumpWithEdgeItems
package ml

import (
	"strconv"
	"strings"
)

// DumpOption konfiguriert die Ausgabe von Dump
type DumpOption func(*dumpOptions)

// DumpWithPrecision setzt die Anzahl der Nachkommastellen
func DumpWithPrecision(n int) DumpOption {
	return func(o *dumpOptions) {
		o.precision = n
	}
}

// DumpWithEdgeItems setzt, wie viele Eintraege am Anfang und Ende jeder
// Achse stehen bleiben. Laengere Achsen werden mit "..." gekuerzt.
func DumpWithEdgeItems(n int) DumpOption {
	return func(o *dumpOptions) {
		o.edgeItems = max(n, 1)
	}
}

type dumpOptions struct {
	precision, edgeItems int
}

// Dump formatiert einen berechneten Tensor als verschachtelte Liste.
// Ein Tensor ohne Daten ergibt "<not computed>".
func Dump(t Tensor, opts ...DumpOption) string {
	o := dumpOptions{precision: 4, edgeItems: 3}
	for _, opt := range opts {
		opt(&o)
	}

	data := t.Floats()
	if data == nil {
		return "<not computed>"
	}

	shape := t.Shape()
	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}

	d := dumper{data: data, shape: shape, strides: strides, opts: o}
	var sb strings.Builder
	d.write(&sb, 0, 0)
	return sb.String()
}

type dumper struct {
	data           []float32
	shape, strides []int
	opts           dumpOptions
}

func (d *dumper) write(sb *strings.Builder, axis, offset int) {
	if axis == len(d.shape) {
		text := strconv.FormatFloat(float64(d.data[offset]), 'f', d.opts.precision, 32)
		if !strings.HasPrefix(text, "-") {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
		return
	}

	// innere Achsen werden pro Zeile umgebrochen und eingerueckt
	sep := ", "
	if inner := len(d.shape) - axis - 1; inner > 0 {
		sep = "," + strings.Repeat("\n", inner) + strings.Repeat(" ", axis+1)
	}

	n, edge := d.shape[axis], d.opts.edgeItems
	sb.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(sep)
		}

		if i == edge && n > 2*edge {
			sb.WriteString("...")
			i = n - edge - 1
			continue
		}

		d.write(sb, axis+1, offset+i*d.strides[axis])
	}
	sb.WriteByte(']')
}
