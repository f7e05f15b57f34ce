// tensor_nn.go - Neuronale Netzwerk-Operationen
// Enthaelt: Conv2D (im2col + SGEMM), PadExt, Interpolate

package cpu

import (
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/yolograph/yolograph/ml"
)

// minConvRows ist die kleinste Anzahl Ausgabepixel pro Worker
const minConvRows = 64

type convGeometry struct {
	h, w, c   int
	kh, kw, f int
	oh, ow    int
	s0, s1    int
	p0, p1    int
	d0, d1    int
}

func (t *Tensor) Conv2D(ctx ml.Context, weight ml.Tensor, s0, s1, p0, p1, d0, d1 int) ml.Tensor {
	w := asTensor(weight)
	if len(t.shape) != 4 || len(w.shape) != 4 || w.shape[2] != t.shape[3] {
		panic(fmt.Errorf("%w: conv2d input %s weight %s", ml.ErrShapeMismatch, ml.ShapeString(t.shape), ml.ShapeString(w.shape)))
	}

	g := convGeometry{
		h: t.shape[1], w: t.shape[2], c: t.shape[3],
		kh: w.shape[0], kw: w.shape[1], f: w.shape[3],
		s0: s0, s1: s1, p0: p0, p1: p1, d0: d0, d1: d1,
	}
	g.oh = (g.h+2*p1-d1*(g.kh-1)-1)/s1 + 1
	g.ow = (g.w+2*p0-d0*(g.kw-1)-1)/s0 + 1
	if g.oh <= 0 || g.ow <= 0 {
		panic(fmt.Errorf("%w: conv2d kernel %dx%d larger than input %s", ml.ErrShapeMismatch, g.kh, g.kw, ml.ShapeString(t.shape)))
	}

	n := t.shape[0]
	return node(ctx, "conv2d", t.dtype, []int{n, g.oh, g.ow, g.f}, func(out *Tensor) {
		g.run(out.c.b.numThreads, n, t.data, w.data, out.alloc())
	}, t, w)
}

// run faltet jedes Bild des Batches; die Ausgabepixel werden in Bloecke
// aufgeteilt, die parallel per im2col und SGEMM berechnet werden
func (g convGeometry) run(threads, n int, src, weight, dst []float32) {
	k := g.kh * g.kw * g.c
	rows := g.oh * g.ow
	chunk := max(minConvRows, (rows+threads-1)/threads)

	var eg errgroup.Group
	eg.SetLimit(threads)
	for b := range n {
		img := src[b*g.h*g.w*g.c : (b+1)*g.h*g.w*g.c]
		for lo := 0; lo < rows; lo += chunk {
			hi := min(lo+chunk, rows)
			eg.Go(func() error {
				col := make([]float32, (hi-lo)*k)
				g.im2col(img, col, lo, hi)
				blas32.Gemm(blas.NoTrans, blas.NoTrans, 1,
					blas32.General{Rows: hi - lo, Cols: k, Data: col, Stride: k},
					blas32.General{Rows: k, Cols: g.f, Data: weight, Stride: g.f},
					0,
					blas32.General{Rows: hi - lo, Cols: g.f, Data: dst[(b*rows+lo)*g.f : (b*rows+hi)*g.f], Stride: g.f},
				)
				return nil
			})
		}
	}

	_ = eg.Wait()
}

// im2col schreibt fuer die Ausgabepixel [lo, hi) je eine Zeile mit dem
// Empfangsfeld im Layout (ky, kx, c); Pixel ausserhalb des Bildes sind 0
func (g convGeometry) im2col(img, col []float32, lo, hi int) {
	k := g.kh * g.kw * g.c
	for r := lo; r < hi; r++ {
		oy, ox := r/g.ow, r%g.ow
		row := col[(r-lo)*k : (r-lo+1)*k]

		i := 0
		for ky := range g.kh {
			iy := oy*g.s1 - g.p1 + ky*g.d1
			for kx := range g.kw {
				ix := ox*g.s0 - g.p0 + kx*g.d0
				if iy < 0 || iy >= g.h || ix < 0 || ix >= g.w {
					clear(row[i : i+g.c])
				} else {
					off := (iy*g.w + ix) * g.c
					copy(row[i:i+g.c], img[off:off+g.c])
				}
				i += g.c
			}
		}
	}
}

func (t *Tensor) PadExt(ctx ml.Context, pads ...int) ml.Tensor {
	rank := len(t.shape)
	if len(pads) != 2*rank {
		panic(fmt.Sprintf("cpu: pad needs %d values for shape %s, got %d", 2*rank, ml.ShapeString(t.shape), len(pads)))
	}

	shape := make([]int, rank)
	for d := range rank {
		if pads[2*d] < 0 || pads[2*d+1] < 0 {
			panic(fmt.Sprintf("cpu: negative pad %v", pads))
		}
		shape[d] = t.shape[d] + pads[2*d] + pads[2*d+1]
	}

	pads = slices.Clone(pads)
	return node(ctx, "pad", t.dtype, shape, func(out *Tensor) {
		dst := out.alloc()
		clear(dst)

		inner := t.shape[rank-1]
		outer := len(t.data) / inner
		idx := make([]int, rank-1)
		for o := range outer {
			off := 0
			for d := range rank - 1 {
				off = off*shape[d] + idx[d] + pads[2*d]
			}
			off = off*shape[rank-1] + pads[2*(rank-1)]
			copy(dst[off:off+inner], t.data[o*inner:(o+1)*inner])

			for d := rank - 2; d >= 0; d-- {
				idx[d]++
				if idx[d] < t.shape[d] {
					break
				}
				idx[d] = 0
			}
		}
	}, t)
}

// Interpolate skaliert ein [N, H, W, C] Bild raeumlich auf dims[1] x dims[2]
func (t *Tensor) Interpolate(ctx ml.Context, dims [4]int, samplingMode ml.SamplingMode) ml.Tensor {
	if samplingMode != ml.SamplingModeNearest {
		panic(fmt.Sprintf("cpu: unsupported sampling mode %d", samplingMode))
	}

	if len(t.shape) != 4 || dims[0] != t.shape[0] || dims[3] != t.shape[3] || dims[1] <= 0 || dims[2] <= 0 {
		panic(fmt.Errorf("%w: interpolate %s to %v", ml.ErrShapeMismatch, ml.ShapeString(t.shape), dims))
	}

	shape := dims[:]
	h, w := t.shape[1], t.shape[2]
	if dims[1]%h == 0 && dims[2]%w == 0 {
		sh, sw := dims[1]/h, dims[2]/w
		return node(ctx, "upscale", t.dtype, shape, func(out *Tensor) {
			d := dense(t.shape, t.data)
			r, err := repeat(d, 1, sh)
			if err == nil {
				r, err = repeat(r, 2, sw)
			}
			if err != nil {
				panic(err)
			}
			materialize(r, out.alloc())
		}, t)
	}

	return node(ctx, "interpolate", t.dtype, shape, func(out *Tensor) {
		dst := out.alloc()
		n, c := dims[0], dims[3]
		i := 0
		for b := range n {
			for y := range dims[1] {
				sy := y * h / dims[1]
				for x := range dims[2] {
					sx := x * w / dims[2]
					off := ((b*h+sy)*w + sx) * c
					copy(dst[i:i+c], t.data[off:off+c])
					i += c
				}
			}
		}
	}, t)
}
