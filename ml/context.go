// context.go - Context und Tensor Interfaces fuer ML-Operationen
// Dieses Modul definiert die Schnittstellen fuer Tensor-Operationen und Compute-Kontexte.
//
// Tensoren sind zeilenweise (row-major) abgelegt, die letzte Dimension
// laeuft am schnellsten. Bilder haben das Layout [batch, height, width, channels].
package ml

// Context represents an execution context for tensor operations.
type Context interface {
	Empty(dtype DType, shape ...int) Tensor
	Zeros(dtype DType, shape ...int) Tensor
	FromBytes(dtype DType, s []byte, shape ...int) Tensor
	FromFloats(s []float32, shape ...int) Tensor

	// Arange creates a 1D tensor with values within the interval [start, stop) increased by step.
	Arange(start, stop, step float32, dtype DType) Tensor

	Forward(...Tensor) Context

	// Compute executes the graph for every tensor passed to Forward and the
	// given tensors. Leaf tensors can be refilled between calls.
	Compute(...Tensor)

	// Input returns a context appropriate for creating tensors that are
	// inputs to the graph
	Input() Context

	Close()
}

// Tensor represents a multi-dimensional array with various operations.
//
// Operations do not run immediately; they add a node to the graph owned by
// ctx and return its result tensor with the shape already known.
type Tensor interface {
	Dim(n int) int
	Shape() []int
	DType() DType

	Bytes() []byte
	Floats() []float32

	FromBytes([]byte)
	FromFloats([]float32)

	// Add, Sub, Mul and Div broadcast t2 numpy-style into the shape of t.
	Add(ctx Context, t2 Tensor) Tensor
	Sub(ctx Context, t2 Tensor) Tensor
	Mul(ctx Context, t2 Tensor) Tensor
	Div(ctx Context, t2 Tensor) Tensor

	Scale(ctx Context, s float64) Tensor
	Sqrt(ctx Context) Tensor
	Exp(ctx Context) Tensor
	Sigmoid(ctx Context) Tensor
	LeakyRELU(ctx Context, negativeSlope float32) Tensor

	// Conv2D convolves an NHWC tensor with an HWIO weight. s0/p0/d0 act on
	// the width axis, s1/p1/d1 on the height axis.
	Conv2D(ctx Context, weight Tensor, s0, s1, p0, p1, d0, d1 int) Tensor

	// PadExt zero-pads every dimension; pads holds (before, after) pairs
	// starting with dimension 0.
	PadExt(ctx Context, pads ...int) Tensor

	Interpolate(ctx Context, dims [4]int, samplingMode SamplingMode) Tensor

	Reshape(ctx Context, shape ...int) Tensor
	Slice(ctx Context, dim, low, high, step int) Tensor
	Concat(ctx Context, t2 Tensor, dim int) Tensor

	// Repeat repeats the tensor n times along dimension dim
	Repeat(ctx Context, dim, n int) Tensor
}
