// Package cpu - reines Go-Backend fuer ml.Context und ml.Tensor
//
// Dieses Modul enthaelt:
// - Backend: Registrierung unter "cpu" und Thread-Konfiguration
// - New: Factory fuer ml.RegisterBackend
//
// Graphen werden lazy aufgebaut: jede Operation legt einen Knoten mit
// bereits bekannter Shape an, berechnet wird erst in Context.Compute.
package cpu

import (
	"log/slog"
	"runtime"

	"github.com/yolograph/yolograph/ml"
)

func init() {
	ml.RegisterBackend("cpu", New)
}

// Backend fuehrt Graphen auf der CPU aus
type Backend struct {
	numThreads int
}

// New erstellt ein CPU-Backend; NumThreads <= 0 nutzt alle Kerne
func New(params ml.BackendParams) (ml.Backend, error) {
	threads := params.NumThreads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	slog.Debug("cpu backend", "threads", threads)
	return &Backend{numThreads: threads}, nil
}

func (b *Backend) Name() string {
	return "cpu"
}

// NumThreads gibt die Anzahl paralleler Kernel-Worker zurueck
func (b *Backend) NumThreads() int {
	return b.numThreads
}

func (b *Backend) NewContext() ml.Context {
	return &Context{b: b}
}

func (b *Backend) Close() {}
