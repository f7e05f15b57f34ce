package model

import (
	"github.com/yolograph/yolograph/envconfig"
	"github.com/yolograph/yolograph/ml"
)

// Options steuert den Aufbau eines Modells. Nullwerte bedeuten: aus der
// Konfiguration uebernehmen.
type Options struct {
	Height, Width, Channels int

	// NumClasses ueberschreibt "classes" der Detektionsbloecke
	NumClasses int

	BatchSize int

	Backend       string
	BackendParams ml.BackendParams
}

type Option func(*Options)

// WithInputShape setzt die Eingabegroesse statt height/width/channels aus [net]
func WithInputShape(height, width, channels int) Option {
	return func(o *Options) {
		o.Height, o.Width, o.Channels = height, width, channels
	}
}

func WithNumClasses(n int) Option {
	return func(o *Options) {
		o.NumClasses = n
	}
}

func WithBatchSize(n int) Option {
	return func(o *Options) {
		o.BatchSize = n
	}
}

// WithBackend waehlt ein per ml.RegisterBackend registriertes Backend
func WithBackend(name string, params ml.BackendParams) Option {
	return func(o *Options) {
		o.Backend = name
		o.BackendParams = params
	}
}

// NewOptions wendet opts auf die Defaults aus der Umgebung an
func NewOptions(opts ...Option) Options {
	o := Options{
		NumClasses: int(envconfig.NumClasses()),
		BatchSize:  int(envconfig.BatchSize()),
		Backend:    envconfig.Backend(),
		BackendParams: ml.BackendParams{
			NumThreads: envconfig.NumThreads(),
		},
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.BatchSize <= 0 {
		o.BatchSize = 1
	}

	return o
}
