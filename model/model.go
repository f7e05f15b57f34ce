// Package model - Model-Interface und Architektur-Registry
//
// Dieses Paket definiert das Model-Interface und stellt Funktionen
// zur Initialisierung von Netzwerken aus Darknet-Konfigurationen bereit.
//
// Hauptkomponenten:
// - Model: Interface fuer alle Architekturen
// - LayerInfo: Beschreibung einer gebauten Schicht
// - Register: Registriert Architektur-Konstruktoren
// - New / Load: Erstellt Model-Instanzen aus einer Konfiguration

package model

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/yolograph/yolograph/ml"
	_ "github.com/yolograph/yolograph/ml/backend"
	"github.com/yolograph/yolograph/parser"
)

// Fehler-Definitionen
var (
	ErrUnsupportedModel = errors.New("model not supported")
	ErrUnknownParameter = errors.New("unknown parameter")
)

// Model ist ein fertig aufgebauter Graph, der Bilder auf Vorhersagen abbildet
type Model interface {
	// Forward befuellt den Eingabe-Tensor mit pixels ([batch, height, width, channels],
	// Werte 0..255) und berechnet die Ausgabe
	Forward(pixels []float32) (ml.Tensor, error)

	InputShape() []int
	OutputShape() []int
	Layers() []LayerInfo

	// Parameter gibt den Gewichts-Tensor mit dem Namen name zurueck, nil falls unbekannt
	Parameter(name string) ml.Tensor
	Parameters() []string

	// SetParameter ueberschreibt die Werte eines Gewichts-Tensors
	SetParameter(name string, dtype ml.DType, b []byte) error

	Close()
}

// LayerInfo beschreibt eine gebaute Schicht
type LayerInfo struct {
	Index   int
	Kind    string
	Name    string
	Shape   []int
	Filters int

	// Refs sind die aufgeloesten Indizes von route- und shortcut-Schichten
	Refs []int

	// Params ist die Anzahl der Gewichte dieser Schicht
	Params int
}

// models speichert registrierte Architektur-Konstruktoren
var models = make(map[string]func(*parser.Config, Options) (Model, error))

// Register registriert einen Konstruktor fuer eine Architektur
func Register(name string, f func(*parser.Config, Options) (Model, error)) {
	if _, ok := models[name]; ok {
		panic("model: model already registered")
	}

	models[name] = f
}

// Architectures listet die registrierten Architekturen sortiert auf
func Architectures() []string {
	return slices.Sorted(maps.Keys(models))
}

// New baut das Netzwerk der Architektur arch aus einer geparsten Konfiguration
func New(arch string, c *parser.Config, opts ...Option) (Model, error) {
	f, ok := models[arch]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnsupportedModel, arch, Architectures())
	}

	return f(c, NewOptions(opts...))
}

// Load liest die Konfigurationsdatei unter path und baut das Netzwerk
func Load(arch, path string, opts ...Option) (Model, error) {
	c, err := parser.Load(path)
	if err != nil {
		return nil, err
	}

	return New(arch, c, opts...)
}
