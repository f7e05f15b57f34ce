package yolov3

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedBlock meldet unbekannte Typen, fehlende Felder und
	// ungueltige anchors/mask Angaben
	ErrMalformedBlock = errors.New("malformed block")

	// ErrReference meldet route/shortcut Verweise ausserhalb [0, i)
	ErrReference = errors.New("unresolvable layer reference")
)

// LayerError ordnet einen Fehler der Schicht zu, in der er auftrat
type LayerError struct {
	Index int
	Kind  string

	// Line ist die Zeile des Section-Headers, 0 wenn unbekannt
	Line int

	Err error
}

func (e *LayerError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("layer %d [%s] (line %d): %v", e.Index, e.Kind, e.Line, e.Err)
	}

	return fmt.Sprintf("layer %d [%s]: %v", e.Index, e.Kind, e.Err)
}

func (e *LayerError) Unwrap() error {
	return e.Err
}
