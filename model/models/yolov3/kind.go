package yolov3

import (
	"fmt"

	"github.com/agnivade/levenshtein"
)

// Kind ist der Typ eines Layer-Blocks
type Kind int

const (
	KindConvolutional Kind = iota
	KindUpsample
	KindRoute
	KindShortcut
	KindYOLO
)

var kindNames = [...]string{
	KindConvolutional: "convolutional",
	KindUpsample:      "upsample",
	KindRoute:         "route",
	KindShortcut:      "shortcut",
	KindYOLO:          "yolo",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

// ParseKind bildet einen Section-Namen auf Kind ab. Unbekannte Namen sind
// ein Fehler, der den aehnlichsten bekannten Typ vorschlaegt.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if s == name {
			return Kind(k), nil
		}
	}

	best, dist := "", len(s)/2+1
	for _, name := range kindNames {
		if d := levenshtein.ComputeDistance(s, name); d < dist {
			best, dist = name, d
		}
	}

	if best != "" {
		return 0, fmt.Errorf("%w: unknown layer type %q, did you mean %q?", ErrMalformedBlock, s, best)
	}

	return 0, fmt.Errorf("%w: unknown layer type %q", ErrMalformedBlock, s)
}
