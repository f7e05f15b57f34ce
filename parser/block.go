// Package parser - Darknet-Konfigurationsparser fuer yolograph
// Modul block: Block-Struktur und typisierte Zugriffe
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	ErrMissingKey   = errors.New("missing key")
	ErrInvalidValue = errors.New("invalid value")
)

// ValueError beschreibt einen Wert, der sich nicht als Zahl lesen laesst.
// Unwrap liefert ErrInvalidValue und den urspruenglichen strconv-Fehler.
type ValueError struct {
	Section string
	Key     string
	Value   string
	Err     error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("[%s] %s=%q: %v", e.Section, e.Key, e.Value, e.Err)
}

func (e *ValueError) Unwrap() []error {
	return []error{ErrInvalidValue, e.Err}
}

// Block ist ein Abschnitt der Konfiguration: Typ aus dem Header plus
// Optionen in Dateireihenfolge.
type Block struct {
	kind string
	opts *orderedmap.OrderedMap[string, string]

	// Line ist die Zeile des Section-Headers, 0 fuer programmatisch erzeugte Bloecke
	Line int
}

// NewBlock erstellt einen leeren Block vom angegebenen Typ
func NewBlock(kind string) *Block {
	return &Block{
		kind: strings.ToLower(strings.TrimSpace(kind)),
		opts: orderedmap.New[string, string](),
	}
}

// Type gibt den Section-Namen zurueck, z.B. "convolutional"
func (b *Block) Type() string {
	return b.kind
}

// Set setzt eine Option und gibt den Block fuer Verkettung zurueck
func (b *Block) Set(key, value string) *Block {
	b.opts.Set(key, value)
	return b
}

func (b *Block) Get(key string) (string, bool) {
	return b.opts.Get(key)
}

func (b *Block) Has(key string) bool {
	_, ok := b.opts.Get(key)
	return ok
}

func (b *Block) Len() int {
	return b.opts.Len()
}

// Keys gibt die Optionsnamen in Einfuegereihenfolge zurueck
func (b *Block) Keys() []string {
	keys := make([]string, 0, b.opts.Len())
	for pair := b.opts.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

func (b *Block) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s]\n", b.kind)
	for pair := b.opts.Oldest(); pair != nil; pair = pair.Next() {
		fmt.Fprintf(&sb, "%s=%s\n", pair.Key, pair.Value)
	}
	return sb.String()
}

// Value gibt den Wert einer Pflicht-Option zurueck
func (b *Block) Value(key string) (string, error) {
	s, ok := b.opts.Get(key)
	if !ok {
		return "", fmt.Errorf("[%s] %q: %w", b.kind, key, ErrMissingKey)
	}

	return s, nil
}

// Int liest eine ganzzahlige Pflicht-Option
func (b *Block) Int(key string) (int, error) {
	s, err := b.Value(key)
	if err != nil {
		return 0, err
	}

	return b.atoi(key, s)
}

// IntOr liest eine ganzzahlige Option oder gibt defaultValue zurueck
func (b *Block) IntOr(key string, defaultValue int) (int, error) {
	s, ok := b.opts.Get(key)
	if !ok {
		return defaultValue, nil
	}

	return b.atoi(key, s)
}

// Ints liest eine komma-separierte Liste ganzer Zahlen, z.B. "layers=-1, 61"
func (b *Block) Ints(key string) ([]int, error) {
	s, err := b.Value(key)
	if err != nil {
		return nil, err
	}

	fields := strings.Split(s, ",")
	ints := make([]int, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			// darknet erlaubt ein abschliessendes Komma
			continue
		}

		n, err := b.atoi(key, field)
		if err != nil {
			return nil, err
		}

		ints = append(ints, n)
	}

	if len(ints) == 0 {
		return nil, &ValueError{Section: b.kind, Key: key, Value: s, Err: errors.New("empty list")}
	}

	return ints, nil
}

// Floats liest eine komma-separierte Liste von Gleitkommazahlen, z.B. Anchors
func (b *Block) Floats(key string) ([]float32, error) {
	s, err := b.Value(key)
	if err != nil {
		return nil, err
	}

	var floats []float32
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		f, err := strconv.ParseFloat(field, 32)
		if err != nil {
			return nil, &ValueError{Section: b.kind, Key: key, Value: field, Err: err}
		}

		floats = append(floats, float32(f))
	}

	if len(floats) == 0 {
		return nil, &ValueError{Section: b.kind, Key: key, Value: s, Err: errors.New("empty list")}
	}

	return floats, nil
}

// Flag ist true wenn die Option existiert und nicht 0 ist
func (b *Block) Flag(key string) (bool, error) {
	n, err := b.IntOr(key, 0)
	if err != nil {
		return false, err
	}

	return n != 0, nil
}

func (b *Block) atoi(key, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &ValueError{Section: b.kind, Key: key, Value: s, Err: err}
	}

	return n, nil
}
