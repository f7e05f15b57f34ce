// Package parser - Darknet-Konfigurationsparser fuer yolograph
// Hauptmodul: Parsing und Config-Verarbeitung
package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Config ist die geparste Darknet-Konfiguration in Dateireihenfolge.
// Der erste Block beschreibt ueblicherweise das Netz ([net]), alle
// weiteren je einen Layer.
type Config struct {
	Blocks []*Block
}

func (f Config) String() string {
	var sb strings.Builder
	for i, b := range f.Blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(b.String())
	}

	return sb.String()
}

// Net gibt den Netz-Metadatenblock zurueck, falls der erste Block einer ist
func (f Config) Net() (*Block, bool) {
	if len(f.Blocks) > 0 && isNetSection(f.Blocks[0].Type()) {
		return f.Blocks[0], true
	}

	return nil, false
}

// Layers gibt alle Bloecke nach dem ersten (Metadaten-)Block zurueck
func (f Config) Layers() []*Block {
	if len(f.Blocks) == 0 {
		return nil
	}

	return f.Blocks[1:]
}

type state int

const (
	stateNil state = iota
	stateSection
	stateKey
	stateValue
	stateComment
)

var (
	errEmptySection      = errors.New("section name must not be empty")
	errUnclosedSection   = errors.New("section header must end with ']'")
	errMissingAssignment = errors.New("option must have the form key=value")
	errEmptyKey          = errors.New("option key must not be empty")
	errOrphanOption      = errors.New("option must follow a [section] header")
	errNoSections        = errors.New("no sections found")
)

type ParserError struct {
	LineNumber int
	Msg        string
}

func (e *ParserError) Error() string {
	if e.LineNumber > 0 {
		return fmt.Sprintf("(line %d): %s", e.LineNumber, e.Msg)
	}
	return e.Msg
}

func ParseFile(r io.Reader) (*Config, error) {
	var curr state
	var currLine int = 1
	var b bytes.Buffer
	var key string
	var block *Block

	var f Config

	tr := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	br := bufio.NewReader(transform.NewReader(r, tr))

	for {
		r, _, err := br.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}

		next, c, err := parseRuneForState(r, curr)
		if err != nil {
			return nil, &ParserError{
				LineNumber: currLine,
				Msg:        err.Error(),
			}
		}

		// process the state transition, the buffer holds the finished token
		if next != curr {
			switch curr {
			case stateSection:
				name := strings.TrimSpace(b.String())
				if name == "" {
					return nil, &ParserError{LineNumber: currLine, Msg: errEmptySection.Error()}
				}

				block = NewBlock(name)
				block.Line = currLine
				f.Blocks = append(f.Blocks, block)
			case stateKey:
				key = strings.TrimSpace(b.String())
				if key == "" {
					return nil, &ParserError{LineNumber: currLine, Msg: errEmptyKey.Error()}
				}

				if block == nil {
					return nil, &ParserError{LineNumber: currLine, Msg: errOrphanOption.Error()}
				}
			case stateValue:
				if err := setOption(block, key, b.String()); err != nil {
					return nil, &ParserError{LineNumber: currLine, Msg: err.Error()}
				}
			case stateComment, stateNil:
				// pass
			}

			b.Reset()
			curr = next
		}

		if strconv.IsPrint(c) {
			if _, err := b.WriteRune(c); err != nil {
				return nil, err
			}
		}

		if r == '\n' {
			currLine++
		}
	}

	// flush the buffer
	switch curr {
	case stateComment, stateNil:
		// pass; nothing to flush
	case stateValue:
		if err := setOption(block, key, b.String()); err != nil {
			return nil, &ParserError{LineNumber: currLine, Msg: err.Error()}
		}
	case stateSection:
		return nil, fmt.Errorf("%w: [%s", io.ErrUnexpectedEOF, b.String())
	case stateKey:
		if strings.TrimSpace(b.String()) != "" {
			return nil, &ParserError{LineNumber: currLine, Msg: errMissingAssignment.Error()}
		}
	}

	if len(f.Blocks) == 0 {
		return nil, errNoSections
	}

	return &f, nil
}

func parseRuneForState(r rune, cs state) (state, rune, error) {
	switch cs {
	case stateNil:
		switch {
		case isCommentStart(r):
			return stateComment, 0, nil
		case r == '[':
			return stateSection, 0, nil
		case r == '=':
			return stateNil, 0, errEmptyKey
		case isSpace(r), isNewline(r):
			return stateNil, 0, nil
		default:
			return stateKey, r, nil
		}
	case stateSection:
		switch {
		case r == ']':
			return stateNil, 0, nil
		case isNewline(r):
			return stateNil, 0, errUnclosedSection
		default:
			return stateSection, r, nil
		}
	case stateKey:
		switch {
		case r == '=':
			return stateValue, 0, nil
		case isNewline(r):
			return stateNil, 0, errMissingAssignment
		default:
			return stateKey, r, nil
		}
	case stateValue:
		switch {
		case isNewline(r):
			return stateNil, 0, nil
		default:
			return stateValue, r, nil
		}
	case stateComment:
		switch {
		case isNewline(r):
			return stateNil, 0, nil
		default:
			return stateComment, 0, nil
		}
	default:
		return stateNil, 0, errors.New("")
	}
}

func setOption(block *Block, key, value string) error {
	if _, ok := block.Get(key); ok {
		return fmt.Errorf("duplicate option %q in [%s]", key, block.Type())
	}

	block.Set(key, strings.TrimSpace(value))
	return nil
}

func isNetSection(name string) bool {
	return name == "net" || name == "network"
}

func isCommentStart(r rune) bool {
	return r == '#' || r == ';'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

func isNewline(r rune) bool {
	return r == '\r' || r == '\n'
}
