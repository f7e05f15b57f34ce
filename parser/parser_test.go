package parser

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const tinyConfig = `[net]
# Testing
batch=1
width=416
height=416
channels=3

[convolutional]
batch_normalize=1
filters=32
size=3
stride=1
pad=1
activation=leaky

; residual
[shortcut]
from=-3
activation=linear

[route]
layers = -1, 61

[yolo]
mask = 6,7,8
anchors = 10,13,  16,30,  33,23
classes=80
`

func TestParseFile(t *testing.T) {
	cfg, err := ParseFile(strings.NewReader(tinyConfig))
	require.NoError(t, err)

	var types []string
	for _, b := range cfg.Blocks {
		types = append(types, b.Type())
	}

	if diff := cmp.Diff([]string{"net", "convolutional", "shortcut", "route", "yolo"}, types); diff != "" {
		t.Errorf("Block-Typen (-want +got):\n%s", diff)
	}

	conv := cfg.Blocks[1]
	if diff := cmp.Diff([]string{"batch_normalize", "filters", "size", "stride", "pad", "activation"}, conv.Keys()); diff != "" {
		t.Errorf("Schluessel-Reihenfolge (-want +got):\n%s", diff)
	}

	if conv.Line != 8 {
		t.Errorf("Line: erwartet 8, bekommen %d", conv.Line)
	}

	route, err := cfg.Blocks[3].Ints("layers")
	require.NoError(t, err)
	if diff := cmp.Diff([]int{-1, 61}, route); diff != "" {
		t.Errorf("layers (-want +got):\n%s", diff)
	}

	net, ok := cfg.Net()
	require.True(t, ok)
	if w, _ := net.Int("width"); w != 416 {
		t.Errorf("width: erwartet 416, bekommen %d", w)
	}

	if got := len(cfg.Layers()); got != 4 {
		t.Errorf("Layers: erwartet 4, bekommen %d", got)
	}
}

func TestParseFileBOMAndCRLF(t *testing.T) {
	input := "\xef\xbb\xbf[net]\r\nwidth=32\r\n\r\n[upsample]\r\nstride=2\r\n"
	cfg, err := ParseFile(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, cfg.Blocks, 2)
	if cfg.Blocks[0].Type() != "net" {
		t.Errorf("BOM nicht entfernt: %q", cfg.Blocks[0].Type())
	}

	stride, err := cfg.Blocks[1].Int("stride")
	require.NoError(t, err)
	if stride != 2 {
		t.Errorf("stride: erwartet 2, bekommen %d", stride)
	}

	if cfg.Blocks[1].Line != 4 {
		t.Errorf("Line: erwartet 4, bekommen %d", cfg.Blocks[1].Line)
	}
}

func TestParseFileNoTrailingNewline(t *testing.T) {
	cfg, err := ParseFile(strings.NewReader("[upsample]\nstride=2"))
	require.NoError(t, err)

	if s, _ := cfg.Blocks[0].Get("stride"); s != "2" {
		t.Errorf("stride: erwartet \"2\", bekommen %q", s)
	}
}

func TestParseFileErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		line  int
	}{
		{"empty section", "[]\n", 1},
		{"unclosed section", "[net\nwidth=1\n", 1},
		{"missing assignment", "[net]\nwidth\n", 2},
		{"empty key", "[net]\n=3\n", 2},
		{"orphan option", "width=3\n[net]\n", 1},
		{"duplicate option", "[net]\nwidth=3\nwidth=4\n", 3},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile(strings.NewReader(tt.input))

			var perr *ParserError
			if !errors.As(err, &perr) {
				t.Fatalf("erwartet ParserError, bekommen %v", err)
			}

			if perr.LineNumber != tt.line {
				t.Errorf("LineNumber: erwartet %d, bekommen %d (%v)", tt.line, perr.LineNumber, perr)
			}
		})
	}
}

func TestParseFileEmpty(t *testing.T) {
	if _, err := ParseFile(strings.NewReader("# nur ein Kommentar\n")); !errors.Is(err, errNoSections) {
		t.Errorf("erwartet errNoSections, bekommen %v", err)
	}

	if _, err := ParseFile(strings.NewReader("[net")); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("erwartet io.ErrUnexpectedEOF, bekommen %v", err)
	}
}

func TestConfigString(t *testing.T) {
	cfg, err := ParseFile(strings.NewReader(tinyConfig))
	require.NoError(t, err)

	again, err := ParseFile(bytes.NewBufferString(cfg.String()))
	require.NoError(t, err)

	if diff := cmp.Diff(cfg.String(), again.String()); diff != "" {
		t.Errorf("String ist nicht stabil (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.cfg")
	require.NoError(t, os.WriteFile(path, []byte(tinyConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Blocks, 5)

	if _, err := Load(filepath.Join(dir, "missing.cfg")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("erwartet os.ErrNotExist, bekommen %v", err)
	}

	bad := filepath.Join(dir, "bad.cfg")
	require.NoError(t, os.WriteFile(bad, []byte("[net]\nwidth\n"), 0o644))
	_, err = Load(bad)
	var perr *ParserError
	if !errors.As(err, &perr) {
		t.Errorf("erwartet ParserError, bekommen %v", err)
	}
}

func TestBlockAccessors(t *testing.T) {
	b := NewBlock("Convolutional").
		Set("filters", "64").
		Set("batch_normalize", "0").
		Set("size", "three").
		Set("anchors", "10,13, 16.5,30,")

	if b.Type() != "convolutional" {
		t.Errorf("Type: erwartet convolutional, bekommen %q", b.Type())
	}

	if n, err := b.Int("filters"); err != nil || n != 64 {
		t.Errorf("Int(filters) = %d, %v", n, err)
	}

	if _, err := b.Int("stride"); !errors.Is(err, ErrMissingKey) {
		t.Errorf("erwartet ErrMissingKey, bekommen %v", err)
	}

	if n, err := b.IntOr("stride", 1); err != nil || n != 1 {
		t.Errorf("IntOr(stride) = %d, %v", n, err)
	}

	_, err := b.Int("size")
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("erwartet ErrInvalidValue, bekommen %v", err)
	}
	var numErr *strconv.NumError
	if !errors.As(err, &numErr) {
		t.Errorf("erwartet *strconv.NumError in der Kette, bekommen %v", err)
	}

	if on, err := b.Flag("batch_normalize"); err != nil || on {
		t.Errorf("Flag(batch_normalize=0) = %v, %v", on, err)
	}

	if on, err := b.Flag("missing"); err != nil || on {
		t.Errorf("Flag(missing) = %v, %v", on, err)
	}

	anchors, err := b.Floats("anchors")
	require.NoError(t, err)
	if diff := cmp.Diff([]float32{10, 13, 16.5, 30}, anchors); diff != "" {
		t.Errorf("Floats (-want +got):\n%s", diff)
	}

	if _, err := b.Ints("anchors"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Ints mit Gleitkommazahl: erwartet ErrInvalidValue, bekommen %v", err)
	}
}
