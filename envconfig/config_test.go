package envconfig

import (
	"log/slog"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"false": slog.LevelInfo,
		"0":     slog.LevelInfo,
		"true":  slog.LevelDebug,
		"1":     slog.LevelDebug,
		"2":     slog.Level(-8),
	}

	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("YOLOGRAPH_DEBUG", k)
			if got := LogLevel(); got != v {
				t.Errorf("%s: erwartet %v, bekommen %v", k, v, got)
			}
		})
	}
}

func TestNumThreads(t *testing.T) {
	t.Setenv("YOLOGRAPH_NUM_THREAD", "")
	if got := NumThreads(); got != runtime.NumCPU() {
		t.Errorf("Default: erwartet %d, bekommen %d", runtime.NumCPU(), got)
	}

	t.Setenv("YOLOGRAPH_NUM_THREAD", "3")
	if got := NumThreads(); got != 3 {
		t.Errorf("erwartet 3, bekommen %d", got)
	}

	t.Setenv("YOLOGRAPH_NUM_THREAD", "many")
	if got := NumThreads(); got != runtime.NumCPU() {
		t.Errorf("ungueltiger Wert: erwartet Default %d, bekommen %d", runtime.NumCPU(), got)
	}
}

func TestVar(t *testing.T) {
	cases := map[string]string{
		"cpu":       "cpu",
		" cpu ":     "cpu",
		"\"cpu\"":   "cpu",
		"'cpu'":     "cpu",
		"\" cpu \"": " cpu ",
	}

	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("YOLOGRAPH_VAR", k)
			if s := Var("YOLOGRAPH_VAR"); s != v {
				t.Errorf("%s: erwartet %q, bekommen %q", k, v, s)
			}
		})
	}
}

func TestBackend(t *testing.T) {
	t.Setenv("YOLOGRAPH_BACKEND", "")
	if got := Backend(); got != "cpu" {
		t.Errorf("Default: erwartet cpu, bekommen %q", got)
	}

	t.Setenv("YOLOGRAPH_BACKEND", "CPU")
	if got := Backend(); got != "cpu" {
		t.Errorf("erwartet cpu, bekommen %q", got)
	}
}

func TestDump(t *testing.T) {
	cases := map[string]bool{
		"":      false,
		"0":     false,
		"false": false,
		"1":     true,
		"true":  true,
		"ja":    true,
	}

	for value, want := range cases {
		t.Run(value, func(t *testing.T) {
			t.Setenv("YOLOGRAPH_DUMP", value)
			if got := Dump(); got != want {
				t.Errorf("%q: erwartet %v, bekommen %v", value, want, got)
			}
		})
	}
}

func TestAsMap(t *testing.T) {
	t.Setenv("YOLOGRAPH_NUM_CLASSES", "20")
	t.Setenv("YOLOGRAPH_BATCH_SIZE", "")
	t.Setenv("YOLOGRAPH_DUMP", "1")

	vars := AsMap()
	got := map[string]any{
		"YOLOGRAPH_NUM_CLASSES": vars["YOLOGRAPH_NUM_CLASSES"].Value,
		"YOLOGRAPH_BATCH_SIZE":  vars["YOLOGRAPH_BATCH_SIZE"].Value,
		"YOLOGRAPH_DUMP":        vars["YOLOGRAPH_DUMP"].Value,
	}
	want := map[string]any{
		"YOLOGRAPH_NUM_CLASSES": uint(20),
		"YOLOGRAPH_BATCH_SIZE":  uint(1),
		"YOLOGRAPH_DUMP":        true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AsMap mismatch (-want +got):\n%s", diff)
	}
}
