// config_utils.go - Utility-Funktionen und Export fuer Konfiguration
//
// Dieses Modul enthaelt:
// - BoolWithDefault/Bool: Boolean-Getter mit Default-Wert
// - Uint: Integer-Getter mit Default-Wert
// - EnvVar: Struktur fuer Environment-Variablen-Info
// - AsMap: Gibt alle Konfigurationen als Map zurueck
package envconfig

import (
	"log/slog"
	"strconv"
)

// =============================================================================
// Boolean-Getter
// =============================================================================

// BoolWithDefault gibt eine Funktion zurueck, die einen Bool mit Default-Wert liest
func BoolWithDefault(k string) func(defaultValue bool) bool {
	return func(defaultValue bool) bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return defaultValue
	}
}

// Bool gibt eine Funktion zurueck, die einen Bool liest (Default: false)
func Bool(k string) func() bool {
	withDefault := BoolWithDefault(k)
	return func() bool {
		return withDefault(false)
	}
}

// =============================================================================
// Integer-Getter
// =============================================================================

// Uint gibt eine Funktion zurueck, die einen uint mit Default-Wert liest
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

// =============================================================================
// Export-Strukturen und -Funktionen
// =============================================================================

// EnvVar repraesentiert eine Environment-Variable mit Metadaten
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap gibt alle Konfigurationen als Map zurueck
// Enthaelt Namen, aktuelle Werte und Beschreibungen
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"YOLOGRAPH_DEBUG":       {"YOLOGRAPH_DEBUG", LogLevel(), "Show additional debug information (e.g. YOLOGRAPH_DEBUG=1, 2 for trace)"},
		"YOLOGRAPH_NUM_THREAD":  {"YOLOGRAPH_NUM_THREAD", NumThreads(), "Number of threads used by CPU kernels (default: all cores)"},
		"YOLOGRAPH_BACKEND":     {"YOLOGRAPH_BACKEND", Backend(), "Compute backend used to execute graphs (default: cpu)"},
		"YOLOGRAPH_NUM_CLASSES": {"YOLOGRAPH_NUM_CLASSES", NumClasses(), "Number of object classes, 0 reads it from the yolo blocks"},
		"YOLOGRAPH_BATCH_SIZE":  {"YOLOGRAPH_BATCH_SIZE", BatchSize(), "Batch dimension of the input tensor (default: 1)"},
		"YOLOGRAPH_DUMP":        {"YOLOGRAPH_DUMP", Dump(), "Print the prediction tensor after a forward pass"},
	}
}
