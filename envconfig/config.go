// config.go - Haupt-Konfigurationsfunktionen fuer yolograph
//
// Dieses Modul enthaelt:
// - LogLevel: Gibt Log-Level zurueck (YOLOGRAPH_DEBUG)
// - NumThreads: Gibt die Anzahl der Rechen-Threads zurueck (YOLOGRAPH_NUM_THREAD)
// - Backend: Gibt das Rechen-Backend zurueck (YOLOGRAPH_BACKEND)
// - Var: Liest eine bereinigte Environment-Variable
//
// Weitere Konfigurationen sind ausgelagert:
// - config_features.go: Modell-Defaults
// - config_utils.go: Utility-Funktionen und AsMap
package envconfig

import (
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// LogLevel gibt das Log-Level zurueck
// Konfigurierbar via YOLOGRAPH_DEBUG
// Werte: 0/false = INFO (Default), 1/true = DEBUG, 2 = TRACE
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("YOLOGRAPH_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// NumThreads gibt die Anzahl der Threads fuer CPU-Kernels zurueck
// Konfigurierbar via YOLOGRAPH_NUM_THREAD
// Default: runtime.NumCPU()
func NumThreads() int {
	if n := numThread(); n > 0 {
		return int(n)
	}

	return runtime.NumCPU()
}

var numThread = Uint("YOLOGRAPH_NUM_THREAD", 0)

// Backend gibt den Namen des Rechen-Backends zurueck
// Konfigurierbar via YOLOGRAPH_BACKEND
// Default: cpu
func Backend() string {
	if s := Var("YOLOGRAPH_BACKEND"); s != "" {
		return strings.ToLower(s)
	}

	return "cpu"
}

// Var gibt eine Environment-Variable zurueck
// Entfernt fuehrende/trailing Quotes und Leerzeichen
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
