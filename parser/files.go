// Package parser - Darknet-Konfigurationsparser fuer yolograph
// Modul files: Dateisystem-Operationen und Pfadverarbeitung
package parser

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// Load oeffnet und parst eine .cfg-Datei; "~" wird zum Home-Verzeichnis expandiert
func Load(path string) (*Config, error) {
	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := ParseFile(f)
	if err != nil {
		return nil, fmt.Errorf("%s %w", filepath.Base(path), err)
	}

	return cfg, nil
}

func expandPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty config path")
	}

	if strings.HasPrefix(path, "~") {
		var homeDir string

		if path == "~" || strings.HasPrefix(path, "~/") {
			u, err := user.Current()
			if err != nil {
				return "", err
			}

			homeDir = u.HomeDir
			path = strings.TrimPrefix(path, "~")
		} else {
			parts := strings.SplitN(path[1:], "/", 2)
			u, err := user.Lookup(parts[0])
			if err != nil {
				return "", err
			}

			homeDir = u.HomeDir
			path = ""
			if len(parts) > 1 {
				path = parts[1]
			}
		}

		path = filepath.Join(homeDir, path)
	}

	return filepath.Abs(path)
}
