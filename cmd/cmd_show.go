// cmd_show.go - Ausgabe von Konfiguration und Layer-Tabelle
// Hauptfunktionen: ShowHandler, SummaryHandler
package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yolograph/yolograph/ml"
	"github.com/yolograph/yolograph/parser"
)

// ShowHandler - Gibt die geparste Konfiguration normalisiert aus
func ShowHandler(cmd *cobra.Command, args []string) error {
	c, err := parser.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), c.String())
	return nil
}

// SummaryHandler - Baut das Modell und listet alle Schichten auf
func SummaryHandler(cmd *cobra.Command, args []string) error {
	m, err := loadModel(cmd, args)
	if err != nil {
		return err
	}
	defer m.Close()

	var data [][]string
	var total int
	for _, l := range m.Layers() {
		from := make([]string, len(l.Refs))
		for i, r := range l.Refs {
			from[i] = strconv.Itoa(r)
		}

		data = append(data, []string{
			strconv.Itoa(l.Index),
			l.Name,
			ml.ShapeString(l.Shape),
			strconv.Itoa(l.Filters),
			strings.Join(from, ","),
			strconv.Itoa(l.Params),
		})
		total += l.Params
	}

	w := cmd.OutOrStdout()
	table := newTable(w, []string{"#", "LAYER", "OUTPUT", "FILTERS", "FROM", "PARAMS"})
	table.AppendBulk(data)
	table.Render()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "input     %s\n", ml.ShapeString(m.InputShape()))
	fmt.Fprintf(w, "output    %s\n", ml.ShapeString(m.OutputShape()))
	fmt.Fprintf(w, "params    %d\n", total)
	return nil
}
