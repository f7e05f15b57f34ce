// cmd_utils.go - Gemeinsame Hilfsfunktionen
// Hauptfunktionen: loadModel, modelOptions, newTable
package cmd

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/yolograph/yolograph/envconfig"
	"github.com/yolograph/yolograph/ml"
	"github.com/yolograph/yolograph/model"
	_ "github.com/yolograph/yolograph/model/models"
)

// modelOptions - Liest die Modell-Flags; nicht gesetzte Flags behalten die Defaults
func modelOptions(cmd *cobra.Command) []model.Option {
	var opts []model.Option

	height, _ := cmd.Flags().GetInt("height")
	width, _ := cmd.Flags().GetInt("width")
	channels, _ := cmd.Flags().GetInt("channels")
	if height > 0 || width > 0 || channels > 0 {
		opts = append(opts, model.WithInputShape(height, width, channels))
	}

	if classes, _ := cmd.Flags().GetInt("classes"); classes > 0 {
		opts = append(opts, model.WithNumClasses(classes))
	}

	if batch, _ := cmd.Flags().GetInt("batch"); batch > 0 {
		opts = append(opts, model.WithBatchSize(batch))
	}

	backend, _ := cmd.Flags().GetString("backend")
	threads, _ := cmd.Flags().GetInt("threads")
	if backend != "" || threads > 0 {
		if backend == "" {
			backend = envconfig.Backend()
		}
		if threads <= 0 {
			threads = envconfig.NumThreads()
		}
		opts = append(opts, model.WithBackend(backend, ml.BackendParams{NumThreads: threads}))
	}

	return opts
}

// loadModel - Baut das Modell aus der Konfigurationsdatei in args[0]
func loadModel(cmd *cobra.Command, args []string) (model.Model, error) {
	arch, _ := cmd.Flags().GetString("arch")
	return model.Load(arch, args[0], modelOptions(cmd)...)
}

// newTable - Tabelle im Stil der uebrigen Ausgaben
func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.SetAutoFormatHeaders(false)
	return table
}
