// cmd_builders.go - Command-Builder Funktionen
// Hauptfunktionen: newShowCmd, newSummaryCmd, newRunCmd
package cmd

import (
	"github.com/spf13/cobra"
)

// addModelFlags - Flags fuer den Modellaufbau
func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().String("arch", "yolov3", "Network architecture")
	cmd.Flags().Int("classes", 0, "Number of classes (default: from config)")
	cmd.Flags().Int("height", 0, "Input height (default: from [net])")
	cmd.Flags().Int("width", 0, "Input width (default: from [net])")
	cmd.Flags().Int("channels", 0, "Input channels (default: from [net])")
	cmd.Flags().Int("batch", 0, "Batch size")
}

// newShowCmd - Erstellt den show Command
func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show CONFIG",
		Short: "Print a config file as parsed",
		Args:  cobra.ExactArgs(1),
		RunE:  ShowHandler,
	}
}

// newSummaryCmd - Erstellt den summary Command
func newSummaryCmd() *cobra.Command {
	summaryCmd := &cobra.Command{
		Use:   "summary CONFIG",
		Short: "Build the graph and print its layers",
		Args:  cobra.ExactArgs(1),
		RunE:  SummaryHandler,
	}

	addModelFlags(summaryCmd)
	return summaryCmd
}

// newRunCmd - Erstellt den run Command
func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run CONFIG",
		Short: "Run one forward pass on a constant image",
		Args:  cobra.ExactArgs(1),
		RunE:  RunHandler,
	}

	addModelFlags(runCmd)
	runCmd.Flags().Float32("fill", 128, "Pixel value of the synthetic image (0-255)")
	runCmd.Flags().Int("top", 5, "Number of highest-confidence predictions to print")
	runCmd.Flags().Int("threads", 0, "Number of CPU threads (default: all cores)")
	runCmd.Flags().String("backend", "", "Compute backend (default: cpu)")
	runCmd.Flags().Bool("verbose", false, "Show timings")
	runCmd.Flags().Bool("dump", false, "Print the prediction tensor")
	runCmd.Flags().Int("dump-items", 3, "Rows kept at each end of a dumped axis")

	return runCmd
}
