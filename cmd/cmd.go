// cmd.go - Haupt-CLI Setup und Root Command
// Hauptfunktionen: NewCLI, appendEnvDocs
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yolograph/yolograph/envconfig"
	"github.com/yolograph/yolograph/logutil"
)

// Version wird beim Build per -ldflags gesetzt
var Version = "0.0.0"

// appendEnvDocs - Fuegt Umgebungsvariablen-Dokumentation zum Command hinzu
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// NewCLI - Erstellt das Haupt-CLI mit allen Commands
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "yolograph",
		Short:         "Build and run YOLOv3 graphs from darknet configs",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logutil.NewLogger(os.Stderr, envconfig.LogLevel()))
		},
		Run: func(cmd *cobra.Command, args []string) {
			if version, _ := cmd.Flags().GetBool("version"); version {
				fmt.Fprintf(cmd.OutOrStdout(), "yolograph version is %s\n", Version)
				return
			}

			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	// Commands erstellen
	showCmd := newShowCmd()
	summaryCmd := newSummaryCmd()
	runCmd := newRunCmd()

	// Environment-Dokumentation hinzufuegen
	envVars := envconfig.AsMap()
	for _, cmd := range []*cobra.Command{summaryCmd, runCmd} {
		envs := []envconfig.EnvVar{
			envVars["YOLOGRAPH_DEBUG"],
			envVars["YOLOGRAPH_NUM_CLASSES"],
			envVars["YOLOGRAPH_BATCH_SIZE"],
		}
		if cmd == runCmd {
			envs = append(envs, envVars["YOLOGRAPH_BACKEND"], envVars["YOLOGRAPH_NUM_THREAD"], envVars["YOLOGRAPH_DUMP"])
		}
		appendEnvDocs(cmd, envs)
	}

	rootCmd.AddCommand(
		showCmd,
		summaryCmd,
		runCmd,
	)

	return rootCmd
}
