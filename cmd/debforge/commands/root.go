package commands

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/debforge/internal/version"
	"github.com/arthur-debert/debforge/pkg/logging"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "debforge",
		Short: "Turn a compiled project into a Debian package manifest",
		Long: `debforge reads a project's build descriptor and packaging directives,
resolves the declared asset rules (literal paths and glob patterns) against
the compiled build output, and produces the fully resolved manifest a Debian
package needs: files, destinations, permission bits, and derived metadata.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			if !isatty.IsTerminal(os.Stdout.Fd()) {
				pterm.DisableColor()
			}
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand given: show help and report incorrect usage
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.AddCommand(newManifestCmd())
	rootCmd.AddCommand(newDepsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// printWarnings renders advisory warnings; they never fail the run.
func printWarnings(warnings []string) {
	for _, w := range warnings {
		pterm.Warning.Println(w)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including commit hash and build date`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("debforge version %s\n", version.Version)
			if version.Commit != "" {
				fmt.Printf("Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				fmt.Printf("Built:  %s\n", version.Date)
			}
		},
	}
}
