package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/debforge/pkg/introspect"
	"github.com/arthur-debert/debforge/pkg/manifest"
	"github.com/arthur-debert/debforge/pkg/resolver"
)

func newDepsCmd() *cobra.Command {
	var (
		target     string
		projectDir string
	)

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Print the package's resolved runtime dependencies",
		Long: `Synthesizes the manifest and aggregates the dependency directive:
literal tokens plus, for the $auto sentinel, the shared-library dependencies
of every packaged binary. A resolution failure for one binary is downgraded
to a warning and the others still contribute.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			intro := introspect.NewCargoIntrospector(projectDir)
			cfg, warnings, err := manifest.FromDescriptor(intro, target)
			if err != nil {
				return err
			}
			printWarnings(warnings)

			deps, depWarnings := cfg.Dependencies(resolver.NewLddResolver())
			printWarnings(depWarnings)
			fmt.Println(deps)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Cross-compilation target triple")
	cmd.Flags().StringVar(&projectDir, "project-dir", "", "Project directory (default: current directory)")

	return cmd
}
