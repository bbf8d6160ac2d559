package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/debforge/pkg/introspect"
	"github.com/arthur-debert/debforge/pkg/manifest"
)

func newManifestCmd() *cobra.Command {
	var (
		target     string
		format     string
		projectDir string
	)

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Resolve the package manifest for the current project",
		Long: `Runs build introspection, reads the project descriptor, expands asset
rules, and prints the fully resolved package manifest. Advisory warnings go
to stderr; a fatal problem (unreadable descriptor, malformed rule, empty
asset set) aborts with an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			intro := introspect.NewCargoIntrospector(projectDir)
			cfg, warnings, err := manifest.FromDescriptor(intro, target)
			if err != nil {
				return err
			}
			printWarnings(warnings)

			switch format {
			case "yaml":
				out, err := yaml.Marshal(cfg)
				if err != nil {
					return err
				}
				fmt.Print(string(out))
			case "text":
				printManifest(cfg)
			default:
				return fmt.Errorf("unknown format %q (want text or yaml)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Cross-compilation target triple")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text or yaml)")
	cmd.Flags().StringVar(&projectDir, "project-dir", "", "Project directory (default: current directory)")

	return cmd
}

func printManifest(cfg *manifest.Config) {
	pterm.DefaultSection.Printf("%s %s (%s)", cfg.Name, cfg.Version, cfg.Architecture)
	fmt.Printf("Maintainer: %s\n", cfg.Maintainer)
	fmt.Printf("Copyright:  %s\n", cfg.Copyright)
	if cfg.License != "" {
		fmt.Printf("License:    %s\n", cfg.License)
	}
	fmt.Printf("Depends:    %s\n", cfg.Depends)
	fmt.Println()
	fmt.Printf("Assets (%d):\n", len(cfg.Assets))
	for _, a := range cfg.Assets {
		fmt.Printf("  %s -> %s (%o)\n", a.Source, a.Target, a.Mode)
	}
}
