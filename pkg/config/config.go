// Package config loads debforge's own settings: embedded defaults layered
// under an optional debforge.toml in the project root.
package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/debforge/pkg/errors"
)

// Settings are the resolved tool-level defaults consumed by manifest synthesis.
type Settings struct {
	// BinDir is where implied binary assets are installed, relative to the
	// package root.
	BinDir string
	// DocDir is the documentation root; per-package files land under
	// DocDir/<package name>.
	DocDir string
	// Priority is the package priority used when the descriptor declares none.
	Priority string
	// Depends is the dependency directive used when the descriptor declares none.
	Depends string
}

// Load layers the embedded defaults under an optional debforge.toml found in
// projectRoot and returns the resolved settings.
func Load(projectRoot string) (Settings, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return Settings{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	if projectRoot != "" {
		path := filepath.Join(projectRoot, "debforge.toml")
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return Settings{}, errors.Wrapf(err, errors.ErrConfigLoad,
					"failed to load project config from %s", path)
			}
		}
	}

	return Settings{
		BinDir:   k.String("layout.bin_dir"),
		DocDir:   k.String("layout.doc_dir"),
		Priority: k.String("package.priority"),
		Depends:  k.String("package.depends"),
	}, nil
}

// Default returns the embedded defaults with no project override applied.
func Default() Settings {
	s, err := Load("")
	if err != nil {
		// The embedded defaults are compiled in; failing to parse them is
		// a programming error.
		panic(err)
	}
	return s
}
