package manifest_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/debforge/pkg/errors"
	"github.com/arthur-debert/debforge/pkg/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver maps binary paths to canned results, recording each call.
type fakeResolver struct {
	deps   map[string][]string
	failed map[string]bool
	calls  []string
}

func (f *fakeResolver) Resolve(binaryPath, arch string) ([]string, error) {
	f.calls = append(f.calls, binaryPath)
	if f.failed[binaryPath] {
		return nil, errors.Newf(errors.ErrDependencyResolve, "ldd failed for %s", binaryPath)
	}
	return f.deps[binaryPath], nil
}

func depsConfig(root string, binaries ...string) *manifest.Config {
	cfg := &manifest.Config{
		WorkspaceRoot: root,
		TargetDir:     filepath.Join(root, "target"),
		Architecture:  "amd64",
	}
	for _, name := range binaries {
		cfg.Assets = append(cfg.Assets, manifest.Asset{
			Source: filepath.Join(root, "target", "release", name),
			Target: "usr/bin/" + name,
			Mode:   0o755,
		})
	}
	return cfg
}

func TestBinaries(t *testing.T) {
	root := filepath.Join("/work", "example")
	cfg := depsConfig(root, "alpha", "beta")
	cfg.Assets = append(cfg.Assets, manifest.Asset{
		Source: filepath.Join(root, "README.md"),
		Target: "usr/share/doc/example/README.md",
		Mode:   0o644,
	})

	assert.Equal(t, []string{
		filepath.Join(root, "target", "release", "alpha"),
		filepath.Join(root, "target", "release", "beta"),
	}, cfg.Binaries())
}

func TestDependencies(t *testing.T) {
	root := filepath.Join("/work", "example")

	t.Run("auto_with_no_binaries_is_empty", func(t *testing.T) {
		cfg := depsConfig(root)
		cfg.Depends = "$auto"

		deps, warnings := cfg.Dependencies(&fakeResolver{})
		assert.Equal(t, "", deps)
		assert.Empty(t, warnings)
	})

	t.Run("literals_merge_with_resolved", func(t *testing.T) {
		cfg := depsConfig(root, "alpha")
		cfg.Depends = "libc6, $auto"

		r := &fakeResolver{deps: map[string][]string{
			filepath.Join(root, "target", "release", "alpha"): {"libgcc-s1", "libc6"},
		}}
		deps, warnings := cfg.Dependencies(r)
		require.Empty(t, warnings)
		// deduplicated across literal and resolved tokens, sorted
		assert.Equal(t, "libc6, libgcc-s1", deps)
	})

	t.Run("resolver_duplicates_collapse", func(t *testing.T) {
		cfg := depsConfig(root, "alpha", "beta")
		cfg.Depends = "$auto"

		r := &fakeResolver{deps: map[string][]string{
			filepath.Join(root, "target", "release", "alpha"): {"libc6"},
			filepath.Join(root, "target", "release", "beta"):  {"libc6", "libssl3"},
		}}
		deps, warnings := cfg.Dependencies(r)
		require.Empty(t, warnings)
		assert.Equal(t, "libc6, libssl3", deps)
	})

	t.Run("one_failing_binary_never_aborts_the_others", func(t *testing.T) {
		cfg := depsConfig(root, "alpha", "beta")
		cfg.Depends = "$auto"

		alpha := filepath.Join(root, "target", "release", "alpha")
		beta := filepath.Join(root, "target", "release", "beta")
		r := &fakeResolver{
			deps:   map[string][]string{beta: {"libssl3"}},
			failed: map[string]bool{alpha: true},
		}
		deps, warnings := cfg.Dependencies(r)

		assert.Equal(t, "libssl3", deps)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "no auto deps for "+alpha)
		// both binaries were attempted
		assert.Equal(t, []string{alpha, beta}, r.calls)
	})

	t.Run("no_sentinel_skips_resolution", func(t *testing.T) {
		cfg := depsConfig(root, "alpha")
		cfg.Depends = "libc6, libm6"

		r := &fakeResolver{}
		deps, warnings := cfg.Dependencies(r)
		assert.Equal(t, "libc6, libm6", deps)
		assert.Empty(t, warnings)
		assert.Empty(t, r.calls)
	})
}
