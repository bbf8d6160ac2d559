// Package introspect discovers the project's target list and build-output
// location by invoking the build system's metadata command.
package introspect

import (
	"encoding/json"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/debforge/pkg/errors"
	"github.com/arthur-debert/debforge/pkg/logging"
)

// Target is one buildable target of a package.
type Target struct {
	Name       string   `json:"name"`
	Kind       []string `json:"kind"`
	CrateTypes []string `json:"crate_types"`
}

// IsBinary reports whether both the artifact-kind and crate-type markers
// indicate an executable.
func (t Target) IsBinary() bool {
	return contains(t.Kind, "bin") && contains(t.CrateTypes, "bin")
}

// Package is one package record from the metadata output.
type Package struct {
	ID           string   `json:"id"`
	Targets      []Target `json:"targets"`
	ManifestPath string   `json:"manifest_path"`
}

// Metadata is the decoded build-introspection result.
type Metadata struct {
	Packages        []Package `json:"packages"`
	Resolve         Resolve   `json:"resolve"`
	TargetDirectory string    `json:"target_directory"`
	WorkspaceRoot   string    `json:"workspace_root"`
}

// Resolve carries the dependency-resolution section; only the root package
// identifier is used.
type Resolve struct {
	Root string `json:"root"`
}

// RootPackage returns the package record matching the resolve root.
func (m *Metadata) RootPackage() (*Package, error) {
	for i := range m.Packages {
		if m.Packages[i].ID == m.Resolve.Root {
			return &m.Packages[i], nil
		}
	}
	return nil, errors.New(errors.ErrIntrospectParse,
		"unable to find root package in build metadata")
}

// Introspector produces build metadata for the current project. It is an
// injected capability so manifest synthesis can be tested with fakes.
type Introspector interface {
	Metadata() (*Metadata, error)
}

// CargoIntrospector shells out to `cargo metadata`.
type CargoIntrospector struct {
	// Dir is the directory to run the command in; empty means the
	// current working directory.
	Dir    string
	logger zerolog.Logger
}

// NewCargoIntrospector creates an introspector rooted at dir.
func NewCargoIntrospector(dir string) *CargoIntrospector {
	return &CargoIntrospector{
		Dir:    dir,
		logger: logging.GetLogger("introspect"),
	}
}

// Metadata invokes the metadata command and decodes its output.
// Invocation or parse failure is fatal to the packaging run.
func (c *CargoIntrospector) Metadata() (*Metadata, error) {
	args := []string{"metadata", "--format-version=1"}
	logging.LogCommand("cargo", args)

	cmd := exec.Command("cargo", args...)
	cmd.Dir = c.Dir
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, errors.Wrap(err, errors.ErrIntrospectCommand,
				"cargo metadata failed").WithDetail("stderr", string(exitErr.Stderr))
		}
		return nil, errors.Wrap(err, errors.ErrIntrospectCommand,
			"unable to run cargo (is it in your PATH?)")
	}

	meta, err := ParseMetadata(out)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().
		Int("packages", len(meta.Packages)).
		Str("targetDir", meta.TargetDirectory).
		Msg("Build metadata loaded")
	return meta, nil
}

// ParseMetadata decodes the JSON metadata document.
func ParseMetadata(data []byte) (*Metadata, error) {
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrap(err, errors.ErrIntrospectParse,
			"malformed build metadata output")
	}
	return &meta, nil
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
