package manifest

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/debforge/pkg/errors"
)

// Asset is one file installed by the produced package: a source path in the
// build workspace (or an absolute path), a destination relative to the
// package root, and the permission bits to install it with.
type Asset struct {
	Source string
	Target string
	Mode   uint32
}

// NewAsset builds a canonical Asset. An absolute target is reinterpreted
// relative to the package root by stripping the leading separator; a target
// ending in a separator gets the source's base name appended. Both rewrites
// keep the invariant that Target is always relative after construction.
func NewAsset(source, target string, mode uint32) (Asset, error) {
	target = filepath.ToSlash(target)
	if strings.HasPrefix(target, "/") {
		stripped := strings.TrimPrefix(target, "/")
		if stripped == "" {
			return Asset{}, errors.Newf(errors.ErrAssetPath,
				"asset target %q has no path beyond the root directory", target)
		}
		target = stripped
	}
	if strings.HasSuffix(target, "/") {
		base := filepath.Base(source)
		if base == "." || base == "/" || base == string(filepath.Separator) {
			return Asset{}, errors.Newf(errors.ErrAssetPath,
				"asset source %q must be a file to install into directory %q", source, target)
		}
		target = path.Join(target, base)
	}
	return Asset{
		Source: source,
		Target: target,
		Mode:   mode,
	}, nil
}

// IsBinaryExecutable reports whether the asset is a compiled binary: its
// source lives under the build's release-output directory and any executable
// bit is set. These are the assets automatic dependency resolution inspects.
func (a Asset) IsBinaryExecutable(workspaceRoot, releaseDir string) bool {
	source := a.Source
	if !filepath.IsAbs(source) {
		source = filepath.Join(workspaceRoot, source)
	}
	return pathHasPrefix(source, releaseDir) && a.Mode&0o111 != 0
}

// MarshalYAML renders the mode in octal, the way it was declared.
func (a Asset) MarshalYAML() (interface{}, error) {
	return struct {
		Source string `yaml:"source"`
		Target string `yaml:"target"`
		Mode   string `yaml:"mode"`
	}{a.Source, a.Target, fmt.Sprintf("%o", a.Mode)}, nil
}

// pathHasPrefix reports whether p is prefix or lies under it, component-wise.
func pathHasPrefix(p, prefix string) bool {
	p = filepath.Clean(p)
	prefix = filepath.Clean(prefix)
	if p == prefix {
		return true
	}
	return strings.HasPrefix(p, prefix+string(filepath.Separator))
}
