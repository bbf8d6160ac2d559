// Package resolver derives runtime package dependencies from a compiled
// binary's shared-library linkage. The production implementation shells out
// to ldd and dpkg; manifest synthesis only sees the Resolver interface, so
// tests substitute fakes.
package resolver

import (
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/debforge/pkg/errors"
	"github.com/arthur-debert/debforge/pkg/logging"
)

// Resolver maps a binary path and Debian architecture tag to the set of
// runtime package names it requires.
type Resolver interface {
	Resolve(binaryPath, arch string) ([]string, error)
}

// LddResolver resolves dependencies with ldd and dpkg -S.
type LddResolver struct {
	logger zerolog.Logger
}

// NewLddResolver creates the production resolver.
func NewLddResolver() *LddResolver {
	return &LddResolver{
		logger: logging.GetLogger("resolver"),
	}
}

// Resolve lists the shared libraries the binary links against and asks dpkg
// which package owns each one. Returned names are deduplicated and keep
// first-seen order.
func (r *LddResolver) Resolve(binaryPath, arch string) ([]string, error) {
	logging.LogCommand("ldd", []string{binaryPath})
	out, err := exec.Command("ldd", binaryPath).Output()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDependencyResolve,
			"ldd failed for %s", binaryPath)
	}

	seen := make(map[string]bool)
	var packages []string
	for _, lib := range ParseLddOutput(string(out)) {
		name, err := r.ownerPackage(lib, arch)
		if err != nil {
			// Libraries outside dpkg's database (e.g. from the build
			// tree itself) contribute no dependency.
			r.logger.Debug().Err(err).Str("lib", lib).Msg("No owning package")
			continue
		}
		if !seen[name] {
			seen[name] = true
			packages = append(packages, name)
		}
	}
	return packages, nil
}

// ownerPackage asks dpkg which package installed the given library path.
func (r *LddResolver) ownerPackage(libPath, arch string) (string, error) {
	out, err := exec.Command("dpkg", "-S", libPath).Output()
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrDependencyResolve,
			"dpkg -S failed for %s", libPath)
	}
	name := PackageFromQuery(string(out), arch)
	if name == "" {
		return "", errors.Newf(errors.ErrDependencyResolve,
			"no package found for %s", libPath)
	}
	return name, nil
}

// ParseLddOutput extracts resolved shared-library paths from ldd output.
// Lines without a "=>" mapping (the vdso and the dynamic loader) are skipped.
func ParseLddOutput(out string) []string {
	var libs []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		// "libc.so.6 => /lib/x86_64-linux-gnu/libc.so.6 (0x...)"
		if len(fields) >= 3 && fields[1] == "=>" && strings.HasPrefix(fields[2], "/") {
			libs = append(libs, fields[2])
		}
	}
	return libs
}

// PackageFromQuery extracts the owning package name from dpkg -S output.
// Multiarch entries ("libc6:amd64: /lib/...") are stripped to the bare
// package name; when several packages own the path, an entry matching the
// requested architecture wins over the first line.
func PackageFromQuery(out, arch string) string {
	first := ""
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		qualified, _, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		name, pkgArch, _ := strings.Cut(qualified, ":")
		if pkgArch == arch {
			return name
		}
		if first == "" {
			first = name
		}
	}
	return first
}
