// Package manifest resolves a project's build descriptor and packaging
// directives into the full set of files to install, their destinations and
// permission bits, and the derived package metadata. This is the seam
// between user configuration (glob patterns, absolute paths, trailing-slash
// directory markers) and the structural invariants the package format
// requires: relative destinations, valid permission bits, a non-empty file
// set.
package manifest

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arthur-debert/debforge/pkg/arch"
	"github.com/arthur-debert/debforge/pkg/config"
	"github.com/arthur-debert/debforge/pkg/descriptor"
	"github.com/arthur-debert/debforge/pkg/errors"
	"github.com/arthur-debert/debforge/pkg/introspect"
	"github.com/arthur-debert/debforge/pkg/logging"
)

// Config is the fully resolved packaging manifest: every fallback has been
// applied, every asset rule expanded. Downstream archive construction
// consumes it as-is.
type Config struct {
	WorkspaceRoot string `yaml:"-"`
	Target        string `yaml:"target,omitempty"`
	TargetDir     string `yaml:"-"`

	Name                 string `yaml:"name"`
	Version              string `yaml:"version"`
	License              string `yaml:"license,omitempty"`
	LicenseFile          string `yaml:"license-file,omitempty"`
	LicenseFileSkipLines int    `yaml:"license-file-skip-lines,omitempty"`
	Copyright            string `yaml:"copyright"`
	Homepage             string `yaml:"homepage,omitempty"`
	Documentation        string `yaml:"documentation,omitempty"`
	Repository           string `yaml:"repository,omitempty"`
	Description          string `yaml:"description"`
	ExtendedDescription  string `yaml:"extended-description,omitempty"`
	Maintainer           string `yaml:"maintainer"`
	Depends              string `yaml:"depends"`
	Section              string `yaml:"section,omitempty"`
	Priority             string `yaml:"priority"`

	// Package transition fields, see https://wiki.debian.org/PackageTransition
	Conflicts string `yaml:"conflicts,omitempty"`
	Breaks    string `yaml:"breaks,omitempty"`
	Replaces  string `yaml:"replaces,omitempty"`
	Provides  string `yaml:"provides,omitempty"`

	Architecture      string   `yaml:"architecture"`
	ConfFiles         string   `yaml:"conf-files,omitempty"`
	Assets            []Asset  `yaml:"assets"`
	MaintainerScripts string   `yaml:"maintainer-scripts,omitempty"`
	Features          []string `yaml:"features,omitempty"`
	DefaultFeatures   bool     `yaml:"default-features"`
	Strip             bool     `yaml:"strip"`

	// Install layout, resolved from tool settings.
	BinDir string `yaml:"-"`
	DocDir string `yaml:"-"`
}

// Options parameterize a synthesis run.
type Options struct {
	// WorkspaceRoot is the build workspace root directory.
	WorkspaceRoot string
	// TargetDir is the build-output directory reported by introspection.
	TargetDir string
	// Target is the cross-compilation triple, empty for a host build.
	Target string
	// Settings are tool-level defaults; the zero value means "use the
	// embedded defaults".
	Settings config.Settings
}

// FromDescriptor runs build introspection, loads the project descriptor it
// points at, and synthesizes the manifest. Returns the resolved Config and
// the accumulated advisory warnings.
func FromDescriptor(intro introspect.Introspector, target string) (*Config, []string, error) {
	meta, err := intro.Metadata()
	if err != nil {
		return nil, nil, err
	}
	rootPkg, err := meta.RootPackage()
	if err != nil {
		return nil, nil, err
	}

	workspaceRoot := meta.WorkspaceRoot
	if workspaceRoot == "" {
		workspaceRoot = filepath.Dir(rootPkg.ManifestPath)
	}

	desc, err := descriptor.Load(rootPkg.ManifestPath)
	if err != nil {
		return nil, nil, err
	}

	settings, err := config.Load(workspaceRoot)
	if err != nil {
		return nil, nil, err
	}

	return Synthesize(desc, rootPkg, Options{
		WorkspaceRoot: workspaceRoot,
		TargetDir:     meta.TargetDirectory,
		Target:        target,
		Settings:      settings,
	})
}

// Synthesize derives the resolved Config from a parsed descriptor and the
// root package's target records. Fatal errors abort with no partial Config;
// non-fatal findings accumulate into the returned warnings list.
func Synthesize(desc *descriptor.Descriptor, rootPkg *introspect.Package, opts Options) (*Config, []string, error) {
	logger := logging.GetLogger("manifest")

	settings := opts.Settings
	if settings == (config.Settings{}) {
		settings = config.Default()
	}

	// Cross-compilation writes build output under a per-triple directory
	targetDir := opts.TargetDir
	if opts.Target != "" {
		targetDir = filepath.Join(targetDir, opts.Target)
	}

	pkg := desc.Package
	deb := desc.Deb()

	licenseFile, skipLines, err := licenseFileSpec(&pkg, deb)
	if err != nil {
		return nil, nil, err
	}

	warnings := checkDescriptor(&pkg, deb, opts.WorkspaceRoot)

	copyright, err := resolveCopyright(&pkg, deb)
	if err != nil {
		return nil, nil, err
	}
	maintainer, err := resolveMaintainer(&pkg, deb)
	if err != nil {
		return nil, nil, err
	}
	extended, err := extendedDescription(deb.ExtendedDescription, pkg.Readme, opts.WorkspaceRoot)
	if err != nil {
		return nil, nil, err
	}

	architecture := arch.Host()
	if opts.Target != "" {
		architecture = arch.Debian(opts.Target)
	}

	cfg := &Config{
		WorkspaceRoot:        opts.WorkspaceRoot,
		Target:               opts.Target,
		TargetDir:            targetDir,
		Name:                 pkg.Name,
		Version:              versionString(pkg.Version, deb.Revision),
		License:              stringOr(pkg.License, ""),
		LicenseFile:          licenseFile,
		LicenseFileSkipLines: skipLines,
		Copyright:            copyright,
		Homepage:             stringOr(pkg.Homepage, ""),
		Documentation:        stringOr(pkg.Documentation, ""),
		Repository:           stringOr(pkg.Repository, ""),
		Description:          stringOr(pkg.Description, fmt.Sprintf("%s -- autogenerated package description", pkg.Name)),
		ExtendedDescription:  extended,
		Maintainer:           maintainer,
		Depends:              stringOr(deb.Depends, settings.Depends),
		Section:              stringOr(deb.Section, ""),
		Priority:             stringOr(deb.Priority, settings.Priority),
		Conflicts:            stringOr(deb.Conflicts, ""),
		Breaks:               stringOr(deb.Breaks, ""),
		Replaces:             stringOr(deb.Replaces, ""),
		Provides:             stringOr(deb.Provides, ""),
		Architecture:         architecture,
		ConfFiles:            joinConfFiles(deb.ConfFiles),
		MaintainerScripts:    stringOr(deb.MaintainerScripts, ""),
		Features:             deb.Features,
		DefaultFeatures:      deb.DefaultFeatures == nil || *deb.DefaultFeatures,
		Strip:                stripFlag(desc.Profile),
		BinDir:               settings.BinDir,
		DocDir:               settings.DocDir,
	}

	var assets []Asset
	if deb.Assets != nil {
		assets, err = cfg.explicitAssets(deb.Assets)
	} else {
		assets, err = cfg.impliedAssets(rootPkg.Targets, pkg.Readme)
	}
	if err != nil {
		return nil, nil, err
	}
	// The non-empty check runs before the synthesized copyright/changelog
	// assets are appended: those two alone never make a package.
	if len(assets) == 0 {
		return nil, nil, errors.New(errors.ErrNoAssets,
			"no binaries found and no assets declared; the package would be empty. Declare assets in the descriptor")
	}
	cfg.Assets = assets

	if err := cfg.AddCopyrightAsset(); err != nil {
		return nil, nil, err
	}
	if deb.Changelog != nil {
		if err := cfg.addChangelogAsset(*deb.Changelog); err != nil {
			return nil, nil, err
		}
	}

	logger.Debug().
		Str("package", cfg.Name).
		Str("version", cfg.Version).
		Str("arch", cfg.Architecture).
		Int("assets", len(cfg.Assets)).
		Int("warnings", len(warnings)).
		Msg("Manifest synthesized")

	return cfg, warnings, nil
}

// PathInBuild locates a file inside the release build-output directory.
func (c *Config) PathInBuild(relPath string) string {
	return filepath.Join(c.TargetDir, "release", relPath)
}

// DebDir is the staging directory for generated package files.
func (c *Config) DebDir() string {
	return filepath.Join(c.TargetDir, "debian")
}

// PathInDeb locates a file inside the staging directory.
func (c *Config) PathInDeb(relPath string) string {
	return filepath.Join(c.DebDir(), relPath)
}

// Binaries returns the source paths of all assets classified as compiled
// binaries, the inputs to automatic dependency resolution.
func (c *Config) Binaries() []string {
	targetDir := c.TargetDir
	if c.Target != "" {
		// Strip the per-triple directory
		targetDir = filepath.Dir(targetDir)
	}
	releaseDir := filepath.Join(targetDir, "release")

	var binaries []string
	for _, asset := range c.Assets {
		// Files in the build dir with an executable bit set are assumed
		// to be binaries
		if asset.IsBinaryExecutable(c.WorkspaceRoot, releaseDir) {
			binaries = append(binaries, asset.Source)
		}
	}
	return binaries
}

// AddCopyrightAsset appends the copyright file asset. The file itself is
// generated later, into the staging directory.
func (c *Config) AddCopyrightAsset() error {
	asset, err := NewAsset(
		c.PathInDeb("copyright"),
		path.Join(c.docRoot(), c.Name, "copyright"),
		0o644,
	)
	if err != nil {
		return err
	}
	c.Assets = append(c.Assets, asset)
	return nil
}

func (c *Config) addChangelogAsset(changelog string) error {
	asset, err := NewAsset(
		changelog,
		path.Join(c.docRoot(), c.Name, "changelog"),
		0o644,
	)
	if err != nil {
		return err
	}
	c.Assets = append(c.Assets, asset)
	return nil
}

// RepositoryType guesses the source-control system behind the repository
// URL. It is a heuristic: descriptors tend to carry user-friendly web URLs
// rather than tool-specific schemes.
func (c *Config) RepositoryType() string {
	repo := c.Repository
	if repo == "" {
		return ""
	}
	switch {
	case strings.HasPrefix(repo, "git+"), strings.HasSuffix(repo, ".git"),
		strings.Contains(repo, "git@"), strings.Contains(repo, "github.com"),
		strings.Contains(repo, "gitlab.com"):
		return "Git"
	case strings.HasPrefix(repo, "cvs+"), strings.Contains(repo, "pserver:"),
		strings.Contains(repo, "@cvs."):
		return "Cvs"
	case strings.HasPrefix(repo, "hg+"), strings.Contains(repo, "hg@"),
		strings.Contains(repo, "/hg."):
		return "Hg"
	case strings.HasPrefix(repo, "svn+"), strings.Contains(repo, "/svn."):
		return "Svn"
	default:
		return ""
	}
}

func (c *Config) binRoot() string {
	if c.BinDir == "" {
		return "usr/bin"
	}
	return c.BinDir
}

func (c *Config) docRoot() string {
	if c.DocDir == "" {
		return "usr/share/doc"
	}
	return c.DocDir
}

// checkDescriptor collects the advisory warnings surfaced alongside a
// successful synthesis.
func checkDescriptor(pkg *descriptor.Package, deb *descriptor.DebOverrides, workspaceRoot string) []string {
	var warnings []string
	if pkg.Description == nil {
		warnings = append(warnings, "description field is missing in the descriptor")
	}
	if pkg.License == nil {
		warnings = append(warnings, "license field is missing in the descriptor")
	}
	if pkg.Readme != nil {
		readme := *pkg.Readme
		if deb.ExtendedDescription == nil &&
			(strings.HasSuffix(readme, ".md") || strings.HasSuffix(readme, ".markdown")) {
			warnings = append(warnings, fmt.Sprintf(
				"extended-description field missing. Using %s, but markdown may not render well.", readme))
		}
	} else {
		for _, name := range []string{"README.md", "README.txt", "README"} {
			if _, err := os.Stat(filepath.Join(workspaceRoot, name)); err == nil {
				warnings = append(warnings, fmt.Sprintf(
					"%s file exists, but is not referenced by the readme field in the descriptor", name))
				break
			}
		}
	}
	return warnings
}

func resolveCopyright(pkg *descriptor.Package, deb *descriptor.DebOverrides) (string, error) {
	if deb.Copyright != nil {
		return *deb.Copyright, nil
	}
	if len(pkg.Authors) > 0 {
		return strings.Join(pkg.Authors, ", "), nil
	}
	return "", errors.New(errors.ErrFieldMissing, "package must have a copyright or authors")
}

func resolveMaintainer(pkg *descriptor.Package, deb *descriptor.DebOverrides) (string, error) {
	if deb.Maintainer != nil {
		return *deb.Maintainer, nil
	}
	if len(pkg.Authors) > 0 {
		return pkg.Authors[0], nil
	}
	return "", errors.New(errors.ErrFieldMissing, "package must have a maintainer or authors")
}

// extendedDescription prefers the explicit override, then the readme file's
// contents, then nothing.
func extendedDescription(override, readme *string, workspaceRoot string) (string, error) {
	if override != nil {
		return *override, nil
	}
	if readme == nil {
		return "", nil
	}
	readmePath := *readme
	if !filepath.IsAbs(readmePath) {
		readmePath = filepath.Join(workspaceRoot, readmePath)
	}
	data, err := os.ReadFile(readmePath)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileRead,
			"unable to read README %s", readmePath)
	}
	return string(data), nil
}

// licenseFileSpec resolves the license-file reference: an override list of
// [path] or [path, lines-to-skip], else the descriptor's plain license-file
// field with zero skipped lines.
func licenseFileSpec(pkg *descriptor.Package, deb *descriptor.DebOverrides) (string, int, error) {
	if len(deb.LicenseFile) > 0 {
		file := deb.LicenseFile[0]
		skip := 0
		if len(deb.LicenseFile) > 1 {
			parsed, err := strconv.Atoi(deb.LicenseFile[1])
			if err != nil {
				return "", 0, errors.Wrapf(err, errors.ErrNumParse,
					"invalid number of lines to skip in license-file %q", deb.LicenseFile[1])
			}
			skip = parsed
		}
		return file, skip, nil
	}
	if pkg.LicenseFile != nil {
		return *pkg.LicenseFile, 0, nil
	}
	return "", 0, nil
}

func versionString(version string, revision *string) string {
	if revision != nil {
		return fmt.Sprintf("%s-%s", version, *revision)
	}
	return version
}

func joinConfFiles(files []string) string {
	if len(files) == 0 {
		return ""
	}
	return strings.Join(files, "\n") + "\n"
}

func stripFlag(profiles *descriptor.Profiles) bool {
	if profiles != nil && profiles.Release != nil && profiles.Release.Debug != nil {
		return !*profiles.Release.Debug
	}
	return true
}

func stringOr(s *string, fallback string) string {
	if s != nil {
		return *s
	}
	return fallback
}
