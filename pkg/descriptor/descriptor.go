// Package descriptor reads the project's build descriptor (Cargo.toml) into
// typed records, including the optional [package.metadata.deb] block that
// customizes the produced package.
package descriptor

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/debforge/pkg/errors"
)

// Descriptor is the parsed build descriptor.
type Descriptor struct {
	Package Package   `toml:"package"`
	Profile *Profiles `toml:"profile"`
}

// Package holds the descriptor's identity fields.
type Package struct {
	Name          string    `toml:"name"`
	Version       string    `toml:"version"`
	Authors       []string  `toml:"authors"`
	License       *string   `toml:"license"`
	LicenseFile   *string   `toml:"license-file"`
	Homepage      *string   `toml:"homepage"`
	Documentation *string   `toml:"documentation"`
	Repository    *string   `toml:"repository"`
	Description   *string   `toml:"description"`
	Readme        *string   `toml:"readme"`
	Metadata      *Metadata `toml:"metadata"`
}

// Metadata is the free-form metadata table; only the deb block is meaningful here.
type Metadata struct {
	Deb *DebOverrides `toml:"deb"`
}

// DebOverrides customizes the produced package. Every field is optional;
// fallbacks are resolved once, during manifest synthesis.
type DebOverrides struct {
	Maintainer          *string    `toml:"maintainer"`
	Copyright           *string    `toml:"copyright"`
	LicenseFile         []string   `toml:"license-file"`
	Changelog           *string    `toml:"changelog"`
	Depends             *string    `toml:"depends"`
	Conflicts           *string    `toml:"conflicts"`
	Breaks              *string    `toml:"breaks"`
	Replaces            *string    `toml:"replaces"`
	Provides            *string    `toml:"provides"`
	ExtendedDescription *string    `toml:"extended-description"`
	Section             *string    `toml:"section"`
	Priority            *string    `toml:"priority"`
	Revision            *string    `toml:"revision"`
	ConfFiles           []string   `toml:"conf-files"`
	Assets              [][]string `toml:"assets"`
	MaintainerScripts   *string    `toml:"maintainer-scripts"`
	Features            []string   `toml:"features"`
	DefaultFeatures     *bool      `toml:"default-features"`
}

// Profiles mirrors the descriptor's [profile] table.
type Profiles struct {
	Release *Profile `toml:"release"`
}

// Profile holds the per-profile settings we care about.
type Profile struct {
	Debug *bool `toml:"debug"`
}

// Load reads and parses the descriptor at the given path.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDescriptorRead,
			"unable to read %s", path)
	}
	return Parse(data)
}

// Parse decodes descriptor bytes.
func Parse(data []byte) (*Descriptor, error) {
	var desc Descriptor
	if err := toml.Unmarshal(data, &desc); err != nil {
		return nil, errors.Wrap(err, errors.ErrDescriptorParse, "failed to parse descriptor TOML")
	}
	return &desc, nil
}

// Deb returns the packaging override block, or an empty one when the
// descriptor declares none.
func (d *Descriptor) Deb() *DebOverrides {
	if d.Package.Metadata != nil && d.Package.Metadata.Deb != nil {
		return d.Package.Metadata.Deb
	}
	return &DebOverrides{}
}
