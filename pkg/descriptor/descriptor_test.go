package descriptor_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/debforge/pkg/descriptor"
	"github.com/arthur-debert/debforge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDescriptor = `
[package]
name = "example"
version = "0.1.0"
authors = ["Jane Doe <jane@example.com>", "Other <other@example.com>"]
license = "MIT"
readme = "README.md"
description = "An example tool"
repository = "https://github.com/example/example"

[package.metadata.deb]
maintainer = "Jane Doe <jane@example.com>"
copyright = "2026, Jane Doe"
depends = "$auto"
section = "utility"
priority = "optional"
revision = "1"
conf-files = ["/etc/example/example.conf"]
assets = [
    ["target/release/example", "usr/bin/", "755"],
    ["README.md", "usr/share/doc/example/README", "644"],
]

[profile.release]
debug = false
`

func TestParse(t *testing.T) {
	desc, err := descriptor.Parse([]byte(sampleDescriptor))
	require.NoError(t, err)

	assert.Equal(t, "example", desc.Package.Name)
	assert.Equal(t, "0.1.0", desc.Package.Version)
	require.Len(t, desc.Package.Authors, 2)
	require.NotNil(t, desc.Package.License)
	assert.Equal(t, "MIT", *desc.Package.License)
	require.NotNil(t, desc.Package.Readme)
	assert.Equal(t, "README.md", *desc.Package.Readme)

	deb := desc.Deb()
	require.NotNil(t, deb.Maintainer)
	assert.Equal(t, "Jane Doe <jane@example.com>", *deb.Maintainer)
	require.NotNil(t, deb.Depends)
	assert.Equal(t, "$auto", *deb.Depends)
	require.NotNil(t, deb.Revision)
	assert.Equal(t, "1", *deb.Revision)
	require.Len(t, deb.Assets, 2)
	assert.Equal(t, []string{"target/release/example", "usr/bin/", "755"}, deb.Assets[0])

	require.NotNil(t, desc.Profile)
	require.NotNil(t, desc.Profile.Release)
	require.NotNil(t, desc.Profile.Release.Debug)
	assert.False(t, *desc.Profile.Release.Debug)
}

func TestParseInvalidTOML(t *testing.T) {
	_, err := descriptor.Parse([]byte("[package\nname ="))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDescriptorParse))
}

func TestDebDefaultsToEmptyBlock(t *testing.T) {
	desc, err := descriptor.Parse([]byte("[package]\nname = \"bare\"\nversion = \"1.0.0\"\n"))
	require.NoError(t, err)

	deb := desc.Deb()
	require.NotNil(t, deb)
	assert.Nil(t, deb.Maintainer)
	assert.Nil(t, deb.Assets)
}

func TestLoad(t *testing.T) {
	t.Run("reads_file_from_disk", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "Cargo.toml")
		require.NoError(t, os.WriteFile(path, []byte(sampleDescriptor), 0644))

		desc, err := descriptor.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "example", desc.Package.Name)
	})

	t.Run("missing_file_is_a_read_error", func(t *testing.T) {
		_, err := descriptor.Load(filepath.Join(t.TempDir(), "nope.toml"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrDescriptorRead))
	})
}
