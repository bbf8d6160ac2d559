package manifest

import (
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/arthur-debert/debforge/pkg/errors"
	"github.com/arthur-debert/debforge/pkg/introspect"
	"github.com/arthur-debert/debforge/pkg/logging"
)

// releaseMarker is the conventional build-output prefix users write in asset
// rules; it is rewritten to the resolved build directory before expansion.
const releaseMarker = "target/release"

// isGlobPattern reports whether the path contains glob metacharacters.
func isGlobPattern(s string) bool {
	return strings.ContainsAny(s, "*[]!")
}

// explicitAssets expands every declared asset rule. Rules that match nothing
// contribute nothing; emptiness is checked globally, not per rule.
func (c *Config) explicitAssets(rules [][]string) ([]Asset, error) {
	assets := make([]Asset, 0, len(rules))
	for _, rule := range rules {
		expanded, err := c.expandRule(rule)
		if err != nil {
			return nil, err
		}
		assets = append(assets, expanded...)
	}
	return assets, nil
}

// expandRule turns one (source, target, mode) rule into concrete assets.
// A literal source yields at most one asset with the declared target
// verbatim; a glob source yields one asset per matching file, each target
// extended with the match's path beyond the pattern's literal prefix.
func (c *Config) expandRule(rule []string) ([]Asset, error) {
	logger := logging.GetLogger("manifest.assets")

	if len(rule) < 1 || rule[0] == "" {
		return nil, errors.New(errors.ErrAssetRule, "missing source path for asset")
	}
	source := rule[0]
	if len(rule) < 2 || rule[1] == "" {
		return nil, errors.Newf(errors.ErrAssetRule, "missing target path for asset %s", source)
	}
	target := rule[1]
	if len(rule) < 3 || rule[2] == "" {
		return nil, errors.Newf(errors.ErrAssetRule, "missing mode for asset %s", source)
	}
	mode, err := strconv.ParseUint(rule[2], 8, 32)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNumParse,
			"unable to parse mode argument %q for asset %s", rule[2], source)
	}

	if pathHasPrefix(source, releaseMarker) {
		rel := strings.TrimPrefix(strings.TrimPrefix(source, releaseMarker), "/")
		source = c.PathInBuild(rel)
	}

	prefix := literalPrefix(source)

	matches, err := doublestar.FilepathGlob(source, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrGlobPattern,
			"invalid asset pattern %q", source)
	}

	var assets []Asset
	for _, match := range matches {
		assetTarget := target
		if isGlobPattern(source) {
			suffix := match
			if prefix != "" {
				suffix, err = filepath.Rel(prefix, match)
				if err != nil {
					return nil, errors.Wrapf(err, errors.ErrAssetPath,
						"match %q escapes pattern prefix %q", match, prefix)
				}
			}
			assetTarget = path.Join(target, filepath.ToSlash(suffix))
		}
		asset, err := NewAsset(match, assetTarget, uint32(mode))
		if err != nil {
			return nil, err
		}
		logger.Debug().
			Str("source", asset.Source).
			Str("target", asset.Target).
			Msg("Asset resolved")
		assets = append(assets, asset)
	}
	return assets, nil
}

// impliedAssets derives the default asset set when the descriptor declares
// no rules: every executable build target, plus the readme when one is
// referenced.
func (c *Config) impliedAssets(targets []introspect.Target, readme *string) ([]Asset, error) {
	var assets []Asset
	for _, target := range targets {
		if !target.IsBinary() {
			continue
		}
		asset, err := NewAsset(
			c.PathInBuild(target.Name),
			path.Join(c.binRoot(), target.Name),
			0o755,
		)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	if readme != nil {
		asset, err := NewAsset(
			*readme,
			path.Join(c.docRoot(), c.Name, *readme),
			0o644,
		)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

// literalPrefix is the longest leading run of path components free of glob
// metacharacters; pattern matches are made relative to it when computing
// destinations.
func literalPrefix(pattern string) string {
	parts := strings.Split(pattern, string(filepath.Separator))
	var kept []string
	for _, part := range parts {
		if isGlobPattern(part) {
			break
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, string(filepath.Separator))
}
