package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/debforge/pkg/logging"
	"github.com/arthur-debert/debforge/pkg/resolver"
)

// autoSentinel in the depends directive expands to the automatically
// resolved dependencies of every packaged binary.
const autoSentinel = "$auto"

// Dependencies merges the literal tokens of the depends directive with the
// automatically resolved dependencies of every binary asset. The result is
// deduplicated, sorted, and comma-joined. A resolution failure for one
// binary downgrades to an advisory warning and never aborts aggregation for
// the others.
func (c *Config) Dependencies(r resolver.Resolver) (string, []string) {
	logger := logging.GetLogger("manifest.depends")

	deps := make(map[string]struct{})
	var warnings []string

	for _, word := range strings.Split(c.Depends, ",") {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		if word != autoSentinel {
			deps[word] = struct{}{}
			continue
		}
		for _, binary := range c.Binaries() {
			resolved, err := r.Resolve(binary, c.Architecture)
			if err != nil {
				logger.Warn().Err(err).Str("binary", binary).Msg("Automatic dependency resolution failed")
				warnings = append(warnings, fmt.Sprintf("%v (no auto deps for %s)", err, binary))
				continue
			}
			for _, dep := range resolved {
				deps[dep] = struct{}{}
			}
		}
	}

	merged := make([]string, 0, len(deps))
	for dep := range deps {
		merged = append(merged, dep)
	}
	sort.Strings(merged)
	return strings.Join(merged, ", "), warnings
}
