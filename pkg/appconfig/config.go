// Package appconfig implements the application-profile configuration engine:
// loading rule and profile entities from the files on a search path, editing
// them in memory, computing per-file diffs against the last-loaded baseline,
// and applying those diffs back to disk.
package appconfig

import (
	"slices"

	"github.com/glxtools/appconf/pkg/profile"
	"github.com/glxtools/appconf/pkg/rule"
)

// Configuration is one complete in-memory configuration: the enabled toggle,
// the ordered rule list, the profile table, and the search path the entities
// were loaded from. A session keeps two of these, the editable current
// configuration and the immutable gold baseline.
type Configuration struct {
	Rules      *rule.List
	Profiles   *profile.Table
	GlobalFile string
	SearchPath []string
	Enabled    bool
}

// NewConfiguration creates an empty configuration over the given global file
// and search path.
func NewConfiguration(globalFile string, searchPath []string) *Configuration {
	return &Configuration{
		Rules:      rule.NewList(),
		Profiles:   profile.NewTable(),
		GlobalFile: globalFile,
		SearchPath: searchPath,
		Enabled:    true,
	}
}

// Clone returns a deep copy. Rule identifiers and the id counter are
// preserved, so a clone never hands out ids the original already used.
func (c *Configuration) Clone() *Configuration {
	return &Configuration{
		Rules:      c.Rules.Clone(),
		Profiles:   c.Profiles.Clone(),
		GlobalFile: c.GlobalFile,
		SearchPath: slices.Clone(c.SearchPath),
		Enabled:    c.Enabled,
	}
}

// Equal reports structural equality of two configurations.
func (c *Configuration) Equal(o *Configuration) bool {
	return c.Enabled == o.Enabled &&
		c.GlobalFile == o.GlobalFile &&
		slices.Equal(c.SearchPath, o.SearchPath) &&
		c.Rules.Equal(o.Rules) &&
		c.Profiles.Equal(o.Profiles)
}

// SourceFiles returns every file referenced by an entity in the
// configuration, in search-path order with unlisted files appended last.
func (c *Configuration) SourceFiles() []string {
	seen := make(map[string]bool)

	var files []string
	add := func(f string) {
		if f != "" && !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}

	for _, r := range c.Rules.All() {
		add(r.SourceFile)
	}
	for _, p := range c.Profiles.All() {
		add(p.SourceFile)
	}

	ordered := make([]string, 0, len(files))
	for _, f := range files {
		if c.searchPathRank(f) >= 0 {
			ordered = append(ordered, f)
		}
	}
	slices.SortStableFunc(ordered, func(a, b string) int {
		return c.searchPathRank(a) - c.searchPathRank(b)
	})
	for _, f := range files {
		if c.searchPathRank(f) < 0 {
			ordered = append(ordered, f)
		}
	}

	return ordered
}

// searchPathRank returns the index of the search-path entry governing the
// file, or -1 when the file is not a legal search-path location.
func (c *Configuration) searchPathRank(path string) int {
	for i, entry := range c.SearchPath {
		if entry == path || isInDir(path, entry) {
			return i
		}
	}

	return -1
}

// ValidSourceFile reports whether path is a legal location on the search
// path: either one of its entries, or a file directly inside a directory
// entry.
func (c *Configuration) ValidSourceFile(path string) bool {
	return path != "" && c.searchPathRank(path) >= 0
}
