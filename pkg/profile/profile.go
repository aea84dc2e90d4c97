// Package profile implements named settings profiles and the ordered table
// that holds them. A profile bundles driver settings under a unique name and
// remembers the configuration file it came from.
package profile

import (
	"github.com/glxtools/appconf/pkg/value"
)

// Setting is a single key/value pair inside a profile. Keys are compared
// case-insensitively against the canonical key table; unrecognized keys are
// kept verbatim.
type Setting struct {
	Key   string
	Value value.Value
}

// Equal reports structural equality of two settings.
func (s Setting) Equal(o Setting) bool {
	return s.Key == o.Key && s.Value.Equal(o.Value)
}

// Profile is a named, ordered bundle of settings backed by a source file.
// Names are unique (case-sensitive) within a table.
type Profile struct {
	Name       string
	SourceFile string
	Settings   []Setting
}

// New creates a profile with the given name, source file and settings.
func New(name, sourceFile string, settings ...Setting) *Profile {
	return &Profile{
		Name:       name,
		SourceFile: sourceFile,
		Settings:   settings,
	}
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Settings = make([]Setting, len(p.Settings))
	copy(c.Settings, p.Settings)

	return &c
}

// Equal reports structural equality: same name, source file, and settings in
// the same order.
func (p *Profile) Equal(o *Profile) bool {
	if p.Name != o.Name || p.SourceFile != o.SourceFile || len(p.Settings) != len(o.Settings) {
		return false
	}

	for i, s := range p.Settings {
		if !s.Equal(o.Settings[i]) {
			return false
		}
	}

	return true
}

// HasUnrecognizedKeys reports whether any setting key is absent from the
// canonical key table.
func (p *Profile) HasUnrecognizedKeys() bool {
	for _, s := range p.Settings {
		if _, ok := CanonicalKey(s.Key); !ok {
			return true
		}
	}

	return false
}
