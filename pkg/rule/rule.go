// Package rule implements the priority-ordered list of pattern-matching
// rules. Each rule pairs a process pattern with the name of the profile to
// apply, carries a session-unique identifier, and remembers the configuration
// file it came from. Priority is the rule's position in the list, never a
// stored field.
package rule

import (
	"fmt"
)

// Feature is the attribute of a running process that a pattern matches
// against.
type Feature int

const (
	// FeatureProcname matches the process pathname with leading directory
	// components removed.
	FeatureProcname Feature = iota
	// FeatureDSO matches the name of a shared object loaded by the process.
	FeatureDSO
	// FeatureTrue matches unconditionally.
	FeatureTrue
)

var featureIdentifiers = []string{
	"procname",
	"dso",
	"true",
}

func (f Feature) String() string {
	if f < 0 || int(f) >= len(featureIdentifiers) {
		return fmt.Sprintf("feature(%d)", int(f))
	}

	return featureIdentifiers[f]
}

// ParseFeature converts a feature identifier string to a [Feature].
func ParseFeature(s string) (Feature, error) {
	for i, id := range featureIdentifiers {
		if s == id {
			return Feature(i), nil
		}
	}

	return 0, fmt.Errorf("unknown rule feature %q", s)
}

// Features returns all feature identifier strings.
func Features() []string {
	ids := make([]string, len(featureIdentifiers))
	copy(ids, featureIdentifiers)

	return ids
}

// Pattern describes what a rule matches: a feature and the string compared
// against it.
type Pattern struct {
	Matches string
	Feature Feature
}

// Rule binds a pattern to a profile name. ID is unique within a session for
// its lifetime and is never reused, even after the rule is deleted.
type Rule struct {
	SourceFile  string
	ProfileName string
	Pattern     Pattern
	ID          int
}

// Clone returns a copy of the rule.
func (r *Rule) Clone() *Rule {
	c := *r

	return &c
}

// Equal reports structural equality, including the identifier.
func (r *Rule) Equal(o *Rule) bool {
	return r.ID == o.ID &&
		r.SourceFile == o.SourceFile &&
		r.ProfileName == o.ProfileName &&
		r.Pattern == o.Pattern
}
