package appconfig

import (
	"fmt"

	"github.com/glxtools/appconf/pkg/profile"
	"github.com/glxtools/appconf/pkg/rule"
)

// Result collects the outcome of validating one entity. Fatal errors block
// the mutation; nonfatal errors are surfaced so the caller can decide whether
// to proceed. Validation never mutates state and never panics, so multiple
// unrelated issues can be collected before reporting.
type Result struct {
	Fatal    []string
	Nonfatal []string
}

// OK reports whether validation produced no errors at all.
func (r Result) OK() bool {
	return len(r.Fatal) == 0 && len(r.Nonfatal) == 0
}

func (r *Result) fatalf(format string, args ...any) {
	r.Fatal = append(r.Fatal, fmt.Sprintf(format, args...))
}

func (r *Result) nonfatalf(format string, args ...any) {
	r.Nonfatal = append(r.Nonfatal, fmt.Sprintf(format, args...))
}

// ValidateRule checks a rule against the current configuration. The source
// file must be a legal search-path location (fatal otherwise); a profile name
// that does not currently resolve is only a warning, since the profile may be
// defined later or live in a file outside the engine's control.
func (c *Configuration) ValidateRule(r *rule.Rule) Result {
	var res Result

	if !c.ValidSourceFile(r.SourceFile) {
		res.fatalf("the source file %q is not a valid configuration file on the search path", r.SourceFile)
	}

	if _, ok := c.Profiles.Get(r.ProfileName); !ok {
		res.nonfatalf("the profile %q referenced by this rule does not currently exist", r.ProfileName)
	}

	return res
}

// ValidateProfile checks a profile against the current configuration before
// it is committed via upsert.
func (c *Configuration) ValidateProfile(p *profile.Profile) Result {
	var res Result

	if !c.ValidSourceFile(p.SourceFile) {
		res.fatalf("the source file %q is not a valid configuration file on the search path", p.SourceFile)
	}

	if p.Name == "" {
		res.nonfatalf("the profile has an empty name")
	}

	if existing, ok := c.Profiles.Get(p.Name); ok && existing != p {
		res.nonfatalf("a profile named %q already exists and will be overwritten", p.Name)
	}

	for _, s := range p.Settings {
		if _, ok := profile.CanonicalKey(s.Key); !ok {
			res.nonfatalf("the setting key %q is not recognized", s.Key)
		}
	}

	return res
}
