package expr

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/glxtools/appconf/pkg/profile"
	"github.com/glxtools/appconf/pkg/rule"
)

// RuleFilter selects rules with a CEL expression. The expression has access
// to variables:
//   - `rule.id` (int): The rule's session identifier
//   - `rule.priority` (int): The rule's zero-based priority
//   - `rule.feature` (string): The pattern feature, one of "procname", "dso", "true"
//   - `rule.matches` (string): The pattern match string
//   - `rule.profile` (string): The referenced profile name
//   - `rule.source` (string): The rule's source file
//
// The expression must return a boolean:
//   - rule.feature == "procname" && rule.matches.contains("glx")
//   - rule.profile == "Fast"
//   - rule.priority < 3
type RuleFilter struct {
	program cel.Program
}

// NewRuleFilter compiles a rule filter expression.
func NewRuleFilter(expression string) (*RuleFilter, error) {
	env, err := NewEnvironment(
		cel.Variable("rule.id", cel.IntType),
		cel.Variable("rule.priority", cel.IntType),
		cel.Variable("rule.feature", cel.StringType),
		cel.Variable("rule.matches", cel.StringType),
		cel.Variable("rule.profile", cel.StringType),
		cel.Variable("rule.source", cel.StringType),
	)
	if err != nil {
		return nil, err
	}

	program, err := env.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("rule filter %q: %w", expression, err)
	}

	return &RuleFilter{program: program}, nil
}

// Match evaluates the filter against one rule at the given priority. An
// evaluation failure or non-boolean result is a non-match.
func (f *RuleFilter) Match(r *rule.Rule, priority int) bool {
	result, _, err := f.program.Eval(map[string]any{
		"rule.id":       r.ID,
		"rule.priority": priority,
		"rule.feature":  r.Pattern.Feature.String(),
		"rule.matches":  r.Pattern.Matches,
		"rule.profile":  r.ProfileName,
		"rule.source":   r.SourceFile,
	})
	if err != nil {
		return false
	}

	boolVal, ok := result.Value().(bool)

	return ok && boolVal
}

// ProfileFilter selects profiles with a CEL expression. The expression has
// access to variables:
//   - `profile.name` (string): The profile name
//   - `profile.source` (string): The profile's source file
//   - `profile.keys` (list<string>): The setting keys in the profile
//
// The expression must return a boolean:
//   - "GLSyncToVblank" in profile.keys
//   - profile.name.startsWith("Fast")
type ProfileFilter struct {
	program cel.Program
}

// NewProfileFilter compiles a profile filter expression.
func NewProfileFilter(expression string) (*ProfileFilter, error) {
	env, err := NewEnvironment(
		cel.Variable("profile.name", cel.StringType),
		cel.Variable("profile.source", cel.StringType),
		cel.Variable("profile.keys", cel.ListType(cel.StringType)),
	)
	if err != nil {
		return nil, err
	}

	program, err := env.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("profile filter %q: %w", expression, err)
	}

	return &ProfileFilter{program: program}, nil
}

// Match evaluates the filter against one profile. An evaluation failure or
// non-boolean result is a non-match.
func (f *ProfileFilter) Match(p *profile.Profile) bool {
	keys := make([]string, len(p.Settings))
	for i, s := range p.Settings {
		keys[i] = s.Key
	}

	result, _, err := f.program.Eval(map[string]any{
		"profile.name":   p.Name,
		"profile.source": p.SourceFile,
		"profile.keys":   keys,
	})
	if err != nil {
		return false
	}

	boolVal, ok := result.Value().(bool)

	return ok && boolVal
}
