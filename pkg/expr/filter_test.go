package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glxtools/appconf/pkg/expr"
	"github.com/glxtools/appconf/pkg/profile"
	"github.com/glxtools/appconf/pkg/rule"
	"github.com/glxtools/appconf/pkg/value"
)

func TestRuleFilter(t *testing.T) {
	t.Parallel()

	r := &rule.Rule{
		ID:          3,
		SourceFile:  "/home/u/.nv/rc",
		ProfileName: "Fast",
		Pattern: rule.Pattern{
			Feature: rule.FeatureProcname,
			Matches: "glxgears",
		},
	}

	tcs := map[string]struct {
		expression string
		want       bool
	}{
		"match on feature": {
			expression: `rule.feature == "procname"`,
			want:       true,
		},
		"match on contains": {
			expression: `rule.matches.contains("glx")`,
			want:       true,
		},
		"match on priority": {
			expression: `rule.priority < 3`,
			want:       true,
		},
		"match on id": {
			expression: `rule.id == 3`,
			want:       true,
		},
		"no match": {
			expression: `rule.profile == "Quality"`,
			want:       false,
		},
		"non-boolean result": {
			expression: `rule.source`,
			want:       false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f, err := expr.NewRuleFilter(tc.expression)
			require.NoError(t, err)

			assert.Equal(t, tc.want, f.Match(r, 0))
		})
	}
}

func TestRuleFilter_CompileError(t *testing.T) {
	t.Parallel()

	_, err := expr.NewRuleFilter(`rule.feature ==`)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule filter")
}

func TestProfileFilter(t *testing.T) {
	t.Parallel()

	p := profile.New("Fast", "/etc/rc",
		profile.Setting{Key: "GLSyncToVblank", Value: value.Boolean(false)},
		profile.Setting{Key: "GLFSAAMode", Value: value.Integer(5)},
	)

	tcs := map[string]struct {
		expression string
		want       bool
	}{
		"match on key membership": {
			expression: `"GLSyncToVblank" in profile.keys`,
			want:       true,
		},
		"match on name prefix": {
			expression: `profile.name.startsWith("Fa")`,
			want:       true,
		},
		"no match": {
			expression: `"GLDoom3" in profile.keys`,
			want:       false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f, err := expr.NewProfileFilter(tc.expression)
			require.NoError(t, err)

			assert.Equal(t, tc.want, f.Match(p))
		})
	}
}
