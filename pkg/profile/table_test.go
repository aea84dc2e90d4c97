package profile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glxtools/appconf/pkg/profile"
	"github.com/glxtools/appconf/pkg/value"
)

func names(t *profile.Table) []string {
	out := make([]string, 0, t.Len())
	for _, p := range t.All() {
		out = append(out, p.Name)
	}

	return out
}

func TestTable_Upsert(t *testing.T) {
	t.Parallel()

	tbl := profile.NewTable()

	assert.False(t, tbl.Upsert(profile.New("Quality", "/etc/rc")))
	assert.False(t, tbl.Upsert(profile.New("Fast", "/etc/rc")))
	assert.False(t, tbl.Upsert(profile.New("Medium", "/etc/rc")))

	// Iteration is ascending by name regardless of insertion order.
	assert.Equal(t, []string{"Fast", "Medium", "Quality"}, names(tbl))

	// Upserting an existing name replaces the definition in place.
	replaced := tbl.Upsert(profile.New("Fast", "/home/u/rc",
		profile.Setting{Key: "GLSyncToVblank", Value: value.Boolean(false)},
	))

	assert.True(t, replaced)
	assert.Equal(t, 3, tbl.Len())

	p, ok := tbl.Get("Fast")
	require.True(t, ok)
	assert.Equal(t, "/home/u/rc", p.SourceFile)
	assert.Len(t, p.Settings, 1)
}

func TestTable_Delete(t *testing.T) {
	t.Parallel()

	tbl := profile.NewTable()
	tbl.Upsert(profile.New("A", "/etc/rc"))
	tbl.Upsert(profile.New("B", "/etc/rc"))

	assert.True(t, tbl.Delete("A"))
	assert.False(t, tbl.Delete("A"))
	assert.Equal(t, []string{"B"}, names(tbl))
}

func TestTable_Rename(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		oldName   string
		newName   string
		wantErr   string
		wantNames []string
	}{
		"renames and reorders": {
			oldName:   "A",
			newName:   "Z",
			wantNames: []string{"B", "Z"},
		},
		"same name is a no-op": {
			oldName:   "A",
			newName:   "A",
			wantNames: []string{"A", "B"},
		},
		"missing profile": {
			oldName:   "X",
			newName:   "Y",
			wantErr:   "not found",
			wantNames: []string{"A", "B"},
		},
		"name collision": {
			oldName:   "A",
			newName:   "B",
			wantErr:   "already in use",
			wantNames: []string{"A", "B"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tbl := profile.NewTable()
			tbl.Upsert(profile.New("A", "/etc/rc",
				profile.Setting{Key: "GLDoom3", Value: value.Boolean(true)},
			))
			tbl.Upsert(profile.New("B", "/etc/rc"))

			err := tbl.Rename(tc.oldName, tc.newName)

			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)

				p, ok := tbl.Get(tc.newName)
				require.True(t, ok)
				assert.Len(t, p.Settings, 1)
			}

			assert.Equal(t, tc.wantNames, names(tbl))
		})
	}
}

func TestTable_UnusedName(t *testing.T) {
	t.Parallel()

	tbl := profile.NewTable()

	assert.Equal(t, "profile_0", tbl.UnusedName())

	tbl.Upsert(profile.New("profile_0", "/etc/rc"))
	tbl.Upsert(profile.New("profile_1", "/etc/rc"))

	assert.Equal(t, "profile_2", tbl.UnusedName())
}

func TestTable_Clone(t *testing.T) {
	t.Parallel()

	tbl := profile.NewTable()
	tbl.Upsert(profile.New("A", "/etc/rc",
		profile.Setting{Key: "GLFSAAMode", Value: value.Integer(5)},
	))

	c := tbl.Clone()
	require.True(t, tbl.Equal(c))

	// Deep copy: editing a cloned profile's settings leaves the original.
	p, ok := c.Get("A")
	require.True(t, ok)
	p.Settings[0].Value = value.Integer(7)

	orig, ok := tbl.Get("A")
	require.True(t, ok)
	assert.True(t, value.Integer(5).Equal(orig.Settings[0].Value))
	assert.False(t, tbl.Equal(c))
}

func TestCanonicalKey(t *testing.T) {
	t.Parallel()

	got, ok := profile.CanonicalKey("glsynctovblank")
	require.True(t, ok)
	assert.Equal(t, "GLSyncToVblank", got)

	_, ok = profile.CanonicalKey("NotAKey")
	assert.False(t, ok)

	assert.Len(t, profile.SettingKeys(), 15)
}

func TestProfile_HasUnrecognizedKeys(t *testing.T) {
	t.Parallel()

	p := profile.New("A", "/etc/rc",
		profile.Setting{Key: "GLYield", Value: value.String("NOTHING")},
	)
	assert.False(t, p.HasUnrecognizedKeys())

	p.Settings = append(p.Settings, profile.Setting{Key: "Bogus", Value: value.False()})
	assert.True(t, p.HasUnrecognizedKeys())
}
