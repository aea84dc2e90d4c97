package rule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glxtools/appconf/pkg/rule"
)

func newTestList(files ...string) *rule.List {
	l := rule.NewList()
	for i, f := range files {
		l.Create(f, rule.Pattern{Feature: rule.FeatureProcname, Matches: string(rune('a' + i))}, "p")
	}

	return l
}

func ids(l *rule.List) []int {
	out := make([]int, 0, l.Len())
	for _, r := range l.All() {
		out = append(out, r.ID)
	}

	return out
}

func TestList_Create(t *testing.T) {
	t.Parallel()

	l := rule.NewList()

	id0 := l.Create("/etc/a", rule.Pattern{Matches: "glxgears"}, "Fast")
	id1 := l.Create("/etc/a", rule.Pattern{Matches: "doom3"}, "Quality")

	assert.Equal(t, 0, id0)
	assert.Equal(t, 1, id1)
	assert.Equal(t, 2, l.Len())

	r, ok := l.Get(id1)
	require.True(t, ok)
	assert.Equal(t, "Quality", r.ProfileName)

	pri, ok := l.Priority(id1)
	require.True(t, ok)
	assert.Equal(t, 1, pri)
}

func TestList_Delete(t *testing.T) {
	t.Parallel()

	l := newTestList("/etc/a", "/etc/a", "/etc/a")

	require.True(t, l.Delete(1))
	assert.False(t, l.Delete(1))

	// Remaining ids keep their values; only positions shift.
	assert.Equal(t, []int{0, 2}, ids(l))

	// Deleted ids are never handed out again.
	assert.Equal(t, 3, l.Create("/etc/a", rule.Pattern{}, "p"))
}

func TestList_ChangePriority(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		id      int
		delta   int
		wantIDs []int
		want    bool
	}{
		"lower by one": {
			id:      1,
			delta:   1,
			want:    true,
			wantIDs: []int{0, 2, 1},
		},
		"raise by one": {
			id:      2,
			delta:   -1,
			want:    true,
			wantIDs: []int{0, 2, 1},
		},
		"clamp past the front": {
			id:      2,
			delta:   -10,
			want:    true,
			wantIDs: []int{2, 0, 1},
		},
		"clamp past the back": {
			id:      0,
			delta:   10,
			want:    true,
			wantIDs: []int{1, 2, 0},
		},
		"zero delta": {
			id:      1,
			delta:   0,
			want:    false,
			wantIDs: []int{0, 1, 2},
		},
		"unknown id": {
			id:      9,
			delta:   1,
			want:    false,
			wantIDs: []int{0, 1, 2},
		},
		"clamped to same position": {
			id:      0,
			delta:   -5,
			want:    false,
			wantIDs: []int{0, 1, 2},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			l := newTestList("/etc/a", "/etc/a", "/etc/a")

			assert.Equal(t, tc.want, l.ChangePriority(tc.id, tc.delta))
			assert.Equal(t, tc.wantIDs, ids(l))
		})
	}
}

func TestList_ChangePriority_Inverse(t *testing.T) {
	t.Parallel()

	// An interior move followed by its inverse restores the original order.
	l := newTestList("/etc/a", "/etc/a", "/etc/a", "/etc/a")
	before := l.Clone()

	require.True(t, l.ChangePriority(1, 2))
	require.True(t, l.ChangePriority(1, -2))

	assert.True(t, l.Equal(before))
}

func TestList_ChangePriority_AdoptsGoverningFile(t *testing.T) {
	t.Parallel()

	l := newTestList("/home/u/rc", "/home/u/rc", "/etc/rc")

	// Moving the last user-file rule into the system-file block migrates it.
	require.True(t, l.ChangePriority(1, 1))

	r, ok := l.Get(1)
	require.True(t, ok)
	assert.Equal(t, "/etc/rc", r.SourceFile)

	// A move within a same-file block leaves the source file alone.
	sameFile := newTestList("/etc/rc", "/etc/rc")
	require.True(t, sameFile.ChangePriority(1, -1))

	r, ok = sameFile.Get(1)
	require.True(t, ok)
	assert.Equal(t, "/etc/rc", r.SourceFile)
}

func TestList_SeedID(t *testing.T) {
	t.Parallel()

	l := rule.NewList()
	l.Create("/etc/a", rule.Pattern{}, "p")

	l.SeedID(10)
	assert.Equal(t, 10, l.Create("/etc/a", rule.Pattern{}, "p"))

	// Seeding backwards is a no-op.
	l.SeedID(3)
	assert.Equal(t, 11, l.NextID())
}

func TestList_Clone(t *testing.T) {
	t.Parallel()

	l := newTestList("/etc/a", "/etc/b")
	c := l.Clone()

	require.True(t, l.Equal(c))

	// Mutating the clone leaves the original untouched, including the
	// next-id counter.
	c.All()[0].ProfileName = "other"
	c.Create("/etc/b", rule.Pattern{}, "p")

	assert.False(t, l.Equal(c))
	assert.Equal(t, "p", l.All()[0].ProfileName)
	assert.Equal(t, 2, l.NextID())
	assert.Equal(t, 3, c.NextID())
}

func TestParseFeature(t *testing.T) {
	t.Parallel()

	for _, id := range rule.Features() {
		f, err := rule.ParseFeature(id)

		require.NoError(t, err)
		assert.Equal(t, id, f.String())
	}

	_, err := rule.ParseFeature("pid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"pid"`)
}

func TestList_Referencing(t *testing.T) {
	t.Parallel()

	l := rule.NewList()
	l.Create("/etc/a", rule.Pattern{}, "Fast")
	l.Create("/etc/a", rule.Pattern{}, "Slow")
	l.Create("/etc/b", rule.Pattern{}, "Fast")

	assert.Len(t, l.Referencing("Fast"), 2)
	assert.Empty(t, l.Referencing("missing"))

	path, ok := l.PathFor("Slow")
	require.True(t, ok)
	assert.Equal(t, "/etc/a", path)
}
