package profile

import (
	"fmt"
	"sort"
)

// Table is the ordered-by-name collection of profiles. Iteration order is
// ascending by name, which keeps regenerated files stable across edits.
type Table struct {
	byName   map[string]*Profile
	profiles []*Profile
}

// NewTable creates an empty profile table.
func NewTable() *Table {
	return &Table{
		byName: make(map[string]*Profile),
	}
}

// Len returns the number of profiles in the table.
func (t *Table) Len() int {
	return len(t.profiles)
}

// Get returns the profile with the given name. The second return is false
// when no such profile exists.
func (t *Table) Get(name string) (*Profile, bool) {
	p, ok := t.byName[name]

	return p, ok
}

// Upsert inserts a profile, overwriting any existing profile with the same
// name. It reports whether an existing profile was replaced.
func (t *Table) Upsert(p *Profile) bool {
	if existing, ok := t.byName[p.Name]; ok {
		*existing = *p

		return true
	}

	t.byName[p.Name] = p

	i := sort.Search(len(t.profiles), func(i int) bool {
		return t.profiles[i].Name >= p.Name
	})
	t.profiles = append(t.profiles, nil)
	copy(t.profiles[i+1:], t.profiles[i:])
	t.profiles[i] = p

	return false
}

// Delete removes the named profile. Rules referencing it are left alone;
// the dangling reference is reported by validation, not here.
func (t *Table) Delete(name string) bool {
	if _, ok := t.byName[name]; !ok {
		return false
	}

	delete(t.byName, name)

	for i, p := range t.profiles {
		if p.Name == name {
			t.profiles = append(t.profiles[:i], t.profiles[i+1:]...)

			break
		}
	}

	return true
}

// Rename changes a profile's name in place, preserving its settings and
// source file. It fails if the old name is absent or the new name is taken
// by a different profile.
func (t *Table) Rename(oldName, newName string) error {
	p, ok := t.byName[oldName]
	if !ok {
		return fmt.Errorf("profile %q: not found", oldName)
	}

	if oldName == newName {
		return nil
	}

	if _, taken := t.byName[newName]; taken {
		return fmt.Errorf("profile %q: name already in use", newName)
	}

	t.Delete(oldName)
	p.Name = newName
	t.Upsert(p)

	return nil
}

// All returns the profiles in name order. The slice is shared; callers must
// not reorder it.
func (t *Table) All() []*Profile {
	return t.profiles
}

// ForFile returns the profiles backed by the given source file, in name order.
func (t *Table) ForFile(sourceFile string) []*Profile {
	var out []*Profile
	for _, p := range t.profiles {
		if p.SourceFile == sourceFile {
			out = append(out, p)
		}
	}

	return out
}

// UnusedName generates a profile name guaranteed not to collide with any
// profile currently in the table, using an incrementing numeric suffix.
func (t *Table) UnusedName() string {
	for i := 0; ; i++ {
		name := fmt.Sprintf("profile_%d", i)
		if _, ok := t.byName[name]; !ok {
			return name
		}
	}
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := NewTable()
	for _, p := range t.profiles {
		c.Upsert(p.Clone())
	}

	return c
}

// Equal reports structural equality of two tables.
func (t *Table) Equal(o *Table) bool {
	if len(t.profiles) != len(o.profiles) {
		return false
	}

	for i, p := range t.profiles {
		if !p.Equal(o.profiles[i]) {
			return false
		}
	}

	return true
}
