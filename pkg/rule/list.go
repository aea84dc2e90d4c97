package rule

import (
	"fmt"
)

// List is the priority-ordered rule collection. Index zero is the highest
// priority. Rules from the same file stay in file order; across files, order
// follows search-path precedence, which the loader establishes by appending
// files in search-path order.
type List struct {
	rules  []*Rule
	nextID int
}

// NewList creates an empty rule list.
func NewList() *List {
	return &List{}
}

// Len returns the number of rules.
func (l *List) Len() int {
	return len(l.rules)
}

// All returns the rules in priority order. The slice is shared; callers must
// not reorder it.
func (l *List) All() []*Rule {
	return l.rules
}

// Get returns the rule with the given id.
func (l *List) Get(id int) (*Rule, bool) {
	for _, r := range l.rules {
		if r.ID == id {
			return r, true
		}
	}

	return nil, false
}

// Priority returns the zero-based position of the rule with the given id.
func (l *List) Priority(id int) (int, bool) {
	for i, r := range l.rules {
		if r.ID == id {
			return i, true
		}
	}

	return 0, false
}

// Create appends a rule at the lowest priority (end of list) and assigns the
// next unused id, which is returned.
func (l *List) Create(sourceFile string, pat Pattern, profileName string) int {
	id := l.nextID
	l.nextID++

	l.rules = append(l.rules, &Rule{
		ID:          id,
		SourceFile:  sourceFile,
		Pattern:     pat,
		ProfileName: profileName,
	})

	return id
}

// Update replaces the pattern, profile name, and source file of an existing
// rule. Priority is unchanged.
func (l *List) Update(id int, sourceFile string, pat Pattern, profileName string) error {
	r, ok := l.Get(id)
	if !ok {
		return fmt.Errorf("rule %d: not found", id)
	}

	r.SourceFile = sourceFile
	r.Pattern = pat
	r.ProfileName = profileName

	return nil
}

// Delete removes the rule with the given id. Other ids are not renumbered;
// priorities shift implicitly as the list compacts.
func (l *List) Delete(id int) bool {
	for i, r := range l.rules {
		if r.ID == id {
			l.rules = append(l.rules[:i], l.rules[i+1:]...)

			return true
		}
	}

	return false
}

// ChangePriority moves the rule delta positions toward the lower priority
// number; a negative delta moves the rule earlier (higher priority). The
// destination is clamped at the list boundaries. When the destination falls
// inside a block governed by a different source file, the rule adopts the
// file of the rule it displaced, so cross-file moves keep search-path
// precedence honest. This is the one non-local side effect callers must
// expect. It reports whether the list changed.
func (l *List) ChangePriority(id, delta int) bool {
	from, ok := l.Priority(id)
	if !ok || delta == 0 {
		return false
	}

	to := from + delta
	if to < 0 {
		to = 0
	}
	if to > len(l.rules)-1 {
		to = len(l.rules) - 1
	}
	if to == from {
		return false
	}

	r := l.rules[from]
	governingFile := l.rules[to].SourceFile

	if to < from {
		copy(l.rules[to+1:from+1], l.rules[to:from])
	} else {
		copy(l.rules[from:to], l.rules[from+1:to+1])
	}
	l.rules[to] = r

	// Within a same-file block the governing file is the rule's own file, so
	// this only rewrites SourceFile on a genuine cross-file move.
	r.SourceFile = governingFile

	return true
}

// NextID returns the identifier that the next Create call will assign.
func (l *List) NextID() int {
	return l.nextID
}

// SeedID raises the next-id counter to at least n. Sessions use this when
// reloading so identifiers are never reused for their lifetime.
func (l *List) SeedID(n int) {
	if n > l.nextID {
		l.nextID = n
	}
}

// Renumber reassigns identifiers sequentially from start, in priority order.
// Sessions call this after a reparse so identifiers handed out before the
// reparse are never attached to different rules.
func (l *List) Renumber(start int) {
	for i, r := range l.rules {
		r.ID = start + i
	}

	l.nextID = start + len(l.rules)
}

// PathFor returns the source file of the first rule referencing the given
// profile name.
func (l *List) PathFor(profileName string) (string, bool) {
	for _, r := range l.rules {
		if r.ProfileName == profileName {
			return r.SourceFile, true
		}
	}

	return "", false
}

// ForFile returns the rules backed by the given source file, in priority
// order.
func (l *List) ForFile(sourceFile string) []*Rule {
	var out []*Rule
	for _, r := range l.rules {
		if r.SourceFile == sourceFile {
			out = append(out, r)
		}
	}

	return out
}

// Referencing returns the rules whose profile name equals name.
func (l *List) Referencing(name string) []*Rule {
	var out []*Rule
	for _, r := range l.rules {
		if r.ProfileName == name {
			out = append(out, r)
		}
	}

	return out
}

// Clone returns a deep copy of the list, preserving ids and the next-id
// counter so clones never reuse identifiers.
func (l *List) Clone() *List {
	c := &List{
		rules:  make([]*Rule, len(l.rules)),
		nextID: l.nextID,
	}
	for i, r := range l.rules {
		c.rules[i] = r.Clone()
	}

	return c
}

// Equal reports structural equality of two lists, order included.
func (l *List) Equal(o *List) bool {
	if len(l.rules) != len(o.rules) {
		return false
	}

	for i, r := range l.rules {
		if !r.Equal(o.rules[i]) {
			return false
		}
	}

	return true
}
