package appconfig

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"
)

// FileUpdate is the regenerated text for one configuration file that differs
// from the gold baseline.
type FileUpdate struct {
	Filename string
	NewText  []byte
}

// FileError reports a per-file failure during a multi-file apply. One bad
// write never aborts the batch.
type FileError struct {
	Err  error
	Path string
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// fileStat is the snapshot of a backing file taken at load or save time,
// used to detect external modification.
type fileStat struct {
	modTime time.Time
	size    int64
	exists  bool
}

// Session owns the editable current configuration and the immutable gold
// baseline captured at the last load or successful save. All mutations and
// disk I/O are synchronous and assume exclusive single-writer access; a
// multi-actor host must serialize calls itself.
type Session struct {
	current   *Configuration
	gold      *Configuration
	snapshots map[string]fileStat
}

// NewSession loads the configuration from disk and starts a session in the
// Clean state.
func NewSession(globalFile string, searchPath []string) *Session {
	s := &Session{}
	s.load(globalFile, searchPath, 0)

	return s
}

func (s *Session) load(globalFile string, searchPath []string, seedID int) {
	s.gold = Load(globalFile, searchPath)
	if seedID > 0 {
		s.gold.Rules.Renumber(seedID)
	}
	s.current = s.gold.Clone()
	s.snapshotBackingFiles()
}

// Current returns the editable configuration.
func (s *Session) Current() *Configuration {
	return s.current
}

// Gold returns the last-loaded-from-disk baseline.
func (s *Session) Gold() *Configuration {
	return s.gold
}

// Dirty reports whether the current configuration differs from gold. It is
// recomputed from the diff rather than tracked eagerly.
func (s *Session) Dirty() bool {
	return len(s.Diff()) > 0
}

// Reload discards the current configuration and reparses from disk. Rule
// identifiers already handed out in this session are never reused.
func (s *Session) Reload() {
	s.load(s.current.GlobalFile, s.current.SearchPath, s.current.Rules.NextID())
}

// Diff regenerates the text of every file touched by an entity that differs
// between current and gold, and returns an update per file whose regenerated
// text changed. Files with no changes are omitted, so applying the result
// and reloading yields a configuration structurally equal to current.
func (s *Session) Diff() []FileUpdate {
	var updates []FileUpdate

	if s.current.Enabled != s.gold.Enabled && s.current.GlobalFile != "" {
		text, err := serializeGlobalFile(s.current)
		if err != nil {
			slog.Error("cannot serialize global settings file", slog.Any("error", err))
		} else {
			updates = append(updates, FileUpdate{Filename: s.current.GlobalFile, NewText: text})
		}
	}

	for _, file := range s.diffCandidateFiles() {
		curText, err := serializeFile(s.current, file)
		if err != nil {
			slog.Error("cannot serialize configuration file",
				slog.String("path", file),
				slog.Any("error", err),
			)

			continue
		}

		goldText, err := serializeFile(s.gold, file)
		if err != nil {
			goldText = nil
		}

		if !bytes.Equal(curText, goldText) {
			updates = append(updates, FileUpdate{Filename: file, NewText: curText})
		}
	}

	return updates
}

// diffCandidateFiles returns the union of files referenced by entities in
// either configuration, in search-path order.
func (s *Session) diffCandidateFiles() []string {
	files := s.current.SourceFiles()

	seen := make(map[string]bool, len(files))
	for _, f := range files {
		seen[f] = true
	}

	for _, f := range s.gold.SourceFiles() {
		if !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}

	return files
}

// ApplyUpdates writes each update to disk, optionally copying the original
// file to its backup path first. Individual file failures are collected and
// reported; the batch continues past them. It returns the number of files
// written successfully.
func (s *Session) ApplyUpdates(updates []FileUpdate, backup bool) (int, []FileError) {
	var (
		errs  []FileError
		saved int
	)

	for _, u := range updates {
		if backup {
			err := backupOriginal(u.Filename)
			if err != nil {
				errs = append(errs, FileError{Path: u.Filename, Err: err})

				continue
			}
		}

		err := writeFile(u.Filename, u.NewText)
		if err != nil {
			errs = append(errs, FileError{Path: u.Filename, Err: err})

			continue
		}

		saved++
	}

	return saved, errs
}

func backupOriginal(path string) error {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // Nothing to back up.
	}
	if err != nil {
		return fmt.Errorf("stat original: %w", err)
	}

	err = copyFile(path, BackupFilename(path))
	if err != nil {
		return fmt.Errorf("backup: %w", err)
	}

	return nil
}

// Save computes the diff and applies it. When every file is written
// successfully, current is promoted to the new gold baseline and the session
// becomes Clean; on partial failure gold is left untouched so the failed
// changes remain visible in the next diff.
func (s *Session) Save(backup bool) (int, []FileError) {
	saved, errs := s.ApplyUpdates(s.Diff(), backup)

	if len(errs) == 0 {
		s.gold = s.current.Clone()
		s.snapshotBackingFiles()
	}

	return saved, errs
}

// CheckBackingFiles compares the on-disk state of every backing file against
// the snapshot taken at the last load or save. It reports true when any file
// was modified externally; callers use this to warn before overwrite or
// reload, never to block.
func (s *Session) CheckBackingFiles() bool {
	for path, snap := range s.snapshots {
		info, err := os.Stat(path)

		switch {
		case err != nil:
			if snap.exists {
				return true
			}

		case !snap.exists:
			return true

		case !info.ModTime().Equal(snap.modTime) || info.Size() != snap.size:
			return true
		}
	}

	return false
}

// BackingFiles returns the paths snapshotted at the last load or save, in
// lexical order.
func (s *Session) BackingFiles() []string {
	files := make([]string, 0, len(s.snapshots))
	for path := range s.snapshots {
		files = append(files, path)
	}
	sort.Strings(files)

	return files
}

func (s *Session) snapshotBackingFiles() {
	s.snapshots = make(map[string]fileStat)

	files := expandSearchPath(s.current.SearchPath)
	if s.current.GlobalFile != "" {
		files = append(files, s.current.GlobalFile)
	}
	for _, f := range s.current.SourceFiles() {
		files = append(files, f)
	}

	for _, path := range files {
		if _, ok := s.snapshots[path]; ok {
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			s.snapshots[path] = fileStat{}

			continue
		}

		s.snapshots[path] = fileStat{
			exists:  true,
			modTime: info.ModTime(),
			size:    info.Size(),
		}
	}
}

// RenameProfile renames a profile in the current configuration. With fixup
// enabled, every rule referencing the old name is repointed at the new name;
// the count of rules changed is returned so hosts can notify the user.
func (s *Session) RenameProfile(oldName, newName string, fixup bool) (int, error) {
	err := s.current.Profiles.Rename(oldName, newName)
	if err != nil {
		return 0, err
	}

	if !fixup || oldName == newName {
		return 0, nil
	}

	changed := 0
	for _, r := range s.current.Rules.Referencing(oldName) {
		r.ProfileName = newName
		changed++
	}

	return changed, nil
}
