package appconfig

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

const (
	systemProfilesFile = "/etc/nvidia/nvidia-application-profiles-rc"
	systemProfilesDir  = "/etc/nvidia/nvidia-application-profiles-rc.d"

	userProfilesFile = ".nv/nvidia-application-profiles-rc"
	userProfilesDir  = ".nv/nvidia-application-profiles-rc.d"
	userGlobalsFile  = ".nv/nvidia-application-profile-globals-rc"

	backupSuffix = ".backup"
)

// DefaultSearchPath builds the default precedence list of configuration
// locations: user files first (when a home directory is available), then the
// system-wide files. Earlier entries take priority.
func DefaultSearchPath(home string) []string {
	var paths []string

	if home != "" {
		paths = append(paths,
			filepath.Join(home, userProfilesFile),
			filepath.Join(home, userProfilesDir),
		)
	} else {
		slog.Warn("no home directory available, using system-wide configuration files only")
	}

	return append(paths, systemProfilesFile, systemProfilesDir)
}

// DefaultGlobalFile returns the per-user global settings file, or empty when
// no home directory is available. Without it, changes to global settings
// cannot be persisted.
func DefaultGlobalFile(home string) string {
	if home == "" {
		slog.Warn("no home directory available, global application profile settings will not be saved")

		return ""
	}

	return filepath.Join(home, userGlobalsFile)
}

// DefaultUserFile returns the per-user configuration file, the default
// destination for new rules and profiles. Empty when no home directory is
// available.
func DefaultUserFile(home string) string {
	if home == "" {
		return ""
	}

	return filepath.Join(home, userProfilesFile)
}

// UserHome resolves the home directory from the environment. Absence is not
// an error; callers degrade to system-wide files.
func UserHome() string {
	return os.Getenv("HOME")
}

// BackupFilename derives the backup path for a configuration file. The
// suffix keeps the backup off the search path, so it is never parsed as
// live configuration.
func BackupFilename(original string) string {
	return original + backupSuffix
}

// expandSearchPath resolves the search path into the ordered list of regular
// files to parse. Directory entries contribute their files in lexical order;
// missing entries are skipped.
func expandSearchPath(searchPath []string) []string {
	var files []string

	for _, entry := range searchPath {
		info, err := os.Stat(entry)
		if err != nil {
			slog.Debug("skipping absent search path entry",
				slog.String("path", entry),
			)

			continue
		}

		if !info.IsDir() {
			files = append(files, entry)

			continue
		}

		entries, err := os.ReadDir(entry)
		if err != nil {
			slog.Warn("cannot read configuration directory",
				slog.String("path", entry),
				slog.Any("error", err),
			)

			continue
		}

		var names []string
		for _, de := range entries {
			if de.Type().IsRegular() {
				names = append(names, de.Name())
			}
		}
		sort.Strings(names)

		for _, name := range names {
			files = append(files, filepath.Join(entry, name))
		}
	}

	return files
}
