package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aymanbagabas/go-udiff"
	"github.com/spf13/cobra"

	"github.com/glxtools/appconf/pkg/appconfig"
	"github.com/glxtools/appconf/pkg/config"
)

var errBackingFilesChanged = errors.New(
	"configuration files changed on disk since they were loaded, re-run with --force to overwrite")

// CommitArgs are the flags shared by every command that edits the
// configuration and writes it back.
type CommitArgs struct {
	DryRun   bool
	Force    bool
	NoBackup bool
}

func (ca *CommitArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&ca.DryRun, "dry-run", false,
		"Print the resulting file edits as unified diffs instead of writing them")
	cmd.Flags().BoolVar(&ca.Force, "force", false,
		"Write even when the files changed on disk since they were loaded")
	cmd.Flags().BoolVar(&ca.NoBackup, "no-backup", false,
		"Skip writing .backup copies of the edited files")
}

// commit writes the session's pending edits to disk, or prints them as
// diffs under --dry-run. Per-file failures are reported individually and do
// not abort the remaining files.
func commit(cmd *cobra.Command, session *appconfig.Session, cfg *config.Config, ca *CommitArgs) error {
	updates := session.Diff()
	if len(updates) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no changes")

		return nil
	}

	if ca.DryRun {
		return printDiffs(cmd, updates)
	}

	if session.CheckBackingFiles() && !ca.Force {
		return errBackingFilesChanged
	}

	backup := !ca.NoBackup
	if cfg.Save.Backup != nil {
		backup = backup && *cfg.Save.Backup
	}

	written, fileErrs := session.Save(backup)
	for _, fe := range fileErrs {
		slog.Error("write configuration file",
			slog.String("path", fe.Path),
			slog.Any("error", fe.Err),
		)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d file(s)\n", written)

	if len(fileErrs) > 0 {
		return fmt.Errorf("%d of %d file(s) could not be written", len(fileErrs), len(updates))
	}

	return nil
}

func printDiffs(cmd *cobra.Command, updates []appconfig.FileUpdate) error {
	for _, u := range updates {
		oldText, err := os.ReadFile(u.Filename)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read %s: %w", u.Filename, err)
		}

		fmt.Fprint(cmd.OutOrStdout(),
			udiff.Unified(u.Filename, u.Filename+" (pending)", string(oldText), string(u.NewText)))
	}

	return nil
}
