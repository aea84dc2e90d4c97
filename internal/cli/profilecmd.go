package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glxtools/appconf/pkg/appconfig"
	"github.com/glxtools/appconf/pkg/profile"
	"github.com/glxtools/appconf/pkg/value"
)

func NewProfileCmd(rootArgs *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Create, edit, remove, or rename profiles",
	}

	cmd.AddCommand(
		newProfileSetCmd(rootArgs),
		newProfileRmCmd(rootArgs),
		newProfileRenameCmd(rootArgs),
	)

	return cmd
}

type ProfileSetArgs struct {
	File     string
	Settings []string
}

func newProfileSetCmd(rootArgs *RootArgs) *cobra.Command {
	pa := &ProfileSetArgs{}
	ca := &CommitArgs{}

	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Create a profile, or replace an existing one's settings",
		Long: `Create a profile, or replace an existing one's settings. Setting values
are JSON literals; hexadecimal integers like 0x10 are also accepted. A value
that cannot be parsed is stored as false so the edit can proceed, and a
warning names the rejected text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, cfg, err := newSession(rootArgs)
			if err != nil {
				return err
			}

			file := pa.File
			if file == "" {
				file = appconfig.DefaultUserFile(appconfig.UserHome())
				if file == "" {
					return errNoUserFile
				}
			}

			settings, err := parseSettings(pa.Settings)
			if err != nil {
				return err
			}

			current := session.Current()
			p := profile.New(args[0], file, settings...)

			res := current.ValidateProfile(p)
			if err := reportValidation(res, "profile"); err != nil {
				return err
			}

			current.Profiles.Upsert(p)

			return commit(cmd, session, cfg, ca)
		},
	}

	cmd.Flags().StringVar(&pa.File, "file", "", "Configuration file the profile is stored in")
	cmd.Flags().StringArrayVar(&pa.Settings, "setting", nil,
		"Setting as key=value, repeatable; values are JSON literals or 0x-prefixed integers")
	ca.AddFlags(cmd)

	err := cmd.RegisterFlagCompletionFunc("setting",
		cobra.FixedCompletions(profile.SettingKeys(), cobra.ShellCompDirectiveNoSpace),
	)
	if err != nil {
		panic(err)
	}

	return cmd
}

func newProfileRmCmd(rootArgs *RootArgs) *cobra.Command {
	ca := &CommitArgs{}

	cmd := &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a profile by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, cfg, err := newSession(rootArgs)
			if err != nil {
				return err
			}

			current := session.Current()

			if refs := current.Rules.Referencing(args[0]); len(refs) > 0 {
				slog.Warn("rules still reference the deleted profile",
					slog.String("profile", args[0]),
					slog.Int("rules", len(refs)),
				)
			}

			if !current.Profiles.Delete(args[0]) {
				return fmt.Errorf("no profile named %q", args[0])
			}

			return commit(cmd, session, cfg, ca)
		},
	}

	ca.AddFlags(cmd)

	return cmd
}

func newProfileRenameCmd(rootArgs *RootArgs) *cobra.Command {
	ca := &CommitArgs{}

	var noFixup bool

	cmd := &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a profile and repoint the rules that reference it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, cfg, err := newSession(rootArgs)
			if err != nil {
				return err
			}

			changed, err := session.RenameProfile(args[0], args[1], !noFixup)
			if err != nil {
				return err //nolint:wrapcheck // Rename errors already name both profiles.
			}

			if changed > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "repointed %d rule(s) at %q\n", changed, args[1])
			}

			return commit(cmd, session, cfg, ca)
		},
	}

	cmd.Flags().BoolVar(&noFixup, "no-fixup", false,
		"Leave referencing rules pointing at the old name")
	ca.AddFlags(cmd)

	return cmd
}

var errMalformedSetting = errors.New("settings must be of the form key=value")

// parseSettings turns repeated key=value flags into settings. Keys are
// folded to their canonical spelling when recognized; unrecognized keys are
// kept as given and flagged later by validation. Unparseable values become
// false placeholders.
func parseSettings(pairs []string) ([]profile.Setting, error) {
	settings := make([]profile.Setting, 0, len(pairs))

	for _, pair := range pairs {
		key, text, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", errMalformedSetting, pair)
		}

		if canonical, ok := profile.CanonicalKey(key); ok {
			key = canonical
		}

		v, err := value.Parse(text)
		if err != nil {
			slog.Warn("setting value not understood, storing false",
				slog.String("key", key),
				slog.String("value", text),
				slog.Any("error", err),
			)

			v = value.False()
		}

		settings = append(settings, profile.Setting{Key: key, Value: v})
	}

	return settings, nil
}
