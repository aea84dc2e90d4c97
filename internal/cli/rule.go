package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/glxtools/appconf/pkg/appconfig"
	"github.com/glxtools/appconf/pkg/rule"
)

var errNoUserFile = errors.New("no home directory available, pass --file to choose a destination")

func NewRuleCmd(rootArgs *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Add, remove, reorder, or edit rules",
	}

	cmd.AddCommand(
		newRuleAddCmd(rootArgs),
		newRuleRmCmd(rootArgs),
		newRuleMvCmd(rootArgs),
		newRuleSetCmd(rootArgs),
	)

	return cmd
}

// RuleArgs are the pattern and destination flags shared by rule add and
// rule set.
type RuleArgs struct {
	Feature string
	Matches string
	Profile string
	File    string
}

func (ra *RuleArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ra.Feature, "feature", "",
		fmt.Sprintf("Pattern feature, one of: %s", rule.Features()))
	cmd.Flags().StringVar(&ra.Matches, "matches", "", "Pattern match string")
	cmd.Flags().StringVar(&ra.Profile, "profile", "", "Name of the profile the rule applies")
	cmd.Flags().StringVar(&ra.File, "file", "", "Configuration file the rule is stored in")

	err := cmd.RegisterFlagCompletionFunc("feature",
		cobra.FixedCompletions(rule.Features(), cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func newRuleAddCmd(rootArgs *RootArgs) *cobra.Command {
	ra := &RuleArgs{}
	ca := &CommitArgs{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a rule at the lowest priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, cfg, err := newSession(rootArgs)
			if err != nil {
				return err
			}

			feature := rule.FeatureProcname
			if ra.Feature != "" {
				feature, err = rule.ParseFeature(ra.Feature)
				if err != nil {
					return err //nolint:wrapcheck // Feature errors already name the input.
				}
			}

			file := ra.File
			if file == "" {
				file = appconfig.DefaultUserFile(appconfig.UserHome())
				if file == "" {
					return errNoUserFile
				}
			}

			current := session.Current()
			pat := rule.Pattern{Feature: feature, Matches: ra.Matches}

			res := current.ValidateRule(&rule.Rule{
				SourceFile:  file,
				ProfileName: ra.Profile,
				Pattern:     pat,
			})
			if err := reportValidation(res, "rule"); err != nil {
				return err
			}

			id := current.Rules.Create(file, pat, ra.Profile)
			slog.Debug("created rule", slog.Int("id", id))

			return commit(cmd, session, cfg, ca)
		},
	}

	ra.AddFlags(cmd)
	ca.AddFlags(cmd)

	err := cmd.MarkFlagRequired("matches")
	if err != nil {
		panic(err)
	}

	err = cmd.MarkFlagRequired("profile")
	if err != nil {
		panic(err)
	}

	return cmd
}

func newRuleRmCmd(rootArgs *RootArgs) *cobra.Command {
	ca := &CommitArgs{}

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a rule by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRuleID(args[0])
			if err != nil {
				return err
			}

			session, cfg, err := newSession(rootArgs)
			if err != nil {
				return err
			}

			if !session.Current().Rules.Delete(id) {
				return fmt.Errorf("no rule with ID %d", id)
			}

			return commit(cmd, session, cfg, ca)
		},
	}

	ca.AddFlags(cmd)

	return cmd
}

func newRuleMvCmd(rootArgs *RootArgs) *cobra.Command {
	ca := &CommitArgs{}

	cmd := &cobra.Command{
		Use:   "mv <id> <delta>",
		Short: "Shift a rule's priority by a signed offset",
		Long: `Shift a rule's priority by a signed offset. Negative offsets raise the
priority (toward the front of the list), positive offsets lower it. Offsets
past either end stop at the boundary. A rule moved into a run of rules from a
different configuration file migrates into that file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRuleID(args[0])
			if err != nil {
				return err
			}

			delta, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid priority offset %q", args[1])
			}

			session, cfg, err := newSession(rootArgs)
			if err != nil {
				return err
			}

			if !session.Current().Rules.ChangePriority(id, delta) {
				return fmt.Errorf("no rule with ID %d", id)
			}

			return commit(cmd, session, cfg, ca)
		},
	}

	ca.AddFlags(cmd)

	return cmd
}

func newRuleSetCmd(rootArgs *RootArgs) *cobra.Command {
	ra := &RuleArgs{}
	ca := &CommitArgs{}

	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Edit an existing rule in place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRuleID(args[0])
			if err != nil {
				return err
			}

			session, cfg, err := newSession(rootArgs)
			if err != nil {
				return err
			}

			current := session.Current()

			r, ok := current.Rules.Get(id)
			if !ok {
				return fmt.Errorf("no rule with ID %d", id)
			}

			next := r.Clone()
			if cmd.Flags().Changed("feature") {
				next.Pattern.Feature, err = rule.ParseFeature(ra.Feature)
				if err != nil {
					return err //nolint:wrapcheck // Feature errors already name the input.
				}
			}

			if cmd.Flags().Changed("matches") {
				next.Pattern.Matches = ra.Matches
			}

			if cmd.Flags().Changed("profile") {
				next.ProfileName = ra.Profile
			}

			if cmd.Flags().Changed("file") {
				next.SourceFile = ra.File
			}

			res := current.ValidateRule(next)
			if err := reportValidation(res, "rule"); err != nil {
				return err
			}

			err = current.Rules.Update(id, next.SourceFile, next.Pattern, next.ProfileName)
			if err != nil {
				return err //nolint:wrapcheck // Update errors already name the rule.
			}

			return commit(cmd, session, cfg, ca)
		},
	}

	ra.AddFlags(cmd)
	ca.AddFlags(cmd)

	return cmd
}

func parseRuleID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid rule ID %q", s)
	}

	return id, nil
}

// reportValidation surfaces a validation result: fatal problems abort the
// edit, nonfatal ones are logged and the edit proceeds.
func reportValidation(res appconfig.Result, kind string) error {
	for _, msg := range res.Nonfatal {
		slog.Warn("validation",
			slog.String("kind", kind),
			slog.String("problem", msg),
		)
	}

	if len(res.Fatal) > 0 {
		return fmt.Errorf("invalid %s: %s", kind, res.Fatal[0])
	}

	return nil
}
