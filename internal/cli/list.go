package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glxtools/appconf/pkg/appconfig"
	"github.com/glxtools/appconf/pkg/expr"
	"github.com/glxtools/appconf/pkg/profile"
)

type ListArgs struct {
	*RootArgs

	Filter string
}

func NewListCmd(rootArgs *RootArgs) *cobra.Command {
	la := &ListArgs{RootArgs: rootArgs}

	cmd := &cobra.Command{
		Use:       "list {rules|profiles}",
		Short:     "List the rules or profiles on the search path",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"rules", "profiles"},
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := newSession(la.RootArgs)
			if err != nil {
				return err
			}

			if args[0] == "rules" {
				return listRules(cmd, session, la.Filter)
			}

			return listProfiles(cmd, session, la.Filter)
		},
	}

	cmd.Flags().StringVar(&la.Filter, "filter", "", "CEL expression selecting entries to list")

	return cmd
}

func listRules(cmd *cobra.Command, session *appconfig.Session, filter string) error {
	var ruleFilter *expr.RuleFilter

	if filter != "" {
		var err error

		ruleFilter, err = expr.NewRuleFilter(filter)
		if err != nil {
			return err //nolint:wrapcheck // Filter errors already name the expression.
		}
	}

	for i, r := range session.Current().Rules.All() {
		if ruleFilter != nil && !ruleFilter.Match(r, i) {
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%-4d %-4d %-10s %-30q %-20s %s\n",
			i, r.ID, r.Pattern.Feature, r.Pattern.Matches, r.ProfileName, r.SourceFile)
	}

	return nil
}

func listProfiles(cmd *cobra.Command, session *appconfig.Session, filter string) error {
	var profileFilter *expr.ProfileFilter

	if filter != "" {
		var err error

		profileFilter, err = expr.NewProfileFilter(filter)
		if err != nil {
			return err //nolint:wrapcheck // Filter errors already name the expression.
		}
	}

	for _, p := range session.Current().Profiles.All() {
		if profileFilter != nil && !profileFilter.Match(p) {
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-40s %s\n",
			p.Name, formatSettings(p), p.SourceFile)
	}

	return nil
}

// formatSettings renders a profile's settings as "key=value" pairs with the
// hex-preferred display form for integers.
func formatSettings(p *profile.Profile) string {
	parts := make([]string, len(p.Settings))
	for i, s := range p.Settings {
		parts[i] = fmt.Sprintf("%s=%s", s.Key, s.Value)
	}

	return strings.Join(parts, " ")
}
