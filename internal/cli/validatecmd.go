package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errValidationFailed = errors.New("validation failed")

func NewValidateCmd(rootArgs *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check every rule and profile on the search path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, _, err := newSession(rootArgs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			current := session.Current()

			fatals := 0

			for i, r := range current.Rules.All() {
				res := current.ValidateRule(r)
				for _, msg := range res.Fatal {
					fatals++

					fmt.Fprintf(out, "rule %d (priority %d): error: %s\n", r.ID, i, msg)
				}

				for _, msg := range res.Nonfatal {
					fmt.Fprintf(out, "rule %d (priority %d): warning: %s\n", r.ID, i, msg)
				}
			}

			for _, p := range current.Profiles.All() {
				res := current.ValidateProfile(p)
				for _, msg := range res.Fatal {
					fatals++

					fmt.Fprintf(out, "profile %q: error: %s\n", p.Name, msg)
				}

				for _, msg := range res.Nonfatal {
					fmt.Fprintf(out, "profile %q: warning: %s\n", p.Name, msg)
				}
			}

			if fatals > 0 {
				return fmt.Errorf("%w: %d error(s)", errValidationFailed, fatals)
			}

			fmt.Fprintln(out, "configuration is valid")

			return nil
		},
	}

	return cmd
}
