package cli

import (
	"github.com/spf13/cobra"
)

func NewEnableCmd(rootArgs *RootArgs) *cobra.Command {
	return newToggleCmd(rootArgs, "enable", "Enable application profile processing globally", true)
}

func NewDisableCmd(rootArgs *RootArgs) *cobra.Command {
	return newToggleCmd(rootArgs, "disable", "Disable application profile processing globally", false)
}

func newToggleCmd(rootArgs *RootArgs, use, short string, enabled bool) *cobra.Command {
	ca := &CommitArgs{}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, cfg, err := newSession(rootArgs)
			if err != nil {
				return err
			}

			session.Current().Enabled = enabled

			return commit(cmd, session, cfg, ca)
		},
	}

	ca.AddFlags(cmd)

	return cmd
}
