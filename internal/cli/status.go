package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func NewStatusCmd(rootArgs *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Summarize the configuration and its backing files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, _, err := newSession(rootArgs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			current := session.Current()

			state := "disabled"
			if current.Enabled {
				state = "enabled"
			}

			fmt.Fprintf(out, "application profiles: %s\n", state)
			fmt.Fprintf(out, "rules: %d, profiles: %d\n",
				current.Rules.Len(), current.Profiles.Len())

			fmt.Fprintln(out, "backing files:")

			for _, path := range session.BackingFiles() {
				info, err := os.Stat(path)
				if err != nil {
					fmt.Fprintf(out, "  %s (absent)\n", path)

					continue
				}

				fmt.Fprintf(out, "  %s (%s, modified %s)\n",
					path,
					humanize.Bytes(uint64(info.Size())), //nolint:gosec // Sizes are never negative.
					humanize.Time(info.ModTime()),
				)
			}

			return nil
		},
	}

	return cmd
}
