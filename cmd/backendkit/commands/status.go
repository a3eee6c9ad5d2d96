package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/backendkit/backendkit/cmd/backendkit/opts"
)

// NewStatusCmd creates the status command
func NewStatusCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the installation state of a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := o.Kit.InspectStatus(cmd.Context(), o.Target)
			if err != nil {
				return err
			}

			if o.JSON {
				return renderJSON(o.Stdout, st)
			}

			if !st.Installed {
				fmt.Fprintf(o.Stdout, "%s no backendkit installation in %s\n", color.YellowString("-"), st.Target)
				return nil
			}

			fmt.Fprintf(o.Stdout, "%s backendkit installed in %s\n", color.GreenString("✓"), st.Target)
			if st.ConfigFile != "" {
				fmt.Fprintf(o.Stdout, "  config:  %s\n", st.ConfigFile)
			}
			if st.Manifest == nil {
				fmt.Fprintf(o.Stdout, "  %s manifest missing or unreadable (re-run `backendkit init --force`)\n", color.YellowString("⚠"))
				return nil
			}

			m := st.Manifest
			fmt.Fprintf(o.Stdout, "  version: %s\n", m.KitVersion)
			if m.Preset != "" {
				fmt.Fprintf(o.Stdout, "  preset:  %s\n", m.Preset)
			}
			if m.Template != "" {
				fmt.Fprintf(o.Stdout, "  template: %s\n", m.Template)
			}
			fmt.Fprintf(o.Stdout, "  installed: %s\n", m.InstalledAt.Format("2006-01-02 15:04:05 MST"))
			if m.LastSyncedAt != nil {
				fmt.Fprintf(o.Stdout, "  synced:    %s\n", m.LastSyncedAt.Format("2006-01-02 15:04:05 MST"))
			}
			fmt.Fprintf(o.Stdout, "  files:     %d\n", len(m.Files))
			for _, a := range m.AIAdapters {
				fmt.Fprintf(o.Stdout, "  adapter:   %s (%s)\n", a.Tool, a.Path)
			}
			return nil
		},
	}

	return cmd
}
