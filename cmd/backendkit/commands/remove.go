package commands

import (
	"github.com/spf13/cobra"

	"github.com/backendkit/backendkit/cmd/backendkit/opts"
	"github.com/backendkit/backendkit/pkg/kit"
)

// NewRemoveCmd creates the remove command
func NewRemoveCmd(o *opts.RootOpts) *cobra.Command {
	var (
		yes    bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Uninstall the knowledge base from a project",
		Long: `Remove deletes the managed directory, any recognized config file at the
target root, and every adapter file the manifest records. Files already
missing are treated as removed; running remove twice is safe.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := o.Kit.Remove(cmd.Context(), kit.RemoveOptions{
				Target: o.Target,
				Yes:    yes,
				DryRun: dryRun,
			})
			if err != nil {
				return err
			}
			return renderResult(o, res)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report deletion candidates without deleting")

	return cmd
}
