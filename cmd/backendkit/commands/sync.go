package commands

import (
	"github.com/spf13/cobra"

	"github.com/backendkit/backendkit/cmd/backendkit/opts"
	"github.com/backendkit/backendkit/pkg/kit"
)

// NewSyncCmd creates the sync command
func NewSyncCmd(o *opts.RootOpts) *cobra.Command {
	var (
		dryRun   bool
		force    bool
		doBackup bool
		noBackup bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Update an existing installation to the current kit content",
		Long: `Sync re-resolves the installed preset or template and re-materializes
its content, backing up the managed directory first. The reported diff
is presence-based: files present both before and after count as updated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			syncOpts := kit.SyncOptions{
				Target: o.Target,
				DryRun: dryRun,
				Force:  force,
			}
			switch {
			case noBackup:
				disabled := false
				syncOpts.Backup = &disabled
			case cmd.Flags().Changed("backup"):
				syncOpts.Backup = &doBackup
			}

			res, err := o.Kit.Sync(cmd.Context(), syncOpts)
			if err != nil {
				return err
			}
			return renderResult(o, res)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report the diff without changing anything")
	cmd.Flags().BoolVar(&force, "force", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&doBackup, "backup", true, "snapshot the managed directory before syncing")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "skip the pre-sync backup")

	return cmd
}
