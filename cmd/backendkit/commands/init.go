package commands

import (
	"github.com/spf13/cobra"

	"github.com/backendkit/backendkit/cmd/backendkit/opts"
	"github.com/backendkit/backendkit/pkg/kit"
)

// NewInitCmd creates the init command
func NewInitCmd(o *opts.RootOpts) *cobra.Command {
	var (
		preset      string
		template    string
		adapters    []string
		projectName string
		description string
		force       bool
		dryRun      bool
		noBackup    bool
		yes         bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Install the knowledge base into a project",
		Long: `Init resolves the requested preset or template, copies its patterns,
checklists, and rules into the managed directory, renders any requested
AI adapter files, and records everything in a manifest.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			initOpts := kit.InitOptions{
				Target:      o.Target,
				Preset:      preset,
				Template:    template,
				Adapters:    adapters,
				ProjectName: projectName,
				Description: description,
				Force:       force,
				DryRun:      dryRun,
			}
			if noBackup {
				disabled := false
				initOpts.Backup = &disabled
			}

			res, err := o.Kit.Init(cmd.Context(), initOpts)
			if err != nil {
				return err
			}
			return renderResult(o, res)
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "content preset to install (default: standard)")
	cmd.Flags().StringVar(&template, "template", "", "project template to install")
	cmd.Flags().StringSliceVar(&adapters, "ai", nil, "AI adapter files to render (e.g. claude,cursor)")
	cmd.Flags().StringVar(&projectName, "project-name", "", "project name substituted into rendered files")
	cmd.Flags().StringVar(&description, "description", "", "project description substituted into rendered files")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing installation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be installed without writing")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "record backup-disabled in the written config")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "answer yes to any confirmation prompt")
	_ = yes // init currently never prompts; accepted for a uniform CLI surface

	return cmd
}
