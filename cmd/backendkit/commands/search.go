package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/backendkit/backendkit/cmd/backendkit/opts"
	"github.com/backendkit/backendkit/pkg/manifest"
	"github.com/backendkit/backendkit/pkg/search"
)

// NewSearchCmd creates the search command
func NewSearchCmd(o *opts.RootOpts) *cobra.Command {
	var (
		globs []string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the installed knowledge-base documents",
		Long: `Search scans the markdown documents in the project's managed directory
for a query string. Without an installation it searches the embedded
content shipped with this binary instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			fsys := o.Kit.FS
			scope := "embedded content"
			managedDir := manifest.Dir(o.Target)
			if info, err := os.Stat(managedDir); err == nil && info.IsDir() {
				fsys = os.DirFS(managedDir)
				scope = managedDir
			}
			zerolog.Ctx(ctx).Debug().Str("scope", scope).Msg("searching")

			matches, err := search.Run(ctx, fsys, args[0], search.Options{
				Globs: globs,
				Limit: limit,
			})
			if err != nil {
				return err
			}

			if o.JSON {
				return renderJSON(o.Stdout, matches)
			}

			if len(matches) == 0 {
				fmt.Fprintf(o.Stdout, "no matches for %q in %s\n", args[0], scope)
				return nil
			}
			for _, m := range matches {
				fmt.Fprintf(o.Stdout, "%s%s %s\n",
					color.CyanString(m.Path),
					color.New(color.Faint).Sprintf(":%d", m.Line),
					m.Text)
			}
			fmt.Fprintf(o.Stdout, "\n%d match(es)\n", len(matches))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&globs, "glob", nil, "restrict the search to paths matching these globs")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of matches to print (0 = unlimited)")

	return cmd
}
