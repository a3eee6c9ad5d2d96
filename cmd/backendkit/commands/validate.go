package commands

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/backendkit/backendkit/cmd/backendkit/opts"
	"github.com/backendkit/backendkit/pkg/usererr"
	"github.com/backendkit/backendkit/pkg/validate"
)

// NewValidateCmd creates the validate command
func NewValidateCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that the manifest matches the files on disk",
		Long: `Validate verifies the installation invariant: every path listed in the
manifest exists, and every file in the managed directory is listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			issues, err := validate.Check(cmd.Context(), o.Target)
			if err != nil {
				return err
			}

			if o.JSON {
				envelope := struct {
					Success bool             `json:"success"`
					Issues  []validate.Issue `json:"issues"`
				}{Success: len(issues) == 0, Issues: issues}
				enc := json.NewEncoder(o.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(envelope); err != nil {
					return err
				}
			} else {
				for _, issue := range issues {
					fmt.Fprintf(o.Stdout, "%s %s\n", color.RedString("✗"), issue.Message)
				}
				fmt.Fprintln(o.Stdout, validate.Summarize(issues))
			}

			if len(issues) > 0 {
				return usererr.Newf(usererr.CodeValidationFailed,
					"%d consistency issue(s) found", len(issues)).
					WithHint("run `backendkit sync --force` to reconcile the installation").
					AsSilent()
			}
			return nil
		},
	}

	return cmd
}
