package commands

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/backendkit/backendkit/cmd/backendkit/opts"
	"github.com/backendkit/backendkit/pkg/content"
)

// NewListCmd creates the list command
func NewListCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available presets, templates, and AI adapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.JSON {
				return renderJSON(o.Stdout, struct {
					Presets   []content.Preset   `json:"presets"`
					Templates []content.Template `json:"templates"`
					Adapters  []string           `json:"adapters"`
				}{
					Presets:   content.AllPresets(),
					Templates: content.AllTemplates(),
					Adapters:  content.AdapterNames(),
				})
			}

			presetRows := pterm.TableData{{"PRESET", "PATTERNS", "CHECKLISTS", "DESCRIPTION"}}
			for _, p := range content.AllPresets() {
				presetRows = append(presetRows, []string{
					p.Name,
					strings.Join(p.Patterns, ", "),
					strings.Join(p.Checklists, ", "),
					p.Description,
				})
			}
			if err := pterm.DefaultTable.WithWriter(o.Stdout).WithHasHeader().WithData(presetRows).Render(); err != nil {
				return err
			}

			templateRows := pterm.TableData{{"TEMPLATE", "PRESET", "DESCRIPTION"}}
			for _, t := range content.AllTemplates() {
				templateRows = append(templateRows, []string{t.Name, t.Preset, t.Description})
			}
			if err := pterm.DefaultTable.WithWriter(o.Stdout).WithHasHeader().WithData(templateRows).Render(); err != nil {
				return err
			}

			pterm.DefaultBasicText.WithWriter(o.Stdout).
				Println("adapters: " + strings.Join(content.AdapterNames(), ", "))
			return nil
		},
	}

	return cmd
}
