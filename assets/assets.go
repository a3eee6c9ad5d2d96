// Package assets embeds the knowledge-base content shipped with backendkit:
// pattern and checklist documents, the rules summary, AI adapter templates,
// and project template skeletons.
package assets

import "embed"

//go:embed patterns checklists rules adapters templates
var FS embed.FS
