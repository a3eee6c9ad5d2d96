package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backendkit/backendkit/cmd/backendkit/opts"
)

func TestInitFlagSurface(t *testing.T) {
	cmd := NewInitCmd(&opts.RootOpts{})

	for _, name := range []string{"preset", "template", "ai", "project-name", "description", "force", "dry-run", "no-backup", "yes"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag --%s", name)
	}

	yes := cmd.Flags().Lookup("yes")
	require.NotNil(t, yes)
	assert.Equal(t, "y", yes.Shorthand)
}
