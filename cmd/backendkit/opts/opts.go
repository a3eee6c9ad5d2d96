package opts

import (
	"io"

	"github.com/backendkit/backendkit/pkg/kit"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// Target is the project directory operations act on
	Target string

	// JSON switches output to a single machine-readable document
	JSON bool

	// Kit is the lifecycle orchestrator shared by every command
	Kit *kit.Kit

	Stdout io.Writer
	Stderr io.Writer
}
