package version

// Build information set by ldflags
var (
	Version = "0.3.0"   // Set by goreleaser: -X github.com/backendkit/backendkit/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/backendkit/backendkit/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/backendkit/backendkit/internal/version.Date={{.Date}}
)
