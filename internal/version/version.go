package version

// Version information set via ldflags at build time
var (
	Version   = "dev"     // -X 'github.com/seriate-dev/seriate/internal/version.Version=...'
	GitCommit = "unknown" // -X 'github.com/seriate-dev/seriate/internal/version.GitCommit=...'
	BuildDate = "unknown" // -X 'github.com/seriate-dev/seriate/internal/version.BuildDate=...'
)
