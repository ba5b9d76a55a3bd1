package buildinfo

import "fmt"

// Set with -ldflags "-X github.com/aalvaropc/suitemap/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("suitemap %s (commit=%s, date=%s)", Version, Commit, Date)
}
