// Package buildinfo exposes version metadata stamped in at link time:
//
//	go build -ldflags "-X github.com/Harshitk-cp/ratelens/internal/buildinfo.version=v1.2.0 -X github.com/Harshitk-cp/ratelens/internal/buildinfo.commit=abc123"
package buildinfo

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
)

// Info is the build metadata reported by /health and `ratectl version`.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

func Get() Info {
	return Info{Version: version, Commit: commit}
}

func (i Info) String() string {
	return fmt.Sprintf("%s (%s)", i.Version, i.Commit)
}
