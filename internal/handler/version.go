package handler

import (
	"net/http"
	"os"
	"runtime"
)

// Build metadata injected via -ldflags "-X ..." at release time.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unset"
)

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	BuildTime string `json:"build_time,omitempty"`
	GitCommit string `json:"git_commit,omitempty"`
}

// HandleVersion reports the deployed build so operators can confirm a
// rollout landed.
func HandleVersion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, VersionInfo{
			Version:   resolveVersion(),
			GoVersion: runtime.Version(),
			BuildTime: BuildTime,
			GitCommit: GitCommit,
		})
	}
}

// resolveVersion prefers the build-time value, then the VERSION
// environment variable for containerized deploys without ldflags.
func resolveVersion() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if env := os.Getenv("VERSION"); env != "" {
		return env
	}
	return "dev"
}
