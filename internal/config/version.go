package config

import (
	"fmt"
)

// Version information (set via -ldflags during build), e.g.
//
//	-X github.com/bobmcallan/vault-mcp/internal/config.Version=1.2.0
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// BuildInfo is the version triple as reported in logs and catalog output.
type BuildInfo struct {
	Version   string `json:"version" yaml:"version"`
	Build     string `json:"build" yaml:"build"`
	GitCommit string `json:"git_commit" yaml:"git_commit"`
}

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// GetBuildInfo returns all version fields.
func GetBuildInfo() BuildInfo {
	return BuildInfo{Version: Version, Build: Build, GitCommit: GitCommit}
}

// GetFullVersion returns version with build info.
func GetFullVersion() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", Version, Build, GitCommit)
}
