// Package models defines the data objects shared across lazybranch packages.
package models

import "strings"

// Repository identifies a local checkout.
type Repository struct {
	Path string // Absolute path to the top-level working tree
	Name string // Base name of Path, used in titles and logs
}

// Branch describes a local branch and its upstream, if any.
type Branch struct {
	Name       string
	Hash       string
	IsCurrent  bool
	Upstream   string // Short upstream ref, e.g. "origin/feature/x"
	Remote     string // Remote name of the upstream, e.g. "origin"
	LastCommit string // Subject of the tip commit
}

// IsRemoteTracking reports whether the branch is configured to follow a
// branch on a remote.
func (b Branch) IsRemoteTracking() bool {
	return b.Remote != "" && b.Upstream != ""
}

// UpstreamName returns the upstream branch name without the remote prefix.
// It falls back to the local name when the branch has no upstream.
func (b Branch) UpstreamName() string {
	if b.Remote != "" {
		if name, ok := strings.CutPrefix(b.Upstream, b.Remote+"/"); ok && name != "" {
			return name
		}
	}
	return b.Name
}

// RemoteExistence is the result of asking whether a branch exists on its remote.
type RemoteExistence int

// RemoteExistence values.
const (
	RemoteUnknown RemoteExistence = iota // check has not resolved yet
	RemoteExists
	RemoteAbsent
)

// String returns a human-readable name for the value.
func (r RemoteExistence) String() string {
	switch r {
	case RemoteUnknown:
		return "unknown"
	case RemoteExists:
		return "exists"
	case RemoteAbsent:
		return "absent"
	default:
		return "invalid"
	}
}

// RemoteExistenceFrom maps a resolved boolean to its RemoteExistence value.
func RemoteExistenceFrom(exists bool) RemoteExistence {
	if exists {
		return RemoteExists
	}
	return RemoteAbsent
}
