// Package provider implements the text API collaborators behind the version cache.
package provider

import "github.com/ZaguanLabs/gotext"

// Fetcher is an alias to the main package interface for convenience.
type Fetcher = gotext.Fetcher

// PreferenceSource is an alias to the main package interface.
type PreferenceSource = gotext.PreferenceSource

// VersionKey is an alias to the main package type.
type VersionKey = gotext.VersionKey

// Version is an alias to the main package type.
type Version = gotext.Version
