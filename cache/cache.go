// Package cache provides backing stores and snapshots for the version cache.
package cache

import "github.com/ZaguanLabs/gotext"

// VersionStore is an alias to the main package interface.
type VersionStore = gotext.VersionStore
