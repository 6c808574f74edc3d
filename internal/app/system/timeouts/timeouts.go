// Package timeouts centralizes the context deadlines used for database
// work so individual handlers don't pick ad-hoc values.
package timeouts

import "time"

// Ping is for liveness probes.
func Ping() time.Duration { return 2 * time.Second }

// Short is for single-document lookups and writes.
func Short() time.Duration { return 5 * time.Second }

// Medium is for multi-document operations (list pages, cascades).
func Medium() time.Duration { return 15 * time.Second }

// Long is for background jobs and whole-collection scans.
func Long() time.Duration { return 60 * time.Second }
