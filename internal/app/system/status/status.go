// Package status defines user account statuses.
package status

const (
	Active = "active"
	Banned = "banned"
)

// IsValid reports whether s is a recognized account status.
func IsValid(s string) bool {
	return s == Active || s == Banned
}
