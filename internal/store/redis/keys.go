package redis

import "strconv"

const (
	// KeyTimerMinutes holds the configured countdown duration.
	KeyTimerMinutes = "hoard:settings:timer-minutes"
	// KeyTabNames is the hash of tabID -> custom display name.
	KeyTabNames = "hoard:tabnames"
)

// TabNameField returns the hash field for a tab's custom name.
func TabNameField(tabID int) string {
	return strconv.Itoa(tabID)
}
