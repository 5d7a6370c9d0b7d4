package redis

import "fmt"

// Key prefix for all moderator data
const keyPrefix = "roomwarden"

// channelKey returns the pub/sub channel notifications are published on
func channelKey(channel string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, channel)
}

// recentKey returns the key of the capped LIST of recent notifications
func recentKey(channel string) string {
	return fmt.Sprintf("%s:recent:%s", keyPrefix, channel)
}
