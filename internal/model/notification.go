package model

import "time"

// NotificationKind groups notifications so sinks can filter them
type NotificationKind string

const (
	KindSession    NotificationKind = "session"
	KindAuthority  NotificationKind = "authority"
	KindClub       NotificationKind = "club"
	KindMatch      NotificationKind = "match"
	KindModeration NotificationKind = "moderation"
	KindChat       NotificationKind = "chat"
	KindSystem     NotificationKind = "system"
)

// NotificationField is a titled value rendered alongside the description
type NotificationField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Notification is an outbound message delivered asynchronously to external sinks
type Notification struct {
	ID          string              `json:"id"`
	Kind        NotificationKind    `json:"kind"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Color       int                 `json:"color"`
	Timestamp   time.Time           `json:"timestamp"`
	Fields      []NotificationField `json:"fields,omitempty"`
}
