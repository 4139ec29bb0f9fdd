package domain

import "time"

// NotificationKind is the severity of a notification.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
	NotificationInfo    NotificationKind = "info"
)

// DefaultNotificationTTL is how long a notification stays live.
const DefaultNotificationTTL = 3000 * time.Millisecond

// Notification is an advisory message shown to the user.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Title   string           `json:"title"`
	Message string           `json:"message,omitempty"`

	// PostedAt is when the notification went live.
	PostedAt time.Time `json:"posted_at"`
}

// Valid reports whether k is a known kind.
func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationSuccess, NotificationError, NotificationInfo:
		return true
	default:
		return false
	}
}
