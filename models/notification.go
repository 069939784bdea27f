package models

import "time"

// NotificationType tags a notification with the event that produced it.
type NotificationType string

const (
	NotificationOrderCreated      NotificationType = "ORDER_CREATED"
	NotificationOrderAssigned     NotificationType = "ORDER_ASSIGNED"
	NotificationOrderStatusUpdate NotificationType = "ORDER_STATUS_UPDATE"
	NotificationOrderDelivered    NotificationType = "ORDER_DELIVERED"
	NotificationAccountCreated    NotificationType = "ACCOUNT_CREATED"
)

// Notification is a transient, advisory record shown in the portal bell menu.
// It is derived from a real-time event or a backend snapshot fetch and is not
// a system of record.
type Notification struct {
	// ID is server-issued when the backend persisted the notification, or a
	// locally generated fallback for live events that arrived without one.
	// Local ids are never sent back to the server.
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"createdAt"`
	IsRead    bool             `json:"isRead"`
	// RelatedID points at the entity the notification is about (usually an
	// order) and drives click navigation. Empty when there is nothing to
	// navigate to.
	RelatedID string `json:"relatedId,omitempty"`
}
