package notify

import (
	"time"

	"github.com/google/uuid"

	"deliveryPortal/internal/realtime"
	"deliveryPortal/models"
)

// localIDPrefix distinguishes locally generated notification ids from
// server-issued ones. Local ids are never sent back to the server.
const localIDPrefix = "local-"

// eventTypes maps socket event names to notification types.
var eventTypes = map[string]models.NotificationType{
	realtime.EventNewOrder:          models.NotificationOrderCreated,
	realtime.EventOrderAssigned:     models.NotificationOrderAssigned,
	realtime.EventOrderStatusUpdate: models.NotificationOrderStatusUpdate,
	realtime.EventOrderDelivered:    models.NotificationOrderDelivered,
	realtime.EventAccountCreated:    models.NotificationAccountCreated,
}

// FromEvent normalizes a raw socket event into a canonical notification.
// Pure function, no I/O: id, type and timestamp fallbacks are resolved here
// so the store never sees a partial record.
func FromEvent(ev realtime.Event) models.Notification {
	n := models.Notification{
		Message: ev.Data.Message,
		IsRead:  false,
	}

	n.Type = models.NotificationType(ev.Data.Type)
	if n.Type == "" {
		n.Type = eventTypes[ev.Name]
	}
	if n.Type == "" {
		n.Type = models.NotificationOrderStatusUpdate
	}

	n.ID = ev.Data.NotificationID
	if n.ID == "" {
		n.ID = localIDPrefix + uuid.NewString()
	}

	// orderId wins over relatedId when both are present.
	n.RelatedID = ev.Data.OrderID
	if n.RelatedID == "" {
		n.RelatedID = ev.Data.RelatedID
	}

	if ev.Data.CreatedAt != nil {
		n.CreatedAt = *ev.Data.CreatedAt
	} else if !ev.ReceivedAt.IsZero() {
		n.CreatedAt = ev.ReceivedAt
	} else {
		n.CreatedAt = time.Now()
	}

	return n
}

// IsLocalID reports whether the id was generated by this session rather than
// issued by the server.
func IsLocalID(id string) bool {
	return len(id) > len(localIDPrefix) && id[:len(localIDPrefix)] == localIDPrefix
}
