package realtime

import "time"

// Event names emitted by the backend socket channel.
const (
	EventNewOrder          = "new-order"
	EventOrderAssigned     = "order-assigned"
	EventOrderStatusUpdate = "order-status-update"
	EventOrderDelivered    = "order-delivered"
	EventAccountCreated    = "account-created"
)

// EventData is the union of payload fields the backend sends across all
// event names. Fields absent from a given event are simply zero.
type EventData struct {
	Type           string     `json:"type,omitempty"`
	Message        string     `json:"message"`
	NotificationID string     `json:"notificationId,omitempty"`
	OrderID        string     `json:"orderId,omitempty"`
	RelatedID      string     `json:"relatedId,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`

	// new-order carries enough to render a provisional order row before the
	// authoritative refresh lands.
	ClientName      string `json:"clientName,omitempty"`
	ClientPhone     string `json:"clientPhone,omitempty"`
	DeliveryAddress string `json:"deliveryAddress,omitempty"`
	Description     string `json:"description,omitempty"`
	Status          string `json:"status,omitempty"`
}

// Event is a single named message received from the channel.
type Event struct {
	Name string
	Data EventData
	// ReceivedAt is stamped by the reader when the frame arrives.
	ReceivedAt time.Time
}
