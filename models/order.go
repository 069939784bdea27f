package models

import (
	"strings"
	"time"
)

// OrderStatus represents the current progress of an order.
// The canonical form is uppercase snake case; the backend has been observed
// emitting both cases, so always go through NormalizeStatus on ingest.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusAssigned   OrderStatus = "ASSIGNED"
	OrderStatusInDelivery OrderStatus = "IN_DELIVERY"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusReceived   OrderStatus = "RECEIVED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// OrderStatusUnknown is returned by NormalizeStatus for values outside the
// enumeration. Unknown statuses are rendered defensively, never rejected.
const OrderStatusUnknown OrderStatus = "UNKNOWN"

// orderStatuses is the closed set of statuses the lifecycle defines.
var orderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:    {},
	OrderStatusAssigned:   {},
	OrderStatusInDelivery: {},
	OrderStatusDelivered:  {},
	OrderStatusReceived:   {},
	OrderStatusCancelled:  {},
}

// legalTransitions maps a status to the set of statuses reachable from it.
// The happy path is monotonic; cancellation is only possible before pickup.
var legalTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusAssigned, OrderStatusCancelled},
	OrderStatusAssigned:   {OrderStatusInDelivery, OrderStatusCancelled},
	OrderStatusInDelivery: {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusReceived},
	OrderStatusReceived:   {},
	OrderStatusCancelled:  {},
}

// statusLabels holds the French display labels used across all dashboards.
var statusLabels = map[OrderStatus]string{
	OrderStatusPending:    "En attente",
	OrderStatusAssigned:   "Assignée",
	OrderStatusInDelivery: "En cours de livraison",
	OrderStatusDelivered:  "Livrée (à confirmer)",
	OrderStatusReceived:   "Terminée",
	OrderStatusCancelled:  "Annulée",
}

// NormalizeStatus maps a raw backend status string to its canonical form.
// Matching is case-insensitive. Unrecognized values map to OrderStatusUnknown.
func NormalizeStatus(raw string) OrderStatus {
	s := OrderStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := orderStatuses[s]; ok {
		return s
	}
	return OrderStatusUnknown
}

// IsLegalTransition reports whether moving from one status to the other is
// defined by the lifecycle. Callers use this defensively: the backend is
// authoritative, so an illegal observed transition is logged and applied
// anyway, never refused.
func IsLegalTransition(from, to OrderStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsActiveStatus reports whether the order still needs attention on an
// "active" dashboard view, as opposed to the history view.
func IsActiveStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusAssigned, OrderStatusInDelivery:
		return true
	}
	return false
}

// IsTerminalStatus reports whether no further transition is defined.
func IsTerminalStatus(s OrderStatus) bool {
	return s == OrderStatusReceived || s == OrderStatusCancelled
}

// Label returns the French display label for a status, or the raw status
// value when the status is outside the enumeration.
func (s OrderStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Order is a read-only projection of a backend-owned order. The portal never
// mutates orders directly; it issues commands and re-reads authoritative state.
type Order struct {
	ID              string      `db:"id" json:"id"`
	Status          OrderStatus `db:"status" json:"status"`
	ClientID        string      `db:"client_id" json:"clientId"`
	ClientName      string      `db:"client_name" json:"clientName,omitempty"`
	ClientPhone     string      `db:"client_phone" json:"clientPhone,omitempty"`
	LivreurID       *string     `db:"livreur_id" json:"livreurId,omitempty"`
	Description     string      `db:"description" json:"description"`
	DeliveryAddress string      `db:"delivery_address" json:"deliveryAddress"`
	// Delivery coordinates are nullable; orders may be placed with an
	// address only and geocoded later.
	DeliveryLat *float64   `db:"delivery_lat" json:"deliveryLat,omitempty"`
	DeliveryLng *float64   `db:"delivery_lng" json:"deliveryLng,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	AssignedAt  *time.Time `db:"assigned_at" json:"assignedAt,omitempty"`
	PickedUpAt  *time.Time `db:"picked_up_at" json:"pickedUpAt,omitempty"`
	DeliveredAt *time.Time `db:"delivered_at" json:"deliveredAt,omitempty"`
	// Provisional marks a record synthesized locally from an event payload.
	// It must be replaced wholesale by the next authoritative fetch.
	Provisional bool `db:"provisional" json:"provisional,omitempty"`
}

// Active reports whether the order belongs on the active partition of a
// dashboard rather than the history one.
func (o *Order) Active() bool {
	return IsActiveStatus(o.Status)
}
