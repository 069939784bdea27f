package api

import (
	"context"
	"fmt"
	"net/url"

	"deliveryPortal/models"
)

// Location is a latitude/longitude pair reported with status updates.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CreateOrderRequest is the body for POST /orders.
type CreateOrderRequest struct {
	Description     string   `json:"description"`
	DeliveryAddress string   `json:"deliveryAddress"`
	DeliveryLat     *float64 `json:"deliveryLat,omitempty"`
	DeliveryLng     *float64 `json:"deliveryLng,omitempty"`
}

// OrderFilters narrows list queries. Zero values are omitted.
type OrderFilters struct {
	Status    string
	LivreurID string
}

func (f OrderFilters) query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.LivreurID != "" {
		q.Set("livreurId", f.LivreurID)
	}
	return q
}

// normalizeOrder canonicalizes the status in place. Statuses outside the
// enumeration are left raw so dashboards can render them as-is on an
// unknown-status badge.
func normalizeOrder(o *models.Order) {
	if s := models.NormalizeStatus(string(o.Status)); s != models.OrderStatusUnknown {
		o.Status = s
	}
}

// ListOrders returns the caller's order view: the backend scopes the result
// to the authenticated role (own orders for clients, assigned deliveries for
// livreurs, everything for admins).
func (c *Client) ListOrders(ctx context.Context, f OrderFilters) ([]models.Order, error) {
	var out struct {
		Orders []models.Order `json:"orders"`
	}
	if err := c.get(ctx, "/orders", f.query(), &out); err != nil {
		return nil, err
	}
	for i := range out.Orders {
		normalizeOrder(&out.Orders[i])
	}
	return out.Orders, nil
}

// GetOrder fetches a single order.
func (c *Client) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var out struct {
		Order models.Order `json:"order"`
	}
	if err := c.get(ctx, "/orders/"+id, nil, &out); err != nil {
		return nil, err
	}
	normalizeOrder(&out.Order)
	return &out.Order, nil
}

// CreateOrder places a new order for the authenticated client.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	var out struct {
		Order models.Order `json:"order"`
	}
	if err := c.post(ctx, "/orders", req, &out); err != nil {
		return nil, err
	}
	normalizeOrder(&out.Order)
	return &out.Order, nil
}

// UpdateOrderStatus moves an order along its lifecycle. The delivery
// location and code are only meaningful for the livreur transitions; the
// 6-digit code is required by the backend for IN_DELIVERY → DELIVERED.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, loc *Location, deliveryCode string) (*models.Order, error) {
	body := struct {
		Status           models.OrderStatus `json:"status"`
		DeliveryLocation *Location          `json:"deliveryLocation,omitempty"`
		DeliveryCode     string             `json:"deliveryCode,omitempty"`
	}{Status: status, DeliveryLocation: loc, DeliveryCode: deliveryCode}

	var out struct {
		Order models.Order `json:"order"`
	}
	if err := c.patch(ctx, fmt.Sprintf("/orders/%s/status", id), body, &out); err != nil {
		return nil, err
	}
	normalizeOrder(&out.Order)
	return &out.Order, nil
}

// AssignOrder attaches a livreur to a pending order (admin action).
func (c *Client) AssignOrder(ctx context.Context, id, livreurID string) (*models.Order, error) {
	var out struct {
		Order models.Order `json:"order"`
	}
	body := map[string]string{"livreurId": livreurID}
	if err := c.patch(ctx, fmt.Sprintf("/orders/%s/assign", id), body, &out); err != nil {
		return nil, err
	}
	normalizeOrder(&out.Order)
	return &out.Order, nil
}

// ConfirmReceipt is the client's DELIVERED → RECEIVED confirmation.
func (c *Client) ConfirmReceipt(ctx context.Context, id string) (*models.Order, error) {
	var out struct {
		Order models.Order `json:"order"`
	}
	if err := c.patch(ctx, fmt.Sprintf("/orders/%s/confirm", id), nil, &out); err != nil {
		return nil, err
	}
	normalizeOrder(&out.Order)
	return &out.Order, nil
}
