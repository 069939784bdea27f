package api

import (
	"context"
	"fmt"

	"deliveryPortal/models"
)

// FetchNotifications loads the session's notification snapshot.
func (c *Client) FetchNotifications(ctx context.Context) ([]models.Notification, error) {
	var out struct {
		Notifications []models.Notification `json:"notifications"`
	}
	if err := c.get(ctx, "/notifications", nil, &out); err != nil {
		return nil, err
	}
	return out.Notifications, nil
}

// MarkNotificationRead flags one notification as read server-side.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.patch(ctx, fmt.Sprintf("/notifications/%s/read", id), nil, nil)
}

// DeleteAllNotifications clears the session's notifications server-side.
func (c *Client) DeleteAllNotifications(ctx context.Context) error {
	return c.delete(ctx, "/notifications")
}
