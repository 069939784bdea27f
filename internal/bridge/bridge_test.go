package bridge

import (
	"context"
	"testing"
	"time"

	"deliveryPortal/internal/notify"
	"deliveryPortal/internal/orders"
	"deliveryPortal/internal/realtime"
	"deliveryPortal/models"
)

func newBridge(t *testing.T) (*realtime.Hub, *notify.Store, *orders.Store, *Bridge) {
	t.Helper()
	hub := realtime.NewHub()
	notifStore := notify.NewStore(nil)
	orderStore := orders.NewStore(nil)
	b := Start(hub, notifStore, orderStore)
	t.Cleanup(b.Stop)
	t.Cleanup(hub.Close)
	return hub, notifStore, orderStore, b
}

// publish pushes an event and waits for the bridge to drain it.
func publish(t *testing.T, hub *realtime.Hub, b *Bridge, ev realtime.Event, check func() bool) {
	t.Helper()
	hub.Publish(ev)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("bridge did not apply event %q in time", ev.Name)
}

func TestNewOrderEventCreatesNotificationAndProvisionalOrder(t *testing.T) {
	hub, notifStore, orderStore, b := newBridge(t)

	ev := realtime.Event{
		Name: realtime.EventNewOrder,
		Data: realtime.EventData{
			Message:         "Nouvelle commande",
			OrderID:         "ord-1",
			ClientName:      "Awa",
			DeliveryAddress: "Rue 12, Cotonou",
			Description:     "colis fragile, manipuler avec soin",
		},
		ReceivedAt: time.Now(),
	}
	publish(t, hub, b, ev, func() bool {
		_, ok := orderStore.Get("ord-1")
		return ok
	})

	o, _ := orderStore.Get("ord-1")
	if !o.Provisional {
		t.Errorf("event-created order should be provisional")
	}
	if o.Status != models.OrderStatusPending {
		t.Errorf("provisional order status = %s, want PENDING", o.Status)
	}
	if len(notifStore.List()) != 1 {
		t.Errorf("expected 1 notification, got %d", len(notifStore.List()))
	}
}

func TestAssignedAndDeliveredEventsAdvanceStatus(t *testing.T) {
	hub, _, orderStore, b := newBridge(t)

	orderStore.Replace(context.Background(), []models.Order{
		{ID: "ord-2", Status: models.OrderStatusPending, CreatedAt: time.Now()},
	})

	publish(t, hub, b,
		realtime.Event{Name: realtime.EventOrderAssigned, Data: realtime.EventData{OrderID: "ord-2", Message: "assignée"}},
		func() bool {
			o, _ := orderStore.Get("ord-2")
			return o.Status == models.OrderStatusAssigned
		})

	// order-delivered only carries relatedId on some backends.
	publish(t, hub, b,
		realtime.Event{Name: realtime.EventOrderDelivered, Data: realtime.EventData{RelatedID: "ord-2", Message: "livrée"}},
		func() bool {
			o, _ := orderStore.Get("ord-2")
			return o.Status == models.OrderStatusDelivered
		})
}

func TestStatusUpdateEventUsesPayloadStatus(t *testing.T) {
	hub, _, orderStore, b := newBridge(t)

	orderStore.Replace(context.Background(), []models.Order{
		{ID: "ord-3", Status: models.OrderStatusAssigned, CreatedAt: time.Now()},
	})

	publish(t, hub, b,
		realtime.Event{
			Name: realtime.EventOrderStatusUpdate,
			Data: realtime.EventData{OrderID: "ord-3", Status: "in_delivery", Message: "en route"},
		},
		func() bool {
			o, _ := orderStore.Get("ord-3")
			return o.Status == models.OrderStatusInDelivery
		})
}

func TestAccountCreatedEventIsNotificationOnly(t *testing.T) {
	hub, notifStore, orderStore, b := newBridge(t)

	publish(t, hub, b,
		realtime.Event{Name: realtime.EventAccountCreated, Data: realtime.EventData{Message: "Compte créé"}},
		func() bool { return len(notifStore.List()) == 1 })

	if got := len(orderStore.List()); got != 0 {
		t.Errorf("account event must not touch orders, got %d", got)
	}
}

func TestStopClosesSubscription(t *testing.T) {
	hub := realtime.NewHub()
	defer hub.Close()
	b := Start(hub, notify.NewStore(nil), orders.NewStore(nil))

	b.Stop()
	b.Stop() // idempotent

	// Publishing after Stop must not panic or deliver.
	hub.Publish(realtime.Event{Name: realtime.EventNewOrder, Data: realtime.EventData{OrderID: "late"}})
}
