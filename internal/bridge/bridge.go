// Package bridge routes real-time events into the portal's stores. It is
// the only writer driven by the socket: handlers never mutate stores from
// event payloads directly.
package bridge

import (
	"log"
	"sync"

	"deliveryPortal/internal/notify"
	"deliveryPortal/internal/orders"
	"deliveryPortal/internal/realtime"
	"deliveryPortal/models"
)

// Bridge consumes a hub subscription and applies each event to the
// notification and order stores.
type Bridge struct {
	sub    *realtime.Subscription
	notify *notify.Store
	orders *orders.Store

	stopOnce sync.Once
	done     chan struct{}
}

// Start subscribes to every order and account event and begins applying
// them. Call Stop to release the subscription.
func Start(hub *realtime.Hub, notifications *notify.Store, orderStore *orders.Store) *Bridge {
	b := &Bridge{
		sub: hub.Subscribe(
			realtime.EventNewOrder,
			realtime.EventOrderAssigned,
			realtime.EventOrderStatusUpdate,
			realtime.EventOrderDelivered,
			realtime.EventAccountCreated,
		),
		notify: notifications,
		orders: orderStore,
		done:   make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Bridge) run() {
	defer close(b.done)
	for ev := range b.sub.C {
		b.apply(ev)
	}
}

// apply turns one event into store updates. Every event becomes a
// notification; order events additionally touch the order store with the
// cheapest safe update, leaving authoritative state to the next fetch.
func (b *Bridge) apply(ev realtime.Event) {
	b.notify.Ingest(ev)

	switch ev.Name {
	case realtime.EventNewOrder:
		b.orders.AddProvisional(ev)
	case realtime.EventOrderAssigned:
		b.applyStatus(ev, string(models.OrderStatusAssigned))
	case realtime.EventOrderDelivered:
		b.applyStatus(ev, string(models.OrderStatusDelivered))
	case realtime.EventOrderStatusUpdate:
		b.applyStatus(ev, ev.Data.Status)
	case realtime.EventAccountCreated:
		// notification only
	default:
		log.Printf("bridge: unhandled event %q", ev.Name)
	}
}

func (b *Bridge) applyStatus(ev realtime.Event, status string) {
	id := ev.Data.OrderID
	if id == "" {
		id = ev.Data.RelatedID
	}
	if id == "" || status == "" {
		return
	}
	b.orders.ApplyStatus(id, status)
}

// Stop closes the subscription and waits for in-flight events to drain.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		b.sub.Close()
		<-b.done
	})
}
