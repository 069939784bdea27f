package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"deliveryPortal/models"
)

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"notifications":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok-123")
	if _, err := c.FetchNotifications(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

func TestClient_UnauthorizedHookFiresForAnyEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"token expiré"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL)
	calls := 0
	c.OnUnauthorized(func() { calls++ })

	_, err := c.ListOrders(context.Background(), OrderFilters{})
	if !IsUnauthorized(err) {
		t.Fatalf("err = %v, want 401 APIError", err)
	}
	if err := c.MarkNotificationRead(context.Background(), "n1"); !IsUnauthorized(err) {
		t.Fatalf("err = %v, want 401 APIError", err)
	}
	if calls != 2 {
		t.Errorf("hook ran %d times, want once per 401 response", calls)
	}
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	status := http.StatusBadRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"description trop courte"}`))
	}))
	defer srv.Close()
	c := New(srv.URL)

	_, err := c.CreateOrder(context.Background(), CreateOrderRequest{Description: "court"})
	if !IsValidation(err) {
		t.Errorf("400 not classified as validation: %v", err)
	}
	var ae *APIError
	if !errors.As(err, &ae) || ae.Message != "description trop courte" {
		t.Errorf("error message not surfaced: %v", err)
	}

	status = http.StatusInternalServerError
	_, err = c.CreateOrder(context.Background(), CreateOrderRequest{Description: "une commande valide"})
	if !IsServer(err) {
		t.Errorf("500 not classified as server error: %v", err)
	}
	if IsValidation(err) {
		t.Error("500 must not classify as validation")
	}

	// Transport failure: no response at all.
	srv.Close()
	_, err = c.CreateOrder(context.Background(), CreateOrderRequest{Description: "une commande valide"})
	var ae2 *APIError
	if err == nil || errors.As(err, &ae2) {
		t.Errorf("transport failure should not be an APIError, got %v", err)
	}
}

func TestClient_NotificationEndpoints(t *testing.T) {
	type call struct{ method, path string }
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		_, _ = w.Write([]byte(`{"notifications":[{"id":"n1","type":"ORDER_CREATED","message":"Nouvelle commande","isRead":false}]}`))
	}))
	defer srv.Close()
	c := New(srv.URL)
	ctx := context.Background()

	ns, err := c.FetchNotifications(ctx)
	if err != nil || len(ns) != 1 || ns[0].Type != models.NotificationOrderCreated {
		t.Fatalf("fetch = %v, %v", ns, err)
	}
	if err := c.MarkNotificationRead(ctx, "n1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if err := c.DeleteAllNotifications(ctx); err != nil {
		t.Fatalf("delete all: %v", err)
	}

	want := []call{
		{http.MethodGet, "/notifications"},
		{http.MethodPatch, "/notifications/n1/read"},
		{http.MethodDelete, "/notifications"},
	}
	for i, w := range want {
		if calls[i] != w {
			t.Errorf("call %d = %v, want %v", i, calls[i], w)
		}
	}
}

func TestClient_UpdateOrderStatusBody(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"order":{"id":"o1","status":"delivered"}}`))
	}))
	defer srv.Close()
	c := New(srv.URL)

	o, err := c.UpdateOrderStatus(context.Background(), "o1", models.OrderStatusDelivered, &Location{Lat: 6.37, Lng: 2.39}, "123456")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if got["status"] != "DELIVERED" || got["deliveryCode"] != "123456" {
		t.Errorf("body = %v, want status DELIVERED and code 123456", got)
	}
	if _, ok := got["deliveryLocation"]; !ok {
		t.Error("deliveryLocation missing from body")
	}
	// Lowercase backend status is canonicalized on the way in.
	if o.Status != models.OrderStatusDelivered {
		t.Errorf("status = %s, want DELIVERED", o.Status)
	}
}

func TestClient_UnknownStatusKeptRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"order":{"id":"o1","status":"EXPEDITED"}}`))
	}))
	defer srv.Close()
	c := New(srv.URL)

	o, err := c.GetOrder(context.Background(), "o1")
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if string(o.Status) != "EXPEDITED" {
		t.Errorf("status = %q, want raw EXPEDITED for defensive rendering", o.Status)
	}
}
