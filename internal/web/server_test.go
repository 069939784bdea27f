package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"deliveryPortal/internal/api"
	"deliveryPortal/internal/notify"
	"deliveryPortal/internal/orders"
	"deliveryPortal/internal/realtime"
	"deliveryPortal/internal/session"
	"deliveryPortal/internal/testutil"
	"deliveryPortal/models"
)

const testSecret = "portal-test-secret"

// fakeBackend imitates the delivery API for handler tests, recording the
// requests it sees.
type fakeBackend struct {
	mu       sync.Mutex
	requests []string // "METHOD path"
	orders   []models.Order
	role     string
}

func (b *fakeBackend) record(r *http.Request) {
	b.mu.Lock()
	b.requests = append(b.requests, r.Method+" "+r.URL.Path)
	b.mu.Unlock()
}

func (b *fakeBackend) hits(prefix string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, req := range b.requests {
		if strings.HasPrefix(req, prefix) {
			n++
		}
	}
	return n
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		path := r.URL.Path
		switch {
		case r.Method == http.MethodPost && path == "/auth/login":
			token := testutil.GenerateToken(t, testSecret, "user-1", "Testeur", b.role, true, time.Hour)
			writeBody(w, http.StatusOK, map[string]any{
				"token": token,
				"user":  models.User{ID: "user-1", Name: "Testeur", Role: models.Role(b.role)},
			})
		case r.Method == http.MethodGet && path == "/orders":
			b.mu.Lock()
			list := b.orders
			b.mu.Unlock()
			writeBody(w, http.StatusOK, map[string]any{"orders": list})
		case r.Method == http.MethodPost && path == "/orders":
			var req api.CreateOrderRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			writeBody(w, http.StatusCreated, map[string]any{"order": models.Order{
				ID:              "ord-new",
				Status:          models.OrderStatusPending,
				Description:     req.Description,
				DeliveryAddress: req.DeliveryAddress,
				CreatedAt:       time.Now(),
			}})
		case r.Method == http.MethodPatch && strings.HasPrefix(path, "/orders/") && strings.HasSuffix(path, "/status"):
			id := strings.TrimSuffix(strings.TrimPrefix(path, "/orders/"), "/status")
			var body struct {
				Status string `json:"status"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			writeBody(w, http.StatusOK, map[string]any{"order": models.Order{
				ID:        id,
				Status:    models.OrderStatus(body.Status),
				CreatedAt: time.Now(),
			}})
		case r.Method == http.MethodGet && path == "/notifications":
			writeBody(w, http.StatusOK, map[string]any{"notifications": []models.Notification{}})
		default:
			writeBody(w, http.StatusOK, map[string]any{})
		}
	})
}

func writeBody(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type portalFixture struct {
	backend  *fakeBackend
	router   http.Handler
	sessions *session.Manager
	orders   *orders.Store
	notifs   *notify.Store
}

func newPortal(t *testing.T, role string) *portalFixture {
	t.Helper()
	backend := &fakeBackend{role: role}
	srv := httptest.NewServer(backend.handler(t))
	t.Cleanup(srv.Close)

	client := api.New(srv.URL)
	sessions := session.NewManager(client, testSecret)
	notifStore := notify.NewStore(client)
	orderStore := orders.NewStore(nil)
	server := NewServer(client, sessions, notifStore, orderStore)

	return &portalFixture{
		backend:  backend,
		router:   server.Routes(),
		sessions: sessions,
		orders:   orderStore,
		notifs:   notifStore,
	}
}

func (f *portalFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *portalFixture) login(t *testing.T) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/login", map[string]string{
		"email": "test@example.com", "password": "secret123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func TestGuardedRouteWithoutSessionRedirectsToLogin(t *testing.T) {
	f := newPortal(t, "client")

	rec := f.do(t, http.MethodGet, "/client/dashboard", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env["redirect"] != "/login" {
		t.Errorf("redirect = %v, want /login", env["redirect"])
	}
}

func TestRoleGuardRejectsOtherRoles(t *testing.T) {
	f := newPortal(t, "client")
	f.login(t)

	for _, path := range []string{"/admin/dashboard", "/livreur/dashboard"} {
		rec := f.do(t, http.MethodGet, path, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s as client: status = %d, want 403", path, rec.Code)
		}
	}
	if rec := f.do(t, http.MethodGet, "/client/dashboard", nil); rec.Code != http.StatusOK {
		t.Errorf("own dashboard: status = %d, want 200", rec.Code)
	}
}

func TestLoginReturnsRoleHome(t *testing.T) {
	f := newPortal(t, "livreur")

	rec := f.do(t, http.MethodPost, "/login", map[string]string{
		"email": "liv@example.com", "password": "secret123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	data := env["data"].(map[string]any)
	if data["home"] != "/livreur/dashboard" {
		t.Errorf("home = %v, want /livreur/dashboard", data["home"])
	}
}

func TestCreateOrderShortDescriptionNeverReachesBackend(t *testing.T) {
	f := newPortal(t, "client")
	f.login(t)
	before := f.backend.hits("POST /orders")

	rec := f.do(t, http.MethodPost, "/client/orders", api.CreateOrderRequest{
		Description:     "trop bref", // 9 chars
		DeliveryAddress: "Rue 12, Cotonou",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := f.backend.hits("POST /orders"); got != before {
		t.Errorf("backend saw %d create calls, want %d", got, before)
	}
}

func TestCreateOrderAtMinimumLengthSucceeds(t *testing.T) {
	f := newPortal(t, "client")
	f.login(t)

	rec := f.do(t, http.MethodPost, "/client/orders", api.CreateOrderRequest{
		Description:     "dix caract", // exactly 10 chars
		DeliveryAddress: "Rue 12, Cotonou",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if _, ok := f.orders.Get("ord-new"); !ok {
		t.Errorf("created order not installed in store")
	}
}

func TestDeliverRejectsMalformedCodeClientSide(t *testing.T) {
	f := newPortal(t, "livreur")
	f.login(t)
	before := f.backend.hits("PATCH /orders")

	for _, code := range []string{"12345", "1234567", "12a456", ""} {
		rec := f.do(t, http.MethodPatch, "/livreur/orders/ord-9/deliver",
			map[string]string{"deliveryCode": code})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code %q: status = %d, want 400", code, rec.Code)
		}
	}
	if got := f.backend.hits("PATCH /orders"); got != before {
		t.Errorf("backend saw %d status calls, want %d", got, before)
	}
}

func TestDeliverWithValidCodeCallsBackend(t *testing.T) {
	f := newPortal(t, "livreur")
	f.login(t)
	f.orders.Replace(context.Background(), []models.Order{
		{ID: "ord-9", Status: models.OrderStatusInDelivery, CreatedAt: time.Now()},
	})

	rec := f.do(t, http.MethodPatch, "/livreur/orders/ord-9/deliver",
		map[string]string{"deliveryCode": "123456"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	o, ok := f.orders.Get("ord-9")
	if !ok || o.Status != models.OrderStatusDelivered {
		t.Errorf("order after deliver = %+v, want DELIVERED", o)
	}
}

func TestCancelBlockedOnceInDelivery(t *testing.T) {
	f := newPortal(t, "client")
	f.login(t)
	f.orders.Replace(context.Background(), []models.Order{
		{ID: "ord-5", Status: models.OrderStatusInDelivery, CreatedAt: time.Now()},
	})
	before := f.backend.hits("PATCH /orders")

	rec := f.do(t, http.MethodPatch, "/client/orders/ord-5/cancel", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("cancel in delivery: status = %d, want 400", rec.Code)
	}
	if got := f.backend.hits("PATCH /orders"); got != before {
		t.Errorf("illegal cancel reached the backend")
	}
}

func TestNotificationOpenResolvesRoleTarget(t *testing.T) {
	f := newPortal(t, "client")
	f.login(t)

	n := f.notifs.Ingest(realtime.Event{
		Name:       realtime.EventOrderStatusUpdate,
		Data:       realtime.EventData{Message: "commande en route", OrderID: "ord-7"},
		ReceivedAt: time.Now(),
	})

	rec := f.do(t, http.MethodPost, fmt.Sprintf("/notifications/%s/open", n.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("open: status = %d", rec.Code)
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["target"] != "/client/orders" {
		t.Errorf("target = %v, want /client/orders", data["target"])
	}
	if data["navigate"] != true {
		t.Errorf("navigate = %v, want true", data["navigate"])
	}
}

func TestNotificationOpenUnmappedPairDoesNotNavigate(t *testing.T) {
	// account-created maps for livreurs only; a client stays put.
	f := newPortal(t, "client")
	f.login(t)

	n := f.notifs.Ingest(realtime.Event{
		Name:       realtime.EventAccountCreated,
		Data:       realtime.EventData{Message: "Compte créé"},
		ReceivedAt: time.Now(),
	})

	rec := f.do(t, http.MethodPost, fmt.Sprintf("/notifications/%s/open", n.ID), nil)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["navigate"] != false {
		t.Errorf("navigate = %v, want false", data["navigate"])
	}
}

func TestLogoutTearsDownSession(t *testing.T) {
	f := newPortal(t, "client")
	f.login(t)

	if rec := f.do(t, http.MethodPost, "/logout", nil); rec.Code != http.StatusOK {
		t.Fatalf("logout: status = %d", rec.Code)
	}
	if _, ok := f.sessions.Current(); ok {
		t.Errorf("session still present after logout")
	}
	if rec := f.do(t, http.MethodGet, "/client/dashboard", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("dashboard after logout: status = %d, want 401", rec.Code)
	}
}
