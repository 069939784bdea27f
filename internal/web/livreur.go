package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"deliveryPortal/internal/api"
	"deliveryPortal/internal/geo"
	"deliveryPortal/internal/orders"
	"deliveryPortal/models"
)

// deliveryView decorates an order with distance info relative to the
// livreur's reported position.
type deliveryView struct {
	models.Order
	DistanceKm *float64 `json:"distanceKm,omitempty"`
	Arrived    bool     `json:"arrived,omitempty"`
}

// handleLivreurDashboard lists the livreur's active deliveries. When the
// query carries the livreur's position (?lat=&lng=), each delivery with
// coordinates gets its distance and an arrival hint.
func (s *Server) handleLivreurDashboard(w http.ResponseWriter, r *http.Request) {
	if err := s.refreshOrders(r); err != nil {
		writeBackendError(w, err)
		return
	}

	lat, lng, hasPos := positionFromQuery(r)

	active := s.orders.Active()
	views := make([]deliveryView, 0, len(active))
	for _, o := range active {
		v := deliveryView{Order: o}
		if hasPos && o.DeliveryLat != nil && o.DeliveryLng != nil {
			d := geo.HaversineKm(lat, lng, *o.DeliveryLat, *o.DeliveryLng)
			v.DistanceKm = &d
			v.Arrived = geo.IsWithinRadius(lat, lng, *o.DeliveryLat, *o.DeliveryLng, geo.ArrivalRadiusMeters)
		}
		views = append(views, v)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"deliveries": views,
		"mapCenter":  map[string]float64{"lat": geo.DefaultCenterLat, "lng": geo.DefaultCenterLng},
	})
}

func (s *Server) handleLivreurHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.refreshOrders(r); err != nil {
		writeBackendError(w, err)
		return
	}
	history := s.orders.History()
	delivered := 0
	for _, o := range history {
		if o.Status == models.OrderStatusDelivered || o.Status == models.OrderStatusReceived {
			delivered++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"orders":         history,
		"deliveredCount": delivered,
	})
}

// handleLivreurPickup moves an assigned order into IN_DELIVERY, reporting
// the pickup position when the livreur shared one.
func (s *Server) handleLivreurPickup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	// An empty body is fine: position is optional for pickup.
	_ = json.NewDecoder(r.Body).Decode(&body)

	if current, ok := s.orders.Get(id); ok {
		if !models.IsLegalTransition(current.Status, models.OrderStatusInDelivery) {
			badRequest(w, "cette commande ne peut pas être récupérée")
			return
		}
	}

	var loc *api.Location
	if body.Lat != nil && body.Lng != nil {
		loc = &api.Location{Lat: *body.Lat, Lng: *body.Lng}
	}

	o, err := s.api.UpdateOrderStatus(r.Context(), id, models.OrderStatusInDelivery, loc, "")
	if err != nil {
		writeBackendError(w, err)
		return
	}
	s.orders.Upsert(r.Context(), *o)
	writeJSON(w, http.StatusOK, map[string]any{"order": o})
}

// handleLivreurDeliver completes a delivery. The 6-digit code format is
// checked before the backend call; the backend still verifies the code's
// value.
func (s *Server) handleLivreurDeliver(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body struct {
		DeliveryCode string   `json:"deliveryCode"`
		Lat          *float64 `json:"lat"`
		Lng          *float64 `json:"lng"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "corps de requête invalide")
		return
	}
	if err := orders.ValidateDeliveryCode(body.DeliveryCode); err != nil {
		badRequest(w, err.Error())
		return
	}

	if current, ok := s.orders.Get(id); ok {
		if !models.IsLegalTransition(current.Status, models.OrderStatusDelivered) {
			badRequest(w, "cette commande n'est pas en cours de livraison")
			return
		}
	}

	var loc *api.Location
	if body.Lat != nil && body.Lng != nil {
		loc = &api.Location{Lat: *body.Lat, Lng: *body.Lng}
	}

	o, err := s.api.UpdateOrderStatus(r.Context(), id, models.OrderStatusDelivered, loc, body.DeliveryCode)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	s.orders.Upsert(r.Context(), *o)
	writeJSON(w, http.StatusOK, map[string]any{"order": o})
}

// positionFromQuery parses ?lat=&lng=, valid only when both parse.
func positionFromQuery(r *http.Request) (lat, lng float64, ok bool) {
	latStr := r.URL.Query().Get("lat")
	lngStr := r.URL.Query().Get("lng")
	if latStr == "" || lngStr == "" {
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lng, errLng := strconv.ParseFloat(lngStr, 64)
	if errLat != nil || errLng != nil {
		return 0, 0, false
	}
	return lat, lng, true
}
