package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"deliveryPortal/internal/api"
	"deliveryPortal/internal/orders"
	"deliveryPortal/models"
)

// handleClientDashboard shows the client's in-flight orders.
func (s *Server) handleClientDashboard(w http.ResponseWriter, r *http.Request) {
	if err := s.refreshOrders(r); err != nil {
		writeBackendError(w, err)
		return
	}
	active := s.orders.Active()
	writeJSON(w, http.StatusOK, map[string]any{
		"activeOrders": active,
		"activeCount":  len(active),
		"history":      s.orders.History(),
	})
}

func (s *Server) handleClientOrders(w http.ResponseWriter, r *http.Request) {
	if err := s.refreshOrders(r); err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": s.orders.List()})
}

// handleClientCreateOrder places an order. The description length gate runs
// before any backend call so a too-short description costs no round trip.
func (s *Server) handleClientCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req api.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "corps de requête invalide")
		return
	}
	if err := orders.ValidateDescription(req.Description); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.DeliveryAddress == "" {
		badRequest(w, "adresse de livraison requise")
		return
	}

	o, err := s.api.CreateOrder(r.Context(), req)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	s.orders.Upsert(r.Context(), *o)
	writeJSON(w, http.StatusCreated, map[string]any{"order": o})
}

// handleClientConfirm acknowledges receipt of a delivered order, the final
// lifecycle step.
func (s *Server) handleClientConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if current, ok := s.orders.Get(id); ok {
		if !models.IsLegalTransition(current.Status, models.OrderStatusReceived) {
			badRequest(w, "la commande n'est pas encore livrée")
			return
		}
	}

	o, err := s.api.ConfirmReceipt(r.Context(), id)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	s.orders.Upsert(r.Context(), *o)
	writeJSON(w, http.StatusOK, map[string]any{"order": o})
}
