package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"deliveryPortal/internal/api"
	"deliveryPortal/models"
)

// handleAdminDashboard summarizes the platform from the order store: counts
// per lifecycle stage plus the most recent orders.
func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	if err := s.refreshOrders(r); err != nil {
		writeBackendError(w, err)
		return
	}

	list := s.orders.List()
	counts := map[models.OrderStatus]int{}
	for _, o := range list {
		counts[o.Status]++
	}

	recent := list
	if len(recent) > 5 {
		recent = recent[:5]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalOrders":  len(list),
		"pending":      counts[models.OrderStatusPending],
		"assigned":     counts[models.OrderStatusAssigned],
		"inDelivery":   counts[models.OrderStatusInDelivery],
		"delivered":    counts[models.OrderStatusDelivered] + counts[models.OrderStatusReceived],
		"cancelled":    counts[models.OrderStatusCancelled],
		"recentOrders": recent,
	})
}

func (s *Server) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	filters := api.OrderFilters{
		Status:    r.URL.Query().Get("status"),
		LivreurID: r.URL.Query().Get("livreurId"),
	}

	list, err := s.api.ListOrders(r.Context(), filters)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	// Only the unfiltered view is a full snapshot the store may adopt.
	if filters == (api.OrderFilters{}) {
		s.orders.Replace(r.Context(), list)
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": list})
}

// handleOrderDetail serves a single order for any role. The backend enforces
// ownership; the portal just relays its answer.
func (s *Server) handleOrderDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, err := s.api.GetOrder(r.Context(), id)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	s.orders.Upsert(r.Context(), *o)
	writeJSON(w, http.StatusOK, map[string]any{"order": o})
}

func (s *Server) handleAdminAssign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body struct {
		LivreurID string `json:"livreurId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.LivreurID == "" {
		badRequest(w, "identifiant du livreur requis")
		return
	}

	o, err := s.api.AssignOrder(r.Context(), id, body.LivreurID)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	s.orders.Upsert(r.Context(), *o)
	writeJSON(w, http.StatusOK, map[string]any{"order": o})
}

// handleCancelOrder serves both the admin and client cancel buttons. The
// legality gate runs here so an out-of-window cancel never reaches the
// backend.
func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if current, ok := s.orders.Get(id); ok {
		if !models.IsLegalTransition(current.Status, models.OrderStatusCancelled) {
			badRequest(w, "cette commande ne peut plus être annulée")
			return
		}
	}

	o, err := s.api.UpdateOrderStatus(r.Context(), id, models.OrderStatusCancelled, nil, "")
	if err != nil {
		writeBackendError(w, err)
		return
	}
	s.orders.Upsert(r.Context(), *o)
	writeJSON(w, http.StatusOK, map[string]any{"order": o})
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	role := models.NormalizeRole(r.URL.Query().Get("role"))
	users, err := s.api.ListUsers(r.Context(), role)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) handleAdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var req api.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "corps de requête invalide")
		return
	}
	if req.Role != "" && !req.Role.Valid() {
		badRequest(w, "rôle inconnu: "+string(req.Role))
		return
	}

	u, err := s.api.CreateUser(r.Context(), req)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"user": u})
}

func (s *Server) handleAdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req api.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "corps de requête invalide")
		return
	}

	u, err := s.api.UpdateUser(r.Context(), id, req)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (s *Server) handleAdminUserStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body struct {
		Active *bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Active == nil {
		badRequest(w, "champ active requis")
		return
	}

	if err := s.api.SetUserActive(r.Context(), id, *body.Active); err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "active": *body.Active})
}

func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.api.DeleteUser(r.Context(), id); err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}
