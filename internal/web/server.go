// Package web serves the portal's role-scoped dashboard endpoints. Handlers
// are read-only consumers of the stores: they issue commands to the backend
// through the API client and let state changes flow back through the event
// bridge, never patching local state speculatively.
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"deliveryPortal/internal/api"
	"deliveryPortal/internal/notify"
	"deliveryPortal/internal/orders"
	"deliveryPortal/internal/session"
	"deliveryPortal/models"
)

// Server bundles the portal's dependencies behind the HTTP surface.
type Server struct {
	api           *api.Client
	sessions      *session.Manager
	notifications *notify.Store
	orders        *orders.Store
}

// NewServer wires the handlers to their dependencies.
func NewServer(client *api.Client, sessions *session.Manager, notifications *notify.Store, orderStore *orders.Store) *Server {
	return &Server{
		api:           client,
		sessions:      sessions,
		notifications: notifications,
		orders:        orderStore,
	}
}

// Routes builds the portal router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth endpoints live outside the session guard.
	r.Post("/login", s.handleLogin)
	r.Post("/register", s.handleRegister)
	r.Post("/forgot-password", s.handleForgotPassword)
	r.Post("/reset-password", s.handleResetPassword)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Post("/logout", s.handleLogout)
		r.Post("/change-password", s.handleChangePassword)
		r.Get("/me", s.handleMe)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", s.handleNotificationsList)
			r.Get("/unread-count", s.handleUnreadCount)
			r.Post("/{id}/open", s.handleNotificationOpen)
			r.Post("/{id}/read", s.handleNotificationRead)
			r.Post("/{id}/dismiss", s.handleNotificationDismiss)
			r.Delete("/", s.handleNotificationsClear)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireRole(models.RoleAdmin))
			r.Get("/dashboard", s.handleAdminDashboard)
			r.Get("/orders", s.handleAdminOrders)
			r.Get("/orders/{id}", s.handleOrderDetail)
			r.Patch("/orders/{id}/assign", s.handleAdminAssign)
			r.Patch("/orders/{id}/cancel", s.handleCancelOrder)
			r.Get("/users", s.handleAdminUsers)
			r.Post("/users", s.handleAdminCreateUser)
			r.Patch("/users/{id}", s.handleAdminUpdateUser)
			r.Patch("/users/{id}/status", s.handleAdminUserStatus)
			r.Delete("/users/{id}", s.handleAdminDeleteUser)
		})

		r.Route("/client", func(r chi.Router) {
			r.Use(requireRole(models.RoleClient))
			r.Get("/dashboard", s.handleClientDashboard)
			r.Get("/orders", s.handleClientOrders)
			r.Post("/orders", s.handleClientCreateOrder)
			r.Get("/orders/{id}", s.handleOrderDetail)
			r.Patch("/orders/{id}/confirm", s.handleClientConfirm)
			r.Patch("/orders/{id}/cancel", s.handleCancelOrder)
		})

		r.Route("/livreur", func(r chi.Router) {
			r.Use(requireRole(models.RoleLivreur))
			r.Get("/dashboard", s.handleLivreurDashboard)
			r.Get("/history", s.handleLivreurHistory)
			r.Get("/orders/{id}", s.handleOrderDetail)
			r.Patch("/orders/{id}/pickup", s.handleLivreurPickup)
			r.Patch("/orders/{id}/deliver", s.handleLivreurDeliver)
		})
	})

	return r
}

// refreshOrders pulls the authoritative order list and installs it in the
// store. Handlers call it before rendering so dashboards reflect the
// backend, with live events covering the gaps between refreshes.
func (s *Server) refreshOrders(r *http.Request) error {
	list, err := s.api.ListOrders(r.Context(), api.OrderFilters{})
	if err != nil {
		return err
	}
	s.orders.Replace(r.Context(), list)
	return nil
}
