package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"deliveryPortal/internal/routing"
	"deliveryPortal/internal/session"
	"deliveryPortal/models"
)

func (s *Server) handleNotificationsList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": s.notifications.List(),
		"unreadCount":   s.notifications.UnreadCount(),
	})
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"unreadCount": s.notifications.UnreadCount()})
}

// handleNotificationOpen is the click path: mark the notification read, then
// resolve where this role navigates for this notification type. An unmapped
// (type, role) pair yields no target and the client stays put.
func (s *Server) handleNotificationOpen(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var opened *models.Notification
	for _, n := range s.notifications.List() {
		if n.ID == id {
			found := n
			opened = &found
			break
		}
	}
	if opened == nil {
		notFound(w, "notification introuvable")
		return
	}

	s.notifications.MarkRead(id)
	opened.IsRead = true

	sess, _ := session.FromContext(r.Context())
	target := routing.ResolveTarget(opened.Type, sess.Role)
	writeJSON(w, http.StatusOK, map[string]any{
		"notification": opened,
		"target":       target,
		"navigate":     target != "",
	})
}

func (s *Server) handleNotificationRead(w http.ResponseWriter, r *http.Request) {
	s.notifications.MarkRead(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, map[string]int{"unreadCount": s.notifications.UnreadCount()})
}

func (s *Server) handleNotificationDismiss(w http.ResponseWriter, r *http.Request) {
	s.notifications.Remove(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, map[string]int{"unreadCount": s.notifications.UnreadCount()})
}

func (s *Server) handleNotificationsClear(w http.ResponseWriter, r *http.Request) {
	s.notifications.ClearAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"notifications": []models.Notification{}})
}
