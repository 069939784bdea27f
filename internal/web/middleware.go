package web

import (
	"errors"
	"net/http"

	"deliveryPortal/internal/api"
	"deliveryPortal/internal/routing"
	"deliveryPortal/internal/session"
	"deliveryPortal/models"
)

// requireSession injects the current session into the request context. With
// no session (never logged in, logged out, expired, or torn down by a 401
// from the backend) the client is pointed at the login route.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.sessions.Current()
		if !ok {
			writeRedirect(w, http.StatusUnauthorized, "UNAUTHORIZED", "session expirée, veuillez vous reconnecter", routing.RouteLogin)
			return
		}
		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
	})
}

// requireRole guards a subtree to one role.
func requireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok {
				writeRedirect(w, http.StatusUnauthorized, "UNAUTHORIZED", "session requise", routing.RouteLogin)
				return
			}
			if sess.Role != role {
				forbidden(w, "accès réservé au rôle "+string(role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeBackendError maps an API client error onto the portal response per
// the error taxonomy: 401s redirect to login (the session is already torn
// down), other 4xx surface the backend's message, 5xx and transport
// failures surface generically.
func writeBackendError(w http.ResponseWriter, err error) {
	if api.IsUnauthorized(err) {
		writeRedirect(w, http.StatusUnauthorized, "UNAUTHORIZED", "session expirée", routing.RouteLogin)
		return
	}
	var ae *api.APIError
	if api.IsValidation(err) && errors.As(err, &ae) {
		writeError(w, ae.Status, "BACKEND_REJECTED", ae.Message)
		return
	}
	if api.IsServer(err) {
		writeError(w, http.StatusBadGateway, "BACKEND_ERROR", "le serveur a rencontré une erreur, réessayez")
		return
	}
	writeError(w, http.StatusBadGateway, "BACKEND_UNREACHABLE", "impossible de joindre le serveur")
}
