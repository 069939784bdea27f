package web

import (
	"encoding/json"
	"log"
	"net/http"

	"deliveryPortal/internal/api"
	"deliveryPortal/internal/routing"
	"deliveryPortal/internal/session"
	"deliveryPortal/models"
)

// roleHome maps a role to its landing route after login.
var roleHome = map[models.Role]string{
	models.RoleAdmin:   "/admin/dashboard",
	models.RoleClient:  "/client/dashboard",
	models.RoleLivreur: "/livreur/dashboard",
}

type sessionView struct {
	UserID   string      `json:"userId"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
	Verified bool        `json:"verified,omitempty"`
	Home     string      `json:"home"`
}

func viewOf(s *session.Session) sessionView {
	return sessionView{
		UserID:   s.UserID,
		Name:     s.Name,
		Role:     s.Role,
		Verified: s.Verified,
		Home:     roleHome[s.Role],
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		badRequest(w, "corps de requête invalide")
		return
	}
	if creds.Email == "" || creds.Password == "" {
		badRequest(w, "email et mot de passe requis")
		return
	}

	sess, err := s.sessions.Login(r.Context(), creds)
	if err != nil {
		// A 401 here is bad credentials, not an expired session.
		if api.IsUnauthorized(err) {
			writeError(w, http.StatusUnauthorized, "BAD_CREDENTIALS", "email ou mot de passe incorrect")
			return
		}
		writeBackendError(w, err)
		return
	}

	// Warm the stores for the fresh session. Both loads are advisory:
	// failures degrade to empty views that fill in as events arrive.
	s.notifications.ClearLocal()
	s.notifications.Load(r.Context())
	if err := s.refreshOrders(r); err != nil {
		log.Printf("login: initial order refresh failed: %v", err)
	}

	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Logout()
	s.notifications.ClearLocal()
	writeJSON(w, http.StatusOK, map[string]string{"redirect": routing.RouteLogin})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "corps de requête invalide")
		return
	}
	res, err := s.api.Register(r.Context(), req)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res.User)
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		badRequest(w, "email requis")
		return
	}
	if err := s.api.ForgotPassword(r.Context(), body.Email); err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "email de réinitialisation envoyé"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ResetToken  string `json:"resetToken"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ResetToken == "" || body.NewPassword == "" {
		badRequest(w, "jeton et nouveau mot de passe requis")
		return
	}
	if err := s.api.ResetPassword(r.Context(), body.ResetToken, body.NewPassword); err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "mot de passe réinitialisé"})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.CurrentPassword == "" || body.NewPassword == "" {
		badRequest(w, "mot de passe actuel et nouveau requis")
		return
	}
	if err := s.api.ChangePassword(r.Context(), body.CurrentPassword, body.NewPassword); err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "mot de passe modifié"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	writeJSON(w, http.StatusOK, viewOf(sess))
}
