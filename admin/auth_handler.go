package admin

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/freeeve/daide-client/admin/auth"
)

// authHandler serves the admin surface's login routes: Google OAuth for
// humans, and a dev-mode bypass for local fleet operation.
type authHandler struct {
	google *auth.GoogleProvider
	jwtMgr *auth.JWTManager
	log    zerolog.Logger
}

// googleLogin redirects to Google's OAuth2 consent screen.
func (h *authHandler) googleLogin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeJSONError(w, http.StatusNotFound, "google oauth is not configured")
		return
	}
	state := randomState()
	http.Redirect(w, r, h.google.LoginURL(state), http.StatusTemporaryRedirect)
}

// googleCallback exchanges the OAuth code for a profile and issues a JWT.
func (h *authHandler) googleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeJSONError(w, http.StatusNotFound, "google oauth is not configured")
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSONError(w, http.StatusBadRequest, "missing code parameter")
		return
	}

	info, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "oauth exchange failed: "+err.Error())
		return
	}

	token, err := h.jwtMgr.GenerateAccessToken(info.Email)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	writeJSONBody(w, http.StatusOK, map[string]string{"access_token": token})
}

// devLogin issues a token for any operator-supplied name, with no
// upstream identity check. Only reachable when DEV_MODE=true.
func (h *authHandler) devLogin(w http.ResponseWriter, r *http.Request) {
	if os.Getenv("DEV_MODE") != "true" {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "operator"
	}
	token, err := h.jwtMgr.GenerateAccessToken(name)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	writeJSONBody(w, http.StatusOK, map[string]string{"access_token": token})
}

func randomState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func writeJSONBody(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSONBody(w, status, map[string]string{"error": msg})
}
