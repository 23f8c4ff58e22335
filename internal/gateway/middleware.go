package gateway

import (
	"net/http"
	"strings"
)

// requireUser enforces a Bearer token whose user id matches the {userID}
// path segment. Tokens for one user never grant access to another's routes.
func (s *Server) requireUser(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		userID, err := s.auth.VerifyToken(tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		if userID != r.PathValue("userID") {
			writeError(w, http.StatusForbidden, "token does not match user")
			return
		}
		next(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	// WebSocket clients in browsers cannot set headers, so accept the
	// token as a query parameter on upgrade requests.
	return r.URL.Query().Get("token")
}
