package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shandysiswandi/twofa/internal/pkg/jwt"
)

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, challenge, msg string) {
	w.Header().Set("WWW-Authenticate", challenge)
	writeJSON(w, errorResponse{Message: msg}, http.StatusUnauthorized)
}

func middlewareAuthentication(verifier jwt.JWT, publicEndpoints map[string]map[string]struct{}) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, public := publicEndpoints[r.Method][matchedRoutePath(r)]; public {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, `Bearer`, "Authentication required")
				return
			}

			claims, err := verifier.Verify(token)
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				unauthorized(w, `Bearer error="invalid_token", error_description="token expired"`, "Token has expired")
				return
			case err != nil:
				unauthorized(w, `Bearer error="invalid_token"`, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(jwt.SetAuth(r.Context(), claims)))
		})
	}
}
