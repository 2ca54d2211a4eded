package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/playperu/monopoly/internal/auth"
)

type ctxKey int

const ctxKeyUser ctxKey = iota

// bearerAuth resolves the access token in the Authorization header.
func bearerAuth(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !found || token == "" {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			user, err := svc.VerifyAccess(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userFrom(r *http.Request) auth.User {
	return r.Context().Value(ctxKeyUser).(auth.User)
}
