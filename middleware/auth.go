// Package middleware holds the HTTP middleware of the server.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type userIDKey struct{}

// WithUserID returns a copy of ctx carrying the authenticated user id
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the user id set by Authenticate
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey{}).(string)
	return userID, ok && userID != ""
}

// Authenticate validates an HMAC signed bearer token and stores the value of
// userClaim (for example "cognito:username") as the request's user id.
func Authenticate(secret []byte, userClaim string, log *zap.Logger) mux.MiddlewareFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				unauthorized(w)
				return
			}

			claims := jwt.MapClaims{}
			_, err := parser.ParseWithClaims(strings.TrimSpace(token), claims, func(*jwt.Token) (interface{}, error) {
				return secret, nil
			})
			if err != nil {
				log.Debug("token rejected", zap.String("path", r.URL.Path), zap.Error(err))
				unauthorized(w)
				return
			}

			userID, _ := claims[userClaim].(string)
			if userID == "" {
				log.Debug("token without user claim", zap.String("claim", userClaim))
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`"Unauthorized"`))
}
