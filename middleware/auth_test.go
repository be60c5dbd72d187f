package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var secret = []byte("test-secret")

func signed(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func serve(t *testing.T, authorization string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var seen string
	handler := Authenticate(secret, "cognito:username", zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthenticate(t *testing.T) {
	token := signed(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
		"cognito:username": "alice",
		"exp":              time.Now().Add(time.Hour).Unix(),
	})

	rec, userID := serve(t, "Bearer "+token)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "alice", userID)
}

func TestAuthenticateRejects(t *testing.T) {
	tests := map[string]string{
		"missing_header": "",
		"wrong_scheme":   "Basic " + signed(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{"cognito:username": "alice"}),
		"wrong_secret":   "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"cognito:username": "alice"}),
		"expired": "Bearer " + signed(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
			"cognito:username": "alice",
			"exp":              time.Now().Add(-time.Hour).Unix(),
		}),
		"missing_claim": "Bearer " + signed(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{"sub": "alice"}),
		"none_alg":      "Bearer " + signed(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"cognito:username": "alice"}),
		"garbage":       "Bearer not-a-token",
	}

	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			rec, userID := serve(t, header)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Empty(t, userID)
			require.JSONEq(t, `"Unauthorized"`, rec.Body.String())
		})
	}
}

func TestRequestLogger(t *testing.T) {
	handler := RequestLogger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
}
