package middleware

import (
	"net/http"
)

const operatorSecretHeader = "X-Mpdb-Operator-Secret"

// RequireOperatorSecret returns a middleware that requires X-Mpdb-Operator-Secret
// to match the given secret. If secret is empty, all requests are rejected with 401.
// The session/login surface in front of this service decides who holds the secret;
// the gateway only needs the yes/no answer this header provides.
func RequireOperatorSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"operator API not configured (MPDB_OPERATOR_SECRET)"}`))
				return
			}
			if r.Header.Get(operatorSecretHeader) != secret {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"invalid or missing operator secret"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
