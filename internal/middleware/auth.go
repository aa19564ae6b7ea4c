package middleware

import (
	"context"
	"net/http"
	"strings"

	"coursemarket/internal/api/httpx"
	"coursemarket/internal/auth"
)

type ctxKey string

const ctxPrincipalKey ctxKey = "principal"

// Principal returns the authenticated caller identity from the request
// context.
func Principal(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxPrincipalKey).(string)
	return v, ok
}

type AuthMiddleware struct {
	TM     *auth.TokenManager
	AppEnv string
}

func NewAuthMiddleware(tm *auth.TokenManager, appEnv string) *AuthMiddleware {
	return &AuthMiddleware{TM: tm, AppEnv: appEnv}
}

// Auth resolves the caller principal from a Bearer token. In dev,
// `Bearer dev-<id>` is accepted as identity <id>.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token", nil)
			return
		}
		token := strings.TrimSpace(ah[len("Bearer "):])

		if m.AppEnv == "dev" && strings.HasPrefix(token, "dev-") {
			principal := strings.TrimPrefix(token, "dev-")
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxPrincipalKey, principal)))
			return
		}

		claims, err := m.TM.Parse(token)
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid token", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxPrincipalKey, claims.UserID)))
	})
}
