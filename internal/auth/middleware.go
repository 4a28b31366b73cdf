package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"tour-booking/internal/logger"
	"tour-booking/internal/utils"
)

type contextKey string

const (
	userIDKey contextKey = "user_id"
	roleKey   contextKey = "role"
)

// Middleware guards admin routes with HS256 bearer tokens whose role claim
// equals role. With an empty secret every request passes through.
func Middleware(secret, role string, log *logger.Logger) func(http.Handler) http.Handler {
	if secret == "" {
		log.Warn("AUTH", "ADMIN_JWT_SECRET not set; admin routes are unauthenticated")
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawToken, err := ExtractTokenFromRequest(r)
			if err != nil {
				log.LogSecurity("UNAUTHORIZED", fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, err))
				utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorBody{Error: err.Error()})
				return
			}

			claims, err := ParseToken(secret, rawToken)
			if err != nil {
				log.LogSecurity("UNAUTHORIZED", fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, err))
				utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorBody{Error: "invalid token"})
				return
			}

			if claims.Role != role {
				log.LogSecurity("FORBIDDEN", fmt.Sprintf("%s %s: subject %s has role %q", r.Method, r.URL.Path, claims.Subject, claims.Role))
				utils.WriteJSON(w, http.StatusForbidden, utils.ErrorBody{Error: "admin role required"})
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
			ctx = context.WithValue(ctx, roleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParseToken verifies signature, algorithm and expiry.
func ParseToken(secret, rawToken string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(rawToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Helper to extract user ID in handlers
func UserID(ctx context.Context) string {
	if uid, ok := ctx.Value(userIDKey).(string); ok {
		return uid
	}
	return ""
}

func Role(ctx context.Context) string {
	if role, ok := ctx.Value(roleKey).(string); ok {
		return role
	}
	return ""
}
