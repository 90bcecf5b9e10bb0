package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ruralpay/ledger/internal/logger"
	"github.com/spf13/viper"
)

type contextKey string

const userIDKey contextKey = "userID"

// BlacklistKey is the Redis key marking a logged-out token.
func BlacklistKey(token string) string {
	return "blacklist:" + token
}

// Auth authenticates bearer tokens and puts the caller's user id on the request context.
type Auth struct {
	redis *redis.Client
	log   *logger.Logger
}

// NewAuth builds the middleware. redisClient may be nil, in which case logged-out tokens
// stay valid until they expire.
func NewAuth(redisClient *redis.Client, log *logger.Logger) *Auth {
	return &Auth{redis: redisClient, log: log}
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			unauthorized(w, "Authorization header required")
			return
		}

		if a.redis != nil {
			n, err := a.redis.Exists(r.Context(), BlacklistKey(token)).Result()
			if err != nil {
				a.log.Warn("[AUTH] blacklist lookup failed", "error", err)
			} else if n > 0 {
				unauthorized(w, "Token has been revoked")
				return
			}
		}

		userID, err := ParseToken(token)
		if err != nil {
			a.log.Debug("[AUTH] rejected token", "error", err, "path", r.URL.Path)
			unauthorized(w, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// ParseToken verifies an HS256 token signed with jwt.secret_key and returns its user_id claim.
func ParseToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(*jwt.Token) (any, error) {
		return []byte(viper.GetString("jwt.secret_key")), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("unexpected claims type")
	}
	raw, ok := claims["user_id"].(float64)
	if !ok || raw <= 0 {
		return 0, fmt.Errorf("invalid user_id claim %v", claims["user_id"])
	}
	return int64(raw), nil
}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated caller set by Auth.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message, "code": "UNAUTHORIZED"})
}
