package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/runoshun/taskdeck/internal/domain"
)

// DefaultTokenTTL is the lifetime of tokens minted by IssueToken callers
// that do not choose one.
const DefaultTokenTTL = 7 * 24 * time.Hour

// ErrNoSecret is returned when a token operation runs without a signing secret.
var ErrNoSecret = errors.New("jwt secret is not configured")

type contextKey string

const actorContextKey contextKey = "actor"

// IssueToken signs an HS256 token carrying the actor's ID and role.
func IssueToken(secret []byte, actor domain.Actor, now time.Time, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrNoSecret
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  actor.ID,
		"role": string(actor.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a token and returns the actor it names.
func ParseToken(secret []byte, tokenString string) (domain.Actor, error) {
	if len(secret) == 0 {
		return domain.Actor{}, ErrNoSecret
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return domain.Actor{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return domain.Actor{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Actor{}, errors.New("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return domain.Actor{}, errors.New("sub claim missing")
	}
	role, _ := claims["role"].(string)
	if !domain.Role(role).IsValid() {
		return domain.Actor{}, fmt.Errorf("invalid role claim: %q", role)
	}

	return domain.Actor{ID: sub, Role: domain.Role(role)}, nil
}

// ActorFromContext returns the actor stored by the auth middleware.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(domain.Actor)
	return actor, ok
}

// authMiddleware rejects requests without a valid bearer token and stores
// the token's actor in the request context.
type authMiddleware struct {
	logger domain.Logger
	secret []byte
}

func (m *authMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeMessage(w, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		authParts := strings.Split(authHeader, " ")
		if len(authParts) != 2 || authParts[0] != "Bearer" {
			writeMessage(w, http.StatusUnauthorized, "Not authorized, invalid authorization format")
			return
		}

		actor, err := ParseToken(m.secret, authParts[1])
		if err != nil {
			m.logger.Debug("", "http", err.Error())
			writeMessage(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		ctx := context.WithValue(r.Context(), actorContextKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
