package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/levelup-hub/learning-hub/internal/domain/shared"
	"github.com/levelup-hub/learning-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATION
// ══════════════════════════════════════════════════════════════════════════════

const contextKeyActor contextKey = "actor"

// AccessClaims is the JWT claims layout issued by the identity service.
// Roles are carried as upper-case strings matching shared.Role values.
type AccessClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// authMiddleware resolves the caller identity from the Authorization header.
// A missing or absent header yields an anonymous actor; a present but
// invalid token is rejected so a client never silently loses its identity.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r.WithContext(withActor(r.Context(), shared.Anonymous())))
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "invalid_token", "Authorization header must use the Bearer scheme")
			return
		}

		actor, err := s.parseToken(tokenString)
		if err != nil {
			s.logger.Debug("token rejected", logger.Err(err))
			writeJSONError(w, http.StatusUnauthorized, "invalid_token", "Token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r.WithContext(withActor(r.Context(), actor)))
	})
}

// parseToken validates the JWT and extracts the actor.
func (s *Server) parseToken(tokenString string) (shared.Actor, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return shared.Actor{}, err
	}
	if !token.Valid || claims.Subject == "" {
		return shared.Actor{}, jwt.ErrTokenInvalidClaims
	}

	roles := make([]shared.Role, 0, len(claims.Roles))
	for _, raw := range claims.Roles {
		role := shared.Role(strings.ToUpper(raw))
		if role.IsValid() {
			roles = append(roles, role)
		}
	}

	return shared.Actor{
		UserID: claims.Subject,
		Roles:  roles,
	}, nil
}

// withActor stores the actor in the request context.
func withActor(ctx context.Context, actor shared.Actor) context.Context {
	return context.WithValue(ctx, contextKeyActor, actor)
}

// actorFrom extracts the actor from the request.
// Requests that bypassed the auth middleware are anonymous.
func actorFrom(r *http.Request) shared.Actor {
	if actor, ok := r.Context().Value(contextKeyActor).(shared.Actor); ok {
		return actor
	}
	return shared.Anonymous()
}
