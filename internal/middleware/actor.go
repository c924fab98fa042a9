package middleware

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gandalf/internal/domain"
)

type contextKey string

const actorKey contextKey = "actor"

const (
	HeaderUserID = "X-User-Id"
	HeaderRole   = "X-User-Role"
)

// Actor trusts the identity headers set by the upstream auth layer (token
// verification is not this service's job) and attaches a domain.Actor to the
// request context. Absent or malformed headers yield an anonymous USER
// actor; admin-only operations reject it downstream.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := domain.Actor{Role: domain.RoleUser}

		if id, err := primitive.ObjectIDFromHex(r.Header.Get(HeaderUserID)); err == nil {
			actor.UserID = id
		}
		if r.Header.Get(HeaderRole) == string(domain.RoleAdmin) {
			actor.Role = domain.RoleAdmin
		}

		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ActorFromContext(ctx context.Context) domain.Actor {
	if actor, ok := ctx.Value(actorKey).(domain.Actor); ok {
		return actor
	}
	return domain.Actor{Role: domain.RoleUser}
}
