// Package access carries the acting identity through a request and answers
// the capability questions the services ask about it.
package access

import (
	"context"

	"github.com/AurelieMous/projet-zombieland/internal/models"
)

type Actor struct {
	UserID uint
	Role   models.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanAccess reports whether the actor may read or act on a resource owned
// by ownerID.
func (a Actor) CanAccess(ownerID uint) bool {
	return a.IsAdmin() || a.UserID == ownerID
}

type contextKey string

const actorKey contextKey = "actor"

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey).(Actor)
	return a, ok
}
