package api

import (
	"context"

	"github.com/rpupo63/realestate-site/models"
	"github.com/rpupo63/realestate-site/session"
)

type keyType string

const (
	sessionKey keyType = "session"
)

// ctxWithSession adds the admin session to the context
func ctxWithSession(ctx context.Context, state session.State) context.Context {
	return context.WithValue(ctx, sessionKey, state)
}

// ctxGetSession retrieves the admin session from the context
func ctxGetSession(ctx context.Context) (session.State, bool) {
	state, ok := ctx.Value(sessionKey).(session.State)
	return state, ok
}

// ctxGetUser returns the signed-in user, or nil on public requests
func ctxGetUser(ctx context.Context) *models.User {
	state, ok := ctxGetSession(ctx)
	if !ok || !state.IsAuthenticated {
		return nil
	}
	return &state.User
}
