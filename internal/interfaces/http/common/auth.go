package common

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

type contextKey string

const authUserContextKey contextKey = "authUser"

// AuthenticatedUser represents the JWT-derived survey author.
type AuthenticatedUser struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
}

// ContextWithUser stores the authenticated user into context.
func ContextWithUser(ctx context.Context, user AuthenticatedUser) context.Context {
	return context.WithValue(ctx, authUserContextKey, user)
}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) (AuthenticatedUser, bool) {
	user, ok := ctx.Value(authUserContextKey).(AuthenticatedUser)
	return user, ok
}

// RequireUser は認証済みユーザーを取り出し、存在しなければ 401 を書き込んで false を返す。
func RequireUser(logger *zap.Logger, w http.ResponseWriter, r *http.Request) (AuthenticatedUser, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok || user.ID == "" {
		WriteError(logger, w, http.StatusUnauthorized, "認証が必要です")
		return AuthenticatedUser{}, false
	}
	return user, true
}
