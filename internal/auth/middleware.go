package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/AurelieMous/projet-zombieland/internal/access"
	"github.com/AurelieMous/projet-zombieland/internal/models"
	"github.com/danielgtaylor/huma/v2"
)

// Middleware resolves the caller from an Authorization bearer token or the
// auth_token cookie and stores it in the request context. Requests without
// valid credentials continue anonymously; RequireActor and RequireAdmin
// reject them on the operations that need a caller.
func (h *AuthHandler) Middleware(ctx huma.Context, next func(huma.Context)) {
	tokenString, fromCookie := bearerToken(ctx.Header("Authorization")), false
	if tokenString == "" {
		tokenString = cookieValue(ctx.Header("Cookie"))
		fromCookie = tokenString != ""
	}
	if tokenString == "" {
		next(ctx)
		return
	}

	claims, err := h.ParseToken(tokenString)
	if err != nil {
		next(ctx)
		return
	}

	// The role comes from the store so a demotion or deactivation applies
	// to tokens already issued.
	var user models.User
	if err := h.db.WithContext(ctx.Context()).First(&user, claims.UserID).Error; err != nil || !user.IsActive {
		next(ctx)
		return
	}

	// Sliding session: refresh the cookie once past half its lifetime
	if fromCookie && time.Until(claims.ExpiresAt) < h.cfg.TokenTTL/2 {
		if newToken, err := h.GenerateToken(user); err == nil {
			cookie := h.cookie(newToken)
			ctx.AppendHeader("Set-Cookie", cookie.String())
		}
	}

	actor := access.Actor{UserID: user.ID, Role: user.Role}
	next(huma.WithContext(ctx, access.WithActor(ctx.Context(), actor)))
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func cookieValue(header string) string {
	if header == "" {
		return ""
	}
	cookies, err := http.ParseCookie(header)
	if err != nil {
		return ""
	}
	for _, c := range cookies {
		if c.Name == CookieName {
			return c.Value
		}
	}
	return ""
}

// RequireActor rejects anonymous requests with 401.
func RequireActor(api huma.API) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if _, ok := access.FromContext(ctx.Context()); !ok {
			huma.WriteErr(api, ctx, http.StatusUnauthorized, "authentication required")
			return
		}
		next(ctx)
	}
}

// RequireAdmin rejects anonymous requests with 401 and non-admins with 403.
func RequireAdmin(api huma.API) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		actor, ok := access.FromContext(ctx.Context())
		if !ok {
			huma.WriteErr(api, ctx, http.StatusUnauthorized, "authentication required")
			return
		}
		if !actor.IsAdmin() {
			huma.WriteErr(api, ctx, http.StatusForbidden, "admin role required")
			return
		}
		next(ctx)
	}
}
