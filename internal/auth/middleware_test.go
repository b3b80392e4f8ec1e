package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/AurelieMous/projet-zombieland/internal/access"
	"github.com/AurelieMous/projet-zombieland/internal/models"
	"github.com/AurelieMous/projet-zombieland/internal/testutil"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type whoAmIResponse struct {
	Body struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
}

func whoAmI(ctx context.Context, _ *struct{}) (*whoAmIResponse, error) {
	res := &whoAmIResponse{}
	if actor, ok := access.FromContext(ctx); ok {
		res.Body.UserID = actor.UserID
		res.Body.Role = string(actor.Role)
	}
	return res, nil
}

func newTestAPI(t *testing.T, h *AuthHandler) humatest.TestAPI {
	_, api := humatest.New(t)
	api.UseMiddleware(h.Middleware)

	huma.Register(api, huma.Operation{OperationID: "public", Method: http.MethodGet, Path: "/public"}, whoAmI)
	huma.Register(api, huma.Operation{
		OperationID: "private",
		Method:      http.MethodGet,
		Path:        "/private",
		Middlewares: huma.Middlewares{RequireActor(api)},
	}, whoAmI)
	huma.Register(api, huma.Operation{
		OperationID: "admin",
		Method:      http.MethodGet,
		Path:        "/admin",
		Middlewares: huma.Middlewares{RequireAdmin(api)},
	}, whoAmI)
	return api
}

func signToken(t *testing.T, userID uint, ttl time.Duration) string {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    "CLIENT",
		"exp":     time.Now().Add(ttl).Unix(),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tokenString
}

func authCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	return nil
}

func TestMiddleware_ResolvesActor(t *testing.T) {
	h, db := newHandler(t)
	api := newTestAPI(t, h)
	client := testutil.CreateUser(t, db, "Maggie", models.RoleClient)
	admin := testutil.CreateUser(t, db, "Hershel", models.RoleAdmin)

	clientToken, err := h.GenerateToken(client)
	require.NoError(t, err)
	adminToken, err := h.GenerateToken(admin)
	require.NoError(t, err)

	t.Run("Bearer", func(t *testing.T) {
		resp := api.Get("/private", "Authorization: Bearer "+clientToken)
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			UserID uint   `json:"user_id"`
			Role   string `json:"role"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, client.ID, body.UserID)
		assert.Equal(t, "CLIENT", body.Role)
	})

	t.Run("Cookie", func(t *testing.T) {
		resp := api.Get("/private", "Cookie: "+CookieName+"="+clientToken)
		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("Anonymous", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, api.Get("/public").Code)
		assert.Equal(t, http.StatusUnauthorized, api.Get("/private").Code)
		assert.Equal(t, http.StatusUnauthorized, api.Get("/admin").Code)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, api.Get("/public", "Authorization: Bearer nope").Code)
		assert.Equal(t, http.StatusUnauthorized, api.Get("/private", "Authorization: Bearer nope").Code)
	})

	t.Run("AdminGate", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, api.Get("/admin", "Authorization: Bearer "+clientToken).Code)
		assert.Equal(t, http.StatusOK, api.Get("/admin", "Authorization: Bearer "+adminToken).Code)
	})

	t.Run("RoleFromStore", func(t *testing.T) {
		// token still says CLIENT
		require.NoError(t, db.Model(&client).Update("role", models.RoleAdmin).Error)
		assert.Equal(t, http.StatusOK, api.Get("/admin", "Authorization: Bearer "+clientToken).Code)
	})

	t.Run("Deactivated", func(t *testing.T) {
		require.NoError(t, db.Model(&client).Update("is_active", false).Error)
		assert.Equal(t, http.StatusUnauthorized, api.Get("/private", "Authorization: Bearer "+clientToken).Code)
	})

	t.Run("DeletedUser", func(t *testing.T) {
		token := signToken(t, 999, time.Hour)
		assert.Equal(t, http.StatusUnauthorized, api.Get("/private", "Authorization: Bearer "+token).Code)
	})
}

func TestMiddleware_SlidingSession(t *testing.T) {
	h, db := newHandler(t)
	api := newTestAPI(t, h)
	user := testutil.CreateUser(t, db, "Negan", models.RoleClient)

	t.Run("TokenRenewed", func(t *testing.T) {
		// 11 hours left, less than half of the 24 hour lifetime
		tokenString := signToken(t, user.ID, 11*time.Hour)

		resp := api.Get("/private", "Cookie: "+CookieName+"="+tokenString)
		require.Equal(t, http.StatusOK, resp.Code)

		c := authCookie(resp.Result())
		require.NotNil(t, c, "expected new auth_token cookie to be set")
		assert.NotEqual(t, tokenString, c.Value)
		assert.True(t, c.HttpOnly)

		claims, err := h.ParseToken(c.Value)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("TokenNotRenewed", func(t *testing.T) {
		tokenString := signToken(t, user.ID, 13*time.Hour)

		resp := api.Get("/private", "Cookie: "+CookieName+"="+tokenString)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Nil(t, authCookie(resp.Result()))
	})

	t.Run("BearerNotRenewed", func(t *testing.T) {
		tokenString := signToken(t, user.ID, 11*time.Hour)

		resp := api.Get("/private", "Authorization: Bearer "+tokenString)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Nil(t, authCookie(resp.Result()))
	})
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer abc"))
	assert.Equal(t, "", bearerToken("Basic abc"))
	assert.Equal(t, "", bearerToken("abc"))
	assert.Equal(t, "xyz", cookieValue("theme=dark; auth_token=xyz"))
	assert.Equal(t, "", cookieValue("theme=dark"))
}
