package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/contracts-service/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRevocations struct {
	revoked bool
	err     error
}

func (f fakeRevocations) IsRevoked(context.Context, *auth.Claims) (bool, error) {
	return f.revoked, f.err
}

func token(t *testing.T, claims auth.Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return signed
}

func newRouter(revocations RevocationChecker) *gin.Engine {
	router := gin.New()
	group := router.Group("/", Auth(auth.NewParser("secret"), revocations, zerolog.Nop()))
	group.GET("/contracts", RequirePermission("get_all_contracts"), func(c *gin.Context) {
		principal, ok := MustPrincipal(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, principal.UserID.String())
	})
	return router
}

func call(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/contracts", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuth(t *testing.T) {
	user := uuid.New()
	granted := token(t, auth.Claims{UserID: user.String(), Permissions: []string{"get_all_contracts"}})
	denied := token(t, auth.Claims{UserID: user.String(), Permissions: []string{"view_contract"}})
	superadmin := token(t, auth.Claims{UserID: user.String(), IsSuperadmin: true})

	tests := []struct {
		name          string
		authorization string
		revocations   RevocationChecker
		wantStatus    int
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", authorization: "Basic " + granted, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authorization: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "granted", authorization: "Bearer " + granted, wantStatus: http.StatusOK},
		{name: "lowercase scheme", authorization: "bearer " + granted, wantStatus: http.StatusOK},
		{name: "lacks permission", authorization: "Bearer " + denied, wantStatus: http.StatusForbidden},
		{name: "superadmin", authorization: "Bearer " + superadmin, wantStatus: http.StatusOK},
		{name: "revoked", authorization: "Bearer " + granted, revocations: fakeRevocations{revoked: true}, wantStatus: http.StatusUnauthorized},
		{name: "revocation store down", authorization: "Bearer " + granted, revocations: fakeRevocations{err: errors.New("down")}, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(newRouter(tt.revocations), tt.authorization)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, user.String(), rec.Body.String())
			}
		})
	}
}
