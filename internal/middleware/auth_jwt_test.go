package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agora/internal/config"
	"agora/internal/domain/model"
	"agora/internal/middleware"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func testCfg() config.Config {
	return config.Config{JWTSecret: "test-secret"}
}

func signToken(t *testing.T, secret, username, accountType string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":          username,
		"account_type": accountType,
		"iat":          time.Now().Unix(),
		"exp":          time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

// 購入者限定グループを組み立てて叩く
func requestBuyerRoute(t *testing.T, token string) *httptest.ResponseRecorder {
	t.Helper()
	cfg := testCfg()

	e := echo.New()
	g := e.Group("/cart")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RequireAccountType(string(model.AccountTypeBuyer)))
	g.GET("", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestBuyerOnlyRoutes_RejectOtherAccountTypes(t *testing.T) {
	cases := []struct {
		name        string
		accountType model.AccountType
		wantStatus  int
	}{
		{"buyer passes", model.AccountTypeBuyer, http.StatusOK},
		{"seller forbidden", model.AccountTypeSeller, http.StatusForbidden},
		{"admin forbidden", model.AccountTypeAdmin, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token := signToken(t, testCfg().JWTSecret, "user1", string(tc.accountType))
			rec := requestBuyerRoute(t, token)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestAuthJWT_MissingOrInvalidToken(t *testing.T) {
	rec := requestBuyerRoute(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// 別シークレットで署名されたトークンは拒否
	forged := signToken(t, "other-secret", "user1", string(model.AccountTypeBuyer))
	rec = requestBuyerRoute(t, forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_SessionCookie(t *testing.T) {
	cfg := testCfg()

	e := echo.New()
	g := e.Group("/cart")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RequireAccountType(string(model.AccountTypeBuyer)))
	g.GET("", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{
		Name:  middleware.SessionCookieName,
		Value: signToken(t, cfg.JWTSecret, "buyer1", string(model.AccountTypeBuyer)),
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
