package middleware

import (
	"errors"
	"net/http"
	"strings"

	"agora/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxUsernameKey    = "username"     // string
	CtxAccountTypeKey = "account_type" // string

	SessionCookieName = "agora_session"
)

// cookie/bearerAuth用のJWT検証ミドルウェア。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username, accountType, ok := parseSession(c, cfg)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//contextへ保存
			c.Set(CtxUsernameKey, username)
			c.Set(CtxAccountTypeKey, accountType)

			return next(c)
		}
	}
}

// 公開ページ用。セッションが有効ならcontextに載せ、無くても通す。
func OptionalAuth(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if username, accountType, ok := parseSession(c, cfg); ok {
				c.Set(CtxUsernameKey, username)
				c.Set(CtxAccountTypeKey, accountType)
			}
			return next(c)
		}
	}
}

// AuthJWTの後段に置くロールガード
func RequireAccountType(types ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			accountType, _ := c.Get(CtxAccountTypeKey).(string)
			for _, t := range types {
				if accountType == t {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
		}
	}
}

func parseSession(c echo.Context, cfg config.Config) (string, string, bool) {
	rawToken := extractToken(c)
	if rawToken == "" {
		return "", "", false
	}

	//JWTをパースして検証する
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", false
	}

	username, ok := claims["sub"].(string)
	if !ok || username == "" {
		return "", "", false
	}
	accountType, ok := claims["account_type"].(string)
	if !ok || accountType == "" {
		return "", "", false
	}
	return username, accountType, true
}

// cookie優先、無ければAuthorizationヘッダ
func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authz := c.Request().Header.Get("Authorization")
	if authz == "" {
		return ""
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
