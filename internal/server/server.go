package server

import (
	"log/slog"

	"agora/internal/config"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"
)

// echoのValidatorとしてvalidator/v10を挟む
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// New はミドルウェアと静的配信を設定したechoを返す。
// ルート登録は呼び出し側（routes.go）で行う。
func New(cfg config.Config, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = &requestValidator{validate: validator.New()}

	e.Use(slogecho.New(logger))
	e.Use(echomw.Recover())

	// 加工済み画像はそのまま配る
	e.Static("/assets/images", cfg.AssetsRoot)

	return e
}

func Start(e *echo.Echo, cfg config.Config) error {
	return e.Start(":" + cfg.Port)
}
