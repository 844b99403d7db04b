package config

import (
	"fmt"
	"os"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret  string        // セッショントークンの署名シークレット
	SessionTTL time.Duration // セッションの有効期限

	AssetsRoot string // 画像の書き込み先（assets/images）
	LogLevel   string // debug/info/warn/error
	GoEnv      string // dev/prod
}

// Loadは環境変数から読み込む
func Load() (Config, error) {
	cfg := Config{
		Port:       os.Getenv("PORT"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		SessionTTL: 24 * time.Hour,
		AssetsRoot: getenv("ASSETS_ROOT", "assets/images"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
		GoEnv:      getenv("GO_ENV", "dev"),
	}

	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("SESSION_TTL must be a duration: %w", err)
		}
		cfg.SessionTTL = d
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
