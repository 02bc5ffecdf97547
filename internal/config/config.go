package config

import (
	"fmt"
	"os"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DataDir     string // ローカルストアの保存先ディレクトリ
	DatabaseURL string // 指定があればSQLiteの代わりにPostgresを使う

	LogLevel string // info/warn/error
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port:        os.Getenv("PORT"),
		DataDir:     os.Getenv("DATA_DIR"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}

	//デフォルト
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}
