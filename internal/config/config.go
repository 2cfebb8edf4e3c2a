package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
)

const devSessionSecret = "dev_secret_change_me"

// Configはアプリ全体の設定
type Config struct {
	Port     string  // サーバーポート（8080）
	GoEnv    string  // dev/prod
	LogLevel log.Lvl // debug/info/warn/error/off

	ProductAPIBaseURL string        // 商品APIのURL
	ProductID         int64         // 表示する商品ID（6）
	ProductAPITimeout time.Duration // 0なら無し

	SessionSecret string        // セッションCookie署名シークレット
	SessionTTL    time.Duration // セッションの寿命
	SessionStore  string        // memory/redis

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	TraceStdout bool // トレースを標準出力へ
}

// Addr は ":8080" の形
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}

// Loadは環境変数
func Load() (Config, error) {
	productID, err := atoi64("PRODUCT_ID", 6)
	if err != nil {
		return Config{}, err
	}
	timeout, err := duration("PRODUCT_API_TIMEOUT", 0)
	if err != nil {
		return Config{}, err
	}
	ttl, err := duration("SESSION_TTL", 2*time.Hour)
	if err != nil {
		return Config{}, err
	}
	redisDB, err := atoi64("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	traceStdout, err := boolean("TRACE_STDOUT", false)
	if err != nil {
		return Config{}, err
	}
	level, err := logLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:     getenv("PORT", "8080"),
		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: level,

		ProductAPIBaseURL: getenv("PRODUCT_API_BASE_URL", "https://fakestoreapi.com"),
		ProductID:         productID,
		ProductAPITimeout: timeout,

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    ttl,
		SessionStore:  getenv("SESSION_STORE", "memory"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       int(redisDB),

		TraceStdout: traceStdout,
	}

	//必須チェック
	if cfg.ProductID <= 0 {
		return Config{}, fmt.Errorf("PRODUCT_ID must be > 0")
	}
	if cfg.ProductAPITimeout < 0 {
		return Config{}, fmt.Errorf("PRODUCT_API_TIMEOUT must be >= 0")
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be > 0")
	}
	switch cfg.SessionStore {
	case "memory", "redis":
	default:
		return Config{}, fmt.Errorf("SESSION_STORE must be memory or redis")
	}

	// dev以外はシークレット必須
	if cfg.SessionSecret == "" {
		if cfg.IsProd() {
			return Config{}, fmt.Errorf("SESSION_SECRET is required")
		}
		cfg.SessionSecret = devSessionSecret
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

func atoi64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func boolean(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be bool: %w", key, err)
	}
	return b, nil
}

func logLevel(v string) (log.Lvl, error) {
	switch strings.ToLower(v) {
	case "debug":
		return log.DEBUG, nil
	case "info":
		return log.INFO, nil
	case "warn":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	}
	return 0, fmt.Errorf("LOG_LEVEL must be debug/info/warn/error/off")
}
