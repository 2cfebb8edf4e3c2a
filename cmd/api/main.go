package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eshop/internal/config"
	"eshop/internal/handler"
	infraRepo "eshop/internal/infra/repository"
	"eshop/internal/infra/token"
	repo "eshop/internal/repository"
	"eshop/internal/server"
	"eshop/internal/telemetry"
	"eshop/internal/usecase"
	"eshop/internal/view"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	logger := log.New("eshop")

	//.envは任意
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Fatalf("load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//トレース
	shutdownTrace, err := telemetry.Setup(cfg.TraceStdout, os.Stdout)
	if err != nil {
		logger.Fatalf("telemetry: %v", err)
	}
	defer func() {
		if err := shutdownTrace(context.Background()); err != nil {
			logger.Errorf("telemetry shutdown: %v", err)
		}
	}()

	//セッションの保存先
	var sessionRepo repo.SessionRepository
	switch cfg.SessionStore {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatalf("redis ping: %v", err)
		}
		sessionRepo = infraRepo.NewSessionRedisRepository(client, cfg.SessionTTL)
		logger.Infof("session store: redis at %s", cfg.RedisAddr)
	default:
		mem := infraRepo.NewSessionMemoryRepository(cfg.SessionTTL)
		go mem.RunSweeper(ctx, time.Minute)
		sessionRepo = mem
		logger.Infof("session store: memory")
	}

	//商品API
	productRepo := infraRepo.NewProductHTTPRepository(cfg.ProductAPIBaseURL, telemetry.NewHTTPClient(cfg.ProductAPITimeout))

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo, cfg.ProductID)
	logger.Infof("product: %s/products/%d", cfg.ProductAPIBaseURL, productUC.ProductID())
	pageUC := usecase.NewPageUsecase(sessionRepo, productUC, &uuidGenerator{}, &realClock{})

	//セッションCookie
	issuer := token.NewJWTIssuer(cfg.SessionSecret, cfg.SessionTTL)

	//Handler生成
	pageH := handler.NewPageHandler(pageUC, issuer, issuer, cfg.IsProd())
	apiH := handler.NewAPIHandler(pageUC, issuer, issuer, cfg.IsProd())

	renderer, err := view.NewTemplateRenderer()
	if err != nil {
		logger.Fatalf("templates: %v", err)
	}

	//Server起動
	e := server.New(renderer, cfg.LogLevel, pageH, apiH)
	if err := server.Start(ctx, e, cfg.Addr()); err != nil {
		logger.Fatalf("server: %v", err)
	}
}
