package main

import (
	stdlog "log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	"github.com/agendusalao/salon-api/internal/config"
	dbpkg "github.com/agendusalao/salon-api/internal/db"
	"github.com/agendusalao/salon-api/internal/logger"
	"github.com/agendusalao/salon-api/internal/middleware"
	"github.com/agendusalao/salon-api/internal/routes"
	"github.com/agendusalao/salon-api/internal/scheduler"
	"github.com/agendusalao/salon-api/internal/whatsapp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("configuration: %v", err)
	}
	log := logger.New(cfg.Env, cfg.LogLevel)

	// Monetary values serialize as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true

	db := dbpkg.NewDB(cfg)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	wa := whatsapp.NewClient(cfg, log)
	sessions := whatsapp.NewRedisSessionStore(rdb)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.Setup(r, db, cfg, wa, sessions, log)

	sched := scheduler.New(db, wa, sessions, log)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	log.Info().Str("addr", cfg.Addr()).Msg("server starting")
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
