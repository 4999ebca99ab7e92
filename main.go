package main

import (
	"fmt"
	"log"
	"os"
	"time"

	apirest "github.com/crownworks/kingdoms-server/api/rest"
	"github.com/crownworks/kingdoms-server/api/sse"
	apows "github.com/crownworks/kingdoms-server/api/ws"
	"github.com/crownworks/kingdoms-server/cache"
	"github.com/crownworks/kingdoms-server/config"
	"github.com/crownworks/kingdoms-server/game/kingdom"
	mw "github.com/crownworks/kingdoms-server/middleware"
	"github.com/crownworks/kingdoms-server/scheduler"
	"github.com/crownworks/kingdoms-server/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	if cfg.Security.JWTSecret == "" {
		log.Fatal("security.jwt_secret is required")
	}

	// ---- State store ----
	st, err := store.Open(cfg.Store)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	logger.Info("State store initialized", zap.String("mode", cfg.Store.Mode))

	// ---- Cache / PubSub ----
	c, err := cache.NewCache(cfg.Cache)
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	pubsub, err := cache.NewPubSub(cfg.Cache)
	if err != nil {
		log.Fatalf("pubsub: %v", err)
	}
	logger.Info("Cache initialized")

	// ---- Registry ----
	reg, err := kingdom.NewRegistry(st, cfg.Game, logger)
	if err != nil {
		log.Fatalf("registry: %v", err)
	}
	logger.Info("Game state loaded")

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()

	// ---- Realtime hub ----
	hub := apows.NewHub(pubsub, logger)
	wsRouter := apows.NewRouter(logger)
	apows.NewHandlers(hub, reg).RegisterRoutes(wsRouter)

	// ---- REST handlers ----
	authH := apirest.NewAuthHandler(reg, c, cfg.Security)
	kingdomH := apirest.NewKingdomHandler(reg)
	battleH := apirest.NewBattleHandler(reg, hub)
	allianceH := apirest.NewAllianceHandler(reg)
	worldH := apirest.NewWorldHandler(reg, c, cfg.Game.LeaderboardSize, logger)

	// ---- Periodic Scheduler Tasks ----
	sched.AddTicker("production", time.Duration(cfg.Game.ProductionIntervalS)*time.Second, func() {
		if err := reg.ProductionTick(); err != nil {
			logger.Error("production tick failed", zap.Error(err))
		}
	})
	sched.AddTicker("leaderboard_refresh", time.Minute, func() {
		if err := worldH.RefreshLeaderboard(); err != nil {
			logger.Warn("leaderboard refresh failed", zap.Error(err))
		}
	})

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	// Health check
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok", "online": hub.Online()})
	})

	api := r.Group("/api")
	{
		api.POST("/register", authH.Register)
		api.POST("/login", authH.Login)
		api.POST("/logout", mw.Auth(cfg.Security, c), authH.Logout)

		authed := api.Group("")
		authed.Use(mw.Auth(cfg.Security, c))
		authed.GET("/kingdom", kingdomH.Get)
		authed.POST("/kingdom/build", kingdomH.Build)
		authed.POST("/kingdom/train", kingdomH.Train)
		authed.POST("/battle/attack", battleH.Attack)
		authed.GET("/battles", battleH.List)
		authed.POST("/alliance/create", allianceH.Create)

		// Public read views.
		api.GET("/alliances", allianceH.List)
		api.GET("/leaderboard", worldH.Leaderboard)
		api.GET("/world", worldH.Map)
	}

	// ---- WebSocket ----
	wsH := apows.NewHandler(c, cfg.Security, hub, wsRouter, logger)
	r.GET("/ws", wsH.ServeWS)

	// ---- SSE ----
	sseH := sse.NewHandler(pubsub, c, cfg.Security, logger)
	r.GET("/events", sseH.ServeSSE)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
