package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/chat"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/config"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/handler"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/hub"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/service"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/simulator"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/store"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/stream"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/pkg/database"
	pkglog "github.com/Racheal-stack/ProFootball-Real-Time-Backend/pkg/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: "profootball-backend",
	})
	logger := pkglog.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database using GORM
	dbConfig := &database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		FilePath:        cfg.Database.FilePath,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	db, err := database.New(dbConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Auto-migrate
	if err := database.AutoMigrate(db,
		&store.TeamModel{},
		&store.PlayerModel{},
		&store.MatchModel{},
		&store.MatchEventModel{},
		&store.MatchStatisticsModel{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to auto-migrate")
	}
	logger.Info().Msg("database migration completed")

	if err := store.Seed(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed demo data")
	}

	matchStore := store.NewGormStore(db)

	// Redis is optional: chat rate limiting falls back to the local
	// limiter when it is unavailable.
	var limiter chat.Limiter
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, using local rate limiter")
		redisClient.Close()
	} else {
		limiter = chat.NewRedisLimiter(redisClient, cfg.Chat.RateLimit)
		defer redisClient.Close()
		logger.Info().Msg("redis connected")
	}
	cancel()

	// Connection hub
	h := hub.NewHub()

	// SSE replay buffer
	buffer := stream.NewBuffer(cfg.SSE.ReplayLimit)

	// Message router and handlers
	router := handler.NewRouter()
	handler.RegisterLiveHandlers(router)

	coordinator := chat.NewCoordinator(cfg.Chat, limiter)
	coordinator.RegisterHandlers(router)
	h.OnDisconnect(coordinator.HandleDisconnect)

	wsHandler := handler.NewWSHandler(h, router, cfg.WebSocket)
	sseHandler := handler.NewSSEHandler(buffer, matchStore, cfg.SSE)
	httpHandler := handler.NewHTTPHandler(matchStore)

	// Simulation engine
	publisher := service.NewEventPublisher(h, buffer)
	engine := simulator.NewEngine(matchStore, publisher, cfg.Simulator)

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/ws", wsHandler.HandleWebSocket)

	api := r.Group("/api")
	{
		api.GET("/matches", httpHandler.ListMatches)
		api.GET("/matches/:id", httpHandler.GetMatch)
		api.GET("/matches/:id/events/stream", sseHandler.HandleStream)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)

	// The hub outlives the engine so final ticks can still drain
	// through the broadcast queue.
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()

	g.Go(func() error {
		h.Run(hubCtx)
		return nil
	})

	g.Go(func() error {
		return engine.Start(gctx)
	})

	g.Go(func() error {
		logger.Info().Str("addr", addr).Str("driver", cfg.Database.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")

		engine.Stop()
		stopHub()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
	logger.Info().Msg("server stopped")
}
