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
	"golang.org/x/sync/errgroup"

	"github.com/weiawesome/wes-io-live/collab-service/internal/config"
	"github.com/weiawesome/wes-io-live/collab-service/internal/events"
	"github.com/weiawesome/wes-io-live/collab-service/internal/handler"
	"github.com/weiawesome/wes-io-live/collab-service/internal/hub"
	"github.com/weiawesome/wes-io-live/collab-service/internal/manager"
	"github.com/weiawesome/wes-io-live/collab-service/internal/registry"
	"github.com/weiawesome/wes-io-live/collab-service/internal/service"
	"github.com/weiawesome/wes-io-live/collab-service/pkg/jwt"
	pkglog "github.com/weiawesome/wes-io-live/collab-service/pkg/log"
	"github.com/weiawesome/wes-io-live/collab-service/pkg/pubsub"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	pkglog.Init(cfg.Log)
	logger := pkglog.L()

	logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("starting collab-service")

	// Initialize event publisher
	publisher, err := pubsub.NewPublisher(cfg.PubSub)
	if err != nil {
		logger.Warn().Err(err).Str("driver", cfg.PubSub.Driver).Msg("failed to create publisher, lifecycle events disabled")
		publisher = pubsub.NopPublisher{}
	}
	defer publisher.Close()
	logger.Info().Str("driver", cfg.PubSub.Driver).Msg("event publisher configured")

	// Initialize room registry
	var reg registry.Registry = registry.NopRegistry{}
	if cfg.Registry.Enabled {
		redisReg, err := registry.NewRedisRegistry(cfg.Registry)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize room registry")
		}
		reg = redisReg
		logger.Info().Str("address", cfg.Registry.Address).Msg("connected to registry redis")
	}
	defer reg.Close()

	// Initialize identity token verifier
	var verifier service.TokenVerifier
	if cfg.Auth.JWTSecret != "" {
		tokens, err := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create token verifier")
		}
		verifier = tokens
	} else if cfg.Auth.RequireToken {
		logger.Fatal().Msg("auth.require_token is set but auth.jwt_secret is empty")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := reg.StartHeartbeat(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to start registry heartbeat")
	}

	mirror := events.NewMirror(publisher, reg, events.DefaultQueueSize)

	mgr := manager.New(manager.Config{
		DefaultMaxParticipants: cfg.Room.DefaultMaxParticipants,
		LogCapacity:            cfg.Room.LogCapacity,
	})

	wsHub := hub.NewHub(cfg.WebSocket)

	collabSvc := service.NewCollabService(mgr, wsHub, mirror, verifier, service.Options{
		HistoryReplay: cfg.Room.HistoryReplay,
		RequireToken:  cfg.Auth.RequireToken,
	})

	wsHandler := handler.NewWSHandler(wsHub, collabSvc)
	httpHandler := handler.NewHTTPHandler(mgr, reg)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))
	wsHandler.RegisterRoutes(r)
	httpHandler.RegisterRoutes(r)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return wsHub.Run(gCtx)
	})

	g.Go(func() error {
		return mirror.Run(gCtx)
	})

	g.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("collab-service listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info().Msg("shutting down collab-service")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("collab-service exited with error")
	}

	logger.Info().Msg("collab-service stopped")
}
