package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mohamedthameursassi/signalroute/config"
	"github.com/mohamedthameursassi/signalroute/handlers"
	"github.com/mohamedthameursassi/signalroute/preprocessing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stderr)

	if cfg.GraphPath == "" {
		logger.Fatal().Msg("GRAPH_PATH is not set")
	}

	opts := preprocessing.BuildOptions{
		SignalMode:     cfg.SignalMode,
		Signals:        &cfg.Signals,
		PruneMinDegree: cfg.PruneMinDegree,
	}
	g, err := preprocessing.LoadGraph(context.Background(), cfg.GraphPath, opts, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load graph")
	}
	logger.Info().
		Int("nodes", g.Len()).
		Int("edges", g.EdgeCount()).
		Int("signals", len(g.SignalNodes())).
		Msg("graph ready")

	if cfg.LogLevel > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), handlers.RequestID(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"*"}
	corsConfig.ExposeHeaders = []string{handlers.RequestIDHeader}
	r.Use(cors.New(corsConfig))

	handlers.NewRoutingHandler(g, cfg.Routing, logger).RegisterRoutes(r)

	logger.Info().Str("port", cfg.Port).Msg("signalroute server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}
