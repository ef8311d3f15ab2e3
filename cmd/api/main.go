package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	server "nofesh/internal/adapters/http_server"
	"nofesh/internal/adapters/observability"
	"nofesh/internal/adapters/places"
	redisad "nofesh/internal/adapters/redis"
	"nofesh/internal/app"
	"nofesh/internal/shared"
	"nofesh/internal/storage/mongodb"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	if cfg.MongoURI == "" {
		log.Fatal().Msg("MONGODB_URI is not set")
	}
	if cfg.MongoDB == "" {
		log.Fatal().Msg("MONGODB_DB (or MONGO_DB) is not set")
	}

	client, err := mongodb.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongo ping failed")
	}
	log.Info().Msg("database connection ok")

	repo := mongodb.NewRepo(client.DB)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("index bootstrap failed")
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	placeClient := places.New(cfg.PlacesBase, cfg.PlacesKey, cfg.PlacesRPS, cfg.PlacesTimeout)

	search := app.NewSearch(repo)
	suggest := app.NewSuggest(cache, placeClient, cfg.SuggestTTL)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Search: search, Suggest: suggest})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
