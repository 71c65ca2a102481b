package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/luxehomes/property-assistant/internal/api"
	"github.com/luxehomes/property-assistant/internal/catalog"
	catalogMySQL "github.com/luxehomes/property-assistant/internal/catalog/mysql"
	catalogPostgres "github.com/luxehomes/property-assistant/internal/catalog/postgres"
	catalogSQLite "github.com/luxehomes/property-assistant/internal/catalog/sqlite"
	"github.com/luxehomes/property-assistant/internal/config"
	"github.com/luxehomes/property-assistant/internal/domain"
	historyMongo "github.com/luxehomes/property-assistant/internal/history/mongo"
	"github.com/luxehomes/property-assistant/internal/repository/redis"
	"github.com/luxehomes/property-assistant/internal/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Logging)

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("catalog_driver", cfg.Catalog.Driver).
		Msg("Starting property assistant server")

	// Catalog store
	catalogRouter := catalog.NewRouter()
	catalogRouter.Register("sqlite", catalogSQLite.NewStore)
	catalogRouter.Register("postgres", catalogPostgres.NewStore)
	catalogRouter.Register("mysql", catalogMySQL.NewStore)
	defer catalogRouter.CloseAll()

	catalogStore, err := catalogRouter.Open(context.Background(), cfg.Catalog.Driver, catalog.ConnectionConfig{
		Host:     cfg.Catalog.Host,
		Port:     cfg.Catalog.Port,
		Database: cfg.Catalog.Database,
		Username: cfg.Catalog.User,
		Password: cfg.Catalog.Password,
		SSLMode:  cfg.Catalog.SSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to catalog store")
	}

	// Optional Redis: search result cache and rate limiting
	var redisClient *redis.Client
	var searchCache *redis.SearchCache
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		searchCache = redis.NewSearchCache(redisClient)
	}

	// Optional Mongo-backed chat history
	var historyStore domain.HistoryStore
	if cfg.History.Enabled {
		mongoStore, err := historyMongo.NewStore(context.Background(), historyMongo.Config{
			URI:        cfg.History.URI,
			Database:   cfg.History.Database,
			Collection: cfg.History.Collection,
			Timeout:    cfg.History.Timeout,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to history store")
		}
		defer mongoStore.Close(context.Background())
		historyStore = mongoStore
	}

	recorder := service.NewHistoryRecorder(historyStore, cfg.History.Timeout)
	chatService := service.NewChatService(
		catalogStore,
		recorder,
		searchCache,
		service.NewFixedPacer(cfg.Chat.ResponseDelay),
		cfg.Chat.SearchTimeout,
	)

	router := api.NewRouter(cfg, chatService, catalogStore, redisClient, searchCache)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Let in-flight history writes finish before the stores close.
	recorder.Drain()

	log.Info().Msg("Server stopped")
}

func setupLogger(cfg config.LoggingConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	if cfg.File != "" {
		rotator, err := rotatelogs.New(
			cfg.File+".%Y%m%d",
			rotatelogs.WithLinkName(cfg.File),
			rotatelogs.WithRotationCount(7),
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to open log file, logging to stderr only")
		} else {
			out = zerolog.MultiLevelWriter(out, rotator)
		}
	}

	log.Logger = log.Output(out)
}
