package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/luxehomes/property-assistant/internal/api/handler"
	customMiddleware "github.com/luxehomes/property-assistant/internal/api/middleware"
	"github.com/luxehomes/property-assistant/internal/catalog"
	"github.com/luxehomes/property-assistant/internal/config"
	"github.com/luxehomes/property-assistant/internal/repository/redis"
	"github.com/luxehomes/property-assistant/internal/security"
	"github.com/luxehomes/property-assistant/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	cfg *config.Config,
	chatService *service.ChatService,
	catalogStore catalog.Store,
	redisClient *redis.Client,
	searchCache *redis.SearchCache,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)

	chatHandler := handler.NewChatHandler(chatService)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(catalogStore))

		if searchCache != nil {
			r.Post("/cache/flush", handler.FlushCache(searchCache))
		}

		r.Route("/chat/sessions", func(r chi.Router) {
			r.Use(authMiddleware.Identify)

			if redisClient != nil {
				rateLimiter := redis.NewRateLimiter(
					redisClient,
					cfg.Chat.RateLimit.RequestsPerMinute,
					cfg.Chat.RateLimit.Burst,
				)
				r.Use(customMiddleware.NewRateLimitMiddleware(rateLimiter).Limit)
			}

			r.Post("/", chatHandler.Create)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", chatHandler.Get)
				r.Delete("/", chatHandler.Close)
				r.Post("/messages", chatHandler.SendMessage)
			})
		})
	})

	return r
}
