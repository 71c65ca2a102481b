package handler

import (
	"net/http"

	"github.com/luxehomes/property-assistant/internal/api/response"
	"github.com/luxehomes/property-assistant/internal/catalog"
	"github.com/luxehomes/property-assistant/internal/repository/redis"
)

// HealthCheck returns a simple liveness response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck reports readiness including catalog store connectivity
func ReadyCheck(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.HealthCheck(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "catalog store not ready")
			return
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}

// FlushCache clears cached search results from Redis
func FlushCache(cache *redis.SearchCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := cache.FlushAll(r.Context())
		if err != nil {
			response.InternalError(w, "failed to flush cache: "+err.Error())
			return
		}

		response.OK(w, map[string]any{
			"message":      "cache flushed successfully",
			"keys_deleted": deleted,
		})
	}
}
