package handler

import (
	"net/http"

	"github.com/yukmats/visit-hearing/internal/api/response"
	"github.com/yukmats/visit-hearing/internal/llm"
	"github.com/yukmats/visit-hearing/internal/repository/postgres"
	"github.com/yukmats/visit-hearing/internal/repository/redis"
)

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness including backing-store connectivity.
// Both stores are optional; only configured ones are pinged.
func ReadyCheck(db *postgres.DB, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				response.Error(w, http.StatusServiceUnavailable, "database not ready")
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Ping(r.Context()); err != nil {
				response.Error(w, http.StatusServiceUnavailable, "redis not ready")
				return
			}
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}

// ListLLMProviders returns the registered LLM providers
func ListLLMProviders(llmRouter *llm.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]any{
			"providers":        llmRouter.GetProvidersInfo(),
			"default_provider": llmRouter.DefaultProvider(),
		})
	}
}
