package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"github.com/yukmats/visit-hearing/internal/api/handler"
	customMiddleware "github.com/yukmats/visit-hearing/internal/api/middleware"
	"github.com/yukmats/visit-hearing/internal/config"
	"github.com/yukmats/visit-hearing/internal/domain"
	"github.com/yukmats/visit-hearing/internal/hearing"
	"github.com/yukmats/visit-hearing/internal/llm"
	"github.com/yukmats/visit-hearing/internal/llm/gemini"
	"github.com/yukmats/visit-hearing/internal/llm/ollama"
	"github.com/yukmats/visit-hearing/internal/llm/openai"
	"github.com/yukmats/visit-hearing/internal/repository/memory"
	"github.com/yukmats/visit-hearing/internal/repository/postgres"
	"github.com/yukmats/visit-hearing/internal/repository/redis"
	"github.com/yukmats/visit-hearing/internal/service"
)

// NewRouter wires the HTTP router and all services. db and redisClient may
// be nil; the service degrades to in-process fallbacks. The returned
// cleanup stops background prefetch work.
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client) (http.Handler, func()) {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// LLM providers
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)
	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.LLM.DefaultProvider)

	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini.APIKey, cfg.LLM.Gemini.Model))
	}
	if cfg.LLM.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model))
	}
	if cfg.LLM.Ollama.Host != "" {
		log.Info().Str("host", cfg.LLM.Ollama.Host).Msg("Registering Ollama provider")
		llmRouter.RegisterProvider(ollama.NewProvider(cfg.LLM.Ollama.Host, cfg.LLM.Ollama.DefaultModel))
	}

	provider, err := llmRouter.GetProvider("")
	if err != nil {
		log.Warn().Err(err).Msg("No LLM provider available, running on deterministic fallbacks only")
		provider = nil
	}

	// Prefetch turn cache: Redis when available, in-process otherwise
	var turns domain.TurnStore
	var rateLimiter *redis.RateLimiter
	if redisClient != nil {
		turns = redis.NewTurnCache(redisClient, cfg.Hearing.PrefetchTTL)
		rateLimiter = redis.NewRateLimiter(redisClient, cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	} else {
		log.Warn().Msg("Redis unavailable, using in-process turn cache")
		turns = memory.NewTurnCache(cfg.Hearing.PrefetchTTL)
	}

	// Report store is optional
	var reports domain.ReportRepository
	if db != nil {
		reports = postgres.NewReportRepository(db)
	}

	// Core engine
	policy := hearing.TurnPolicy{
		MinTurns:   cfg.Hearing.MinTurns,
		MaxTurns:   cfg.Hearing.MaxTurns,
		TotalTurns: cfg.Hearing.TotalTurns,
	}
	extractor := hearing.NewExtractor(provider)
	engine := hearing.NewDecisionEngine(provider, policy)
	suggester := hearing.NewSuggestionGenerator(provider)
	corrector := hearing.NewTextCorrector(provider)

	prefetcher := service.NewPrefetcher(engine, suggester, turns, cfg.Hearing.PrefetchTimeout)
	hearingService := service.NewHearingService(extractor, engine, suggester, corrector, turns, reports, prefetcher)

	hearingHandler := handler.NewHearingHandler(hearingService)
	reportHandler := handler.NewReportHandler(hearingService)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db, redisClient))
		r.Get("/llm-providers", handler.ListLLMProviders(llmRouter))

		r.Group(func(r chi.Router) {
			r.Use(rateLimitMiddleware.Limit)

			r.Route("/hearing", func(r chi.Router) {
				r.Post("/start", hearingHandler.Start)
				r.Post("/answer", hearingHandler.Answer)
				r.Post("/suggestions", hearingHandler.Suggestions)
				r.Post("/correct", hearingHandler.Correct)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", reportHandler.List)
				r.Get("/{reportID}", reportHandler.Get)
			})
		})
	})

	return r, hearingService.Close
}
