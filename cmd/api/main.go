package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"

	"github.com/pizzaparty/backend-pizzeria/internal/cart"
	"github.com/pizzaparty/backend-pizzeria/internal/catalog"
	"github.com/pizzaparty/backend-pizzeria/internal/checkout"
	"github.com/pizzaparty/backend-pizzeria/internal/common"
	"github.com/pizzaparty/backend-pizzeria/internal/config"
	"github.com/pizzaparty/backend-pizzeria/internal/events"
	"github.com/pizzaparty/backend-pizzeria/internal/health"
	"github.com/pizzaparty/backend-pizzeria/internal/obs"
	"github.com/pizzaparty/backend-pizzeria/internal/ratelimit"
	"github.com/pizzaparty/backend-pizzeria/internal/security"
	"github.com/pizzaparty/backend-pizzeria/internal/session"
)

func main() {
	cfg := config.MustLoad()

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	if cfg.MetricsEnabled {
		obs.MustRegisterDomainMetrics(cfg.MetricsNamespace, nil)
	}

	tracingEnabled := cfg.TracingEnabled
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "pizzeria-api",
			Endpoint:      cfg.OTLPEndpoint,
			SamplingRatio: cfg.TracingSampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("parse redis url")
		}
		redisClient = redis.NewClient(redisOpts)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("close redis")
			}
		}()
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("ping redis")
		}
		cancel()
	}

	menu := catalog.DefaultMenu()
	if cfg.MenuPath != "" {
		loaded, err := catalog.LoadMenu(cfg.MenuPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.MenuPath).Msg("load menu")
		}
		menu = loaded
	}
	catalogSvc, err := catalog.NewService(menu)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed catalog")
	}

	eventLog := events.NewMemoryStore()
	bus := &events.Bus{
		Store:     eventLog,
		Notifiers: []events.Notifier{events.LogNotifier{Logger: logger}},
	}

	cartState := cart.New(catalogSvc)
	sessions := session.NewStore()

	checkoutSvc := &checkout.Service{
		Cart:    cartState,
		Catalog: catalogSvc,
		Events:  bus,
	}

	catalogHandler := &catalog.Handler{Svc: catalogSvc, Cart: cartState, Events: bus, Currency: cfg.CurrencyCode}
	cartHandler := &cart.Handler{Cart: cartState, Catalog: catalogSvc, Events: bus, Currency: cfg.CurrencyCode}
	sessionHandler := &session.Handler{Store: sessions}
	checkoutHandler := &checkout.Handler{Svc: checkoutSvc, Sessions: sessions, Currency: cfg.CurrencyCode}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}

	var httpMetrics *obs.HTTPMetrics
	if cfg.MetricsEnabled {
		httpMetrics = obs.NewHTTPMetrics(cfg.MetricsNamespace, nil, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(security.Headers{Enable: cfg.SecurityHeaders}.Middleware)
	r.Use(security.BodyLimit{Max: cfg.BodyLimitBytes}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	healthHandler := health.Handler{}
	if redisClient != nil {
		healthHandler.Redis = redisPinger{client: redisClient}
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	limiter := ratelimit.Handler{
		Limiter: ratelimit.Limiter{Client: redisClient, Prefix: "rl:"},
		Config: ratelimit.Config{
			Key:    ratelimit.KeyByClientIP,
			Window: cfg.RateLimitWindow,
			Max:    cfg.RateLimitMax,
		},
		OnError: func(err error) {
			logger.Warn().Err(err).Msg("rate limiter unavailable")
		},
	}

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/menu", catalogHandler.List)
		v.Get("/menu/deals", catalogHandler.Deals)
		v.Get("/menu/favorites", catalogHandler.Favorites)
		v.Get("/menu/{id}", catalogHandler.Detail)
		v.Post("/menu/{id}/rating", catalogHandler.Rate)
		v.Post("/menu/{id}/quote", catalogHandler.Quote)
		v.Post("/menu/{id}/customize", catalogHandler.Customize)

		v.Route("/cart", func(c chi.Router) {
			c.Get("/", cartHandler.Get)
			c.Post("/items", cartHandler.AddItem)
			c.Delete("/items/{id}", cartHandler.RemoveItem)
			c.Delete("/", cartHandler.Clear)
		})

		v.Get("/session", sessionHandler.Get)
		v.Put("/session", sessionHandler.Update)

		v.Post("/checkout", checkoutHandler.Checkout)
		v.With(limiter.Middleware, idem.Middleware).Post("/checkout/confirm", checkoutHandler.Confirm)
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) PingRedis(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.client.Ping(ctx).Err()
}
