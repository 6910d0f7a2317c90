package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bookline/bookline/libs/config"
	"github.com/bookline/bookline/libs/db"
	"github.com/bookline/bookline/libs/httpx"
	"github.com/bookline/bookline/libs/kafkax"
	otelx "github.com/bookline/bookline/libs/otel"
	"github.com/bookline/bookline/libs/runtime"
	"github.com/bookline/bookline/services/availability-service/internal/availability"
	"github.com/bookline/bookline/services/availability-service/internal/cache"
	"github.com/bookline/bookline/services/availability-service/internal/consumer"
	"github.com/bookline/bookline/services/availability-service/internal/handlers"
	"github.com/bookline/bookline/services/availability-service/internal/schedule"
	"github.com/bookline/bookline/services/availability-service/internal/storage"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func splitCSV(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseHolidays(raw string, logger *slog.Logger) *availability.HolidayCalendar {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return availability.DefaultHolidayCalendar()
	}
	monthDays := strings.Split(raw, ",")
	cal := availability.NewHolidayCalendar(monthDays)
	logger.Info("holiday calendar configured", "entries", len(monthDays))
	return cal
}

func main() {
	_ = godotenv.Load()

	service := config.String("SERVICE_NAME", "availability-service")
	port, err := config.Port("PORT", "8084")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	pool, err := db.Open(ctx, dbURL, db.Options{})
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	scheduleRepo := storage.NewScheduleRepository(pool)
	apptRepo := storage.NewAppointmentRepository(pool)

	var windows availability.WindowSource = scheduleRepo
	var rules availability.RuleSource = scheduleRepo

	// Optional central business service; when reachable it owns the
	// schedule configuration and the local tables act as a replica.
	if provider, err := schedule.NewProvider(config.String("SCHEDULE_GRPC_ADDR", "")); err != nil {
		logger.Error("schedule provider init failed; using local store", "err", err)
	} else if provider != nil {
		windows = provider
		rules = provider
	}

	readyChecks := []runtime.ReadyCheck{
		{Name: "db", Check: db.ReadyCheck(pool)},
	}

	var rdb *redis.Client
	var scheduleCache *cache.ScheduleCache
	if addr := config.String("REDIS_ADDR", ""); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr})
		defer rdb.Close()
		ttl := time.Duration(config.Int("SCHEDULE_CACHE_TTL_SECONDS", 300)) * time.Second
		scheduleCache = cache.NewScheduleCache(rdb, windows, rules, ttl, logger)
		windows = scheduleCache
		rules = scheduleCache
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "redis", Check: cache.ReadyCheck(rdb)})
	}

	holidays := parseHolidays(config.String("HOLIDAYS_MMDD", ""), logger)
	checker := availability.NewChecker(
		windows,
		rules,
		apptRepo,
		holidays,
		config.Int("PROJECTION_MAX_DAYS", availability.DefaultProjectionCapDays),
	)

	brokers := config.String("KAFKA_BROKERS", "")
	if brokers != "" {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
	}
	startConsumer := func(topic string) {
		if scheduleCache == nil || brokers == "" || strings.TrimSpace(topic) == "" {
			return
		}
		cfg := consumer.Config{
			Brokers: brokers,
			GroupID: config.String("KAFKA_GROUP_ID", "availability-service"),
			Topic:   topic,
		}
		eventConsumer := consumer.New(logger, cfg, func(ctx context.Context, msg kafka.Message) error {
			var payload struct {
				BusinessID string `json:"business_id"`
			}
			if err := json.Unmarshal(msg.Value, &payload); err != nil {
				logger.Error("invalid event payload", "err", err, "topic", msg.Topic)
				return nil
			}
			if payload.BusinessID == "" {
				logger.Error("event missing business_id", "topic", msg.Topic)
				return nil
			}
			return scheduleCache.InvalidateBusiness(ctx, payload.BusinessID)
		})
		go eventConsumer.Run(ctx)
	}
	startConsumer(config.String("KAFKA_CONSUME_TOPIC", "business.schedule.updated.v1"))
	startConsumer(config.String("KAFKA_CONSUME_TOPIC_2", ""))

	availabilityHandler := handlers.NewAvailabilityHandler(checker, logger)

	mux := runtime.NewBaseMuxWithReady(readyChecks...)
	mux.HandleFunc("/api/v1/public/slots", availabilityHandler.Slots)
	mux.HandleFunc("/api/v1/public/slots/check", availabilityHandler.Check)
	mux.HandleFunc("/api/v1/public/slots/project", availabilityHandler.Project)

	middlewares := []httpx.Middleware{
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: splitCSV(config.String("CORS_ALLOWED_ORIGINS", "")),
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", httpx.RequestIDHeader},
			MaxAge:         10 * time.Minute,
		}),
	}
	limit := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	if rdb != nil {
		middlewares = append(middlewares, httpx.NewRedisRateLimiter(rdb, limit, time.Minute, service).Middleware(logger, true))
	} else {
		middlewares = append(middlewares, httpx.NewRateLimiter(limit, time.Minute).Middleware())
	}

	httpHandler := httpx.Chain(mux, middlewares...)
	httpHandler = otelhttp.NewHandler(httpHandler, "availability")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
