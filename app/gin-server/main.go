package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Natenyt/AI-Powered-Government-System/config"
	"github.com/Natenyt/AI-Powered-Government-System/internal/analysis"
	"github.com/Natenyt/AI-Powered-Government-System/internal/api/handlers"
	"github.com/Natenyt/AI-Powered-Government-System/internal/api/middleware"
	"github.com/Natenyt/AI-Powered-Government-System/internal/api/routes"
	"github.com/Natenyt/AI-Powered-Government-System/internal/cache"
	"github.com/Natenyt/AI-Powered-Government-System/internal/logger"
	"github.com/Natenyt/AI-Powered-Government-System/internal/providers/embedding"
	"github.com/Natenyt/AI-Powered-Government-System/internal/providers/llm"
	"github.com/Natenyt/AI-Powered-Government-System/internal/providers/notify"
	mongorepo "github.com/Natenyt/AI-Powered-Government-System/internal/repositories/mongo"
	pgrepo "github.com/Natenyt/AI-Powered-Government-System/internal/repositories/postgres"
	"github.com/Natenyt/AI-Powered-Government-System/internal/services"
	"github.com/Natenyt/AI-Powered-Government-System/internal/workers"
)

func main() {
	_ = godotenv.Load()
	l := logger.New()
	s := config.LoadSettings()

	if err := config.InitPostgres(); err != nil {
		l.WithError(err).Fatal("PostgreSQL init error")
	}
	if err := config.MigratePostgres(config.PostgresDB); err != nil {
		l.WithError(err).Fatal("PostgreSQL migration error")
	}
	l.Info("PostgreSQL connected")

	if err := config.InitRedis(); err != nil {
		l.WithError(err).Fatal("Redis init error")
	}
	l.Info("Redis connected")

	var traces analysis.TraceStore
	var traceRepo mongorepo.TraceRepository
	if err := config.InitMongo(); err != nil {
		l.WithError(err).Warn("MongoDB unavailable, reasoning traces disabled")
	} else {
		if err := config.EnsureMongoIndexes(s.MongoDB); err != nil {
			l.WithError(err).Warn("MongoDB index setup failed")
		}
		traceRepo = mongorepo.NewTraceRepo(config.MongoClient.Database(s.MongoDB))
		traces = traceRepo
		l.Info("MongoDB connected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	embedProvider, err := embedding.NewVertexEmbedder(ctx, s.GCPProjectID, s.GCPLocation, s.EmbeddingModel)
	if err != nil {
		l.WithError(err).Fatal("embedding client init error")
	}
	defer embedProvider.Close()

	gemini, err := llm.NewVertexGemini(ctx, s.GCPProjectID, s.GCPLocation, s.GeminiModel, llm.RoutingSchema())
	if err != nil {
		l.WithError(err).Fatal("gemini client init error")
	}
	defer gemini.Close()

	var notifier notify.Notifier
	if s.TelegramBotToken != "" {
		notifier = notify.NewTelegram(s.TelegramBotToken, s.NotifyRatePerSec)
	} else {
		l.Warn("TELEGRAM_BOT_TOKEN not set, operator notifications disabled")
	}

	db := config.PostgresDB
	departments := services.NewDepartmentService(
		pgrepo.NewDepartmentRepo(db),
		cache.NewRedisCache(config.RedisClient),
		s.DepartmentCacheTTL,
		l,
	)

	router := services.NewRouterService(services.RouterDeps{
		Messages:    pgrepo.NewMessageRepo(db),
		Sessions:    pgrepo.NewSessionRepo(db),
		Operators:   pgrepo.NewOperatorRepo(db),
		Departments: departments,
		Notifier:    notifier,
		Events:      services.NewRedisEventPublisher(config.RedisClient),
		Fanout:      s.NotifyFanout,
		Logger:      l,
	})

	reasoner := analysis.NewLLMReasoner(gemini, traces, s.ReasoningTimeout, l)
	reasoner.TTL = s.TraceTTL

	analysisSvc := services.NewAnalysisService(services.AnalysisDeps{
		Messages:    pgrepo.NewMessageRepo(db),
		Analyses:    pgrepo.NewAnalysisRepo(db),
		Traces:      traceRepo,
		Departments: departments,
		Embedder:    analysis.NewResilientEmbedder(embedProvider, analysis.DefaultEmbeddingRetry(), l),
		Search:      analysis.NewCandidateSearch(pgrepo.NewVectorRepo(db), analysis.DefaultTopK, l),
		Reasoner:    reasoner,
		Router:      router,
		Logger:      l,
	})

	pool := &workers.MessageWorkerPool{
		Redis:      config.RedisClient,
		Router:     router,
		Analysis:   analysisSvc,
		NumWorkers: s.Workers,
		Logger:     l,
	}
	if err := pool.Start(ctx); err != nil {
		l.WithError(err).Fatal("worker pool init error")
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(l))
	routes.RegisterRoutes(r, routes.Deps{
		Routing:    handlers.NewRoutingHandler(analysisSvc, router, workers.NewMessageQueue(config.RedisClient)),
		WS:         handlers.NewWSHandler(config.RedisClient),
		APIKeyHash: s.ServiceAPIKeyHash,
		JWTSecret:  s.JWTSecret,
	})

	srv := &http.Server{Addr: ":" + s.Port, Handler: r}
	go func() {
		l.WithField("port", s.Port).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.WithError(err).Fatal("http server error")
		}
	}()

	<-ctx.Done()
	l.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.WithError(err).Error("http shutdown error")
	}

	drained := make(chan struct{})
	go func() {
		pool.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-shutdownCtx.Done():
		l.Warn("worker pool did not drain before shutdown deadline")
	}
	if config.MongoClient != nil {
		_ = config.MongoClient.Disconnect(shutdownCtx)
	}
	_ = config.RedisClient.Close()
}
