package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/aptitude-quiz/internal/bank"
	"github.com/stemsi/aptitude-quiz/internal/config"
	"github.com/stemsi/aptitude-quiz/internal/database"
	"github.com/stemsi/aptitude-quiz/internal/handler"
	"github.com/stemsi/aptitude-quiz/internal/logger"
	"github.com/stemsi/aptitude-quiz/internal/middleware"
	"github.com/stemsi/aptitude-quiz/internal/quiz"
	"github.com/stemsi/aptitude-quiz/internal/repository"
	"github.com/stemsi/aptitude-quiz/internal/router"
	"github.com/stemsi/aptitude-quiz/internal/service"
	"github.com/stemsi/aptitude-quiz/internal/validator"
	"github.com/stemsi/aptitude-quiz/internal/worker"
)

const sweepInterval = time.Minute

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("session_store", cfg.SessionStore).
		Msg("Starting Aptitude Quiz")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Load Question Banks ───────────────────────────────────────────
	manifest, err := bank.LoadManifest(cfg.BankManifest)
	if err != nil {
		log.Fatal().Err(err).Str("manifest", cfg.BankManifest).Msg("Failed to read bank manifest")
	}
	pool, err := bank.Load(manifest)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load question banks")
	}
	log.Info().Int("questions", pool.Len()).Int("sources", len(manifest.Sources)).Msg("Question banks loaded")
	if n := pool.Degenerate(); n > 0 {
		log.Warn().Int("questions", n).Msg("Questions with an answer letter outside A-D can never be answered correctly")
	}

	// ─── Session Store ─────────────────────────────────────────────────
	var (
		sessionRepo repository.SessionRepository
		sweepTasks  []worker.SweepTask
	)
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		sessionRepo = repository.NewRedisSessionRepository(rdb, cfg.SessionTTL)
	case config.SessionStoreMemory:
		memRepo := repository.NewMemorySessionRepository(cfg.SessionTTL)
		sessionRepo = memRepo
		sweepTasks = append(sweepTasks, worker.SweepTask{Name: "sessions", Run: memRepo.Sweep})
	default:
		log.Fatal().Str("session_store", cfg.SessionStore).Msg("Unknown session store")
	}

	// ─── Initialize Services ──────────────────────────────────────────
	clock := quiz.SystemClock{}
	controller := quiz.NewController(quiz.NewRand(cfg.RandomSeed), clock)
	quizService := service.NewQuizService(pool, sessionRepo, controller, clock, log)
	ticketService := service.NewTicketService(cfg.TicketSecret, cfg.TicketTTL)

	createLimiter := middleware.NewRateLimiter(cfg.CreateRatePerMinute, time.Minute)
	sweepTasks = append(sweepTasks, worker.SweepTask{Name: "rate_limiter", Run: createLimiter.Cleanup})

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Quiz:   handler.NewQuizHandler(quizService, ticketService, log),
		WS:     handler.NewWSHandler(quizService, log, cfg.AllowedOrigins),
		System: handler.NewSystemHandler(pool.Len(), cfg.SessionStore),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	sweeper := worker.NewSweepWorker(sweepInterval, log, sweepTasks...)
	go sweeper.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ticketService, createLimiter, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
