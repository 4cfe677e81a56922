// Command petup runs the pet-care messaging assistant: the conversation loop
// on the messaging channel plus the staff admin HTTP API.
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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Lehmann-Bruno/petup-assistant/internal/channel"
	"github.com/Lehmann-Bruno/petup-assistant/internal/config"
	httpapi "github.com/Lehmann-Bruno/petup-assistant/internal/http"
	"github.com/Lehmann-Bruno/petup-assistant/internal/llm"
	"github.com/Lehmann-Bruno/petup-assistant/internal/observability"
	"github.com/Lehmann-Bruno/petup-assistant/internal/ratelimit"
	"github.com/Lehmann-Bruno/petup-assistant/internal/repo"
	"github.com/Lehmann-Bruno/petup-assistant/internal/reports"
	"github.com/Lehmann-Bruno/petup-assistant/internal/services"
)

const version = "1.0.0"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	setupLogging(cfg)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(c); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	archive, err := reports.Open(cfg.ReportsDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.ReportsDir).Msg("open report archive")
	}

	if cfg.Model.APIKey == "" {
		log.Fatal().Msg("OPENAI_API_KEY is required")
	}
	backend := llm.NewOpenAIBackend(cfg.Model.APIKey, cfg.Model.Name, int64(cfg.Model.MaxTokens), cfg.Model.Timeout)

	// Conversation core wiring.
	sessions := services.NewSessionManager(db, services.GormConversationRepo{})
	sessions.IdleReset = cfg.Session.IdleReset
	sessions.DelayAfter = cfg.Session.DelayAfter
	sessions.ThinkingDelay = cfg.Session.ThinkingDelay
	sessions.KeepTurns = cfg.Session.KeepTurns
	sessions.ContextTurns = cfg.Session.ContextTurns

	refs := services.NewRefStore()
	archiveAdapter := services.ArchiveAdapter{A: archive}

	console := channel.NewConsole(os.Stdin, os.Stdout, log.Logger)

	dispatcher := services.NewDispatcher(db, services.GormPetRepo{}, services.GormPendingRepo{},
		archiveAdapter, console, refs, log.Logger, cfg.BusinessName, cfg.DemoPets)

	orch := services.NewOrchestrator(
		sessions,
		services.NewTopicGuard(services.DefaultDenyList()),
		backend,
		dispatcher,
		services.NewConfirmResolver(refs, archiveAdapter),
		ratelimit.NewKeyed(cfg.RateRPS, cfg.RateBurst),
		log.Logger,
		cfg.BusinessName,
	)

	// Staff admin API.
	engine := gin.New()
	httpapi.RegisterRoutes(engine, db, cfg)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("admin api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("admin api server")
			stop()
		}
	}()

	// Conversation loop.
	go console.Run(ctx)
	log.Info().Str("business", cfg.BusinessName).Msg("assistant ready")
	if err := orch.Run(ctx, console); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("conversation loop")
	}

	// Graceful shutdown of the admin server.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("admin api shutdown")
	}
	log.Info().Msg("bye")
}

// setupLogging configures the global zerolog logger from config.
func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
