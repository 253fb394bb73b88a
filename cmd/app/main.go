package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"telegram-job-applier/internal/application"
	"telegram-job-applier/internal/config"
	"telegram-job-applier/internal/domain/ports/adapter"
	aiAdapters "telegram-job-applier/internal/infra/adapters/ai"
	tele "telegram-job-applier/internal/infra/adapters/telegram"
	"telegram-job-applier/internal/infra/browser"
	pg "telegram-job-applier/internal/infra/db/postgres"
	"telegram-job-applier/internal/infra/logging"
	red "telegram-job-applier/internal/infra/redis"
	"telegram-job-applier/internal/infra/sched"
	"telegram-job-applier/internal/infra/web"
	"telegram-job-applier/internal/infra/worker"
	"telegram-job-applier/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop browser and AI)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	rateLimiter := red.NewRateLimiter(redisClient)
	pendingRepo := red.NewPendingInputRepo(redisClient, cfg.Redis.TTL)

	// ---- Repositories ----
	txm := pg.NewTxManager(pool)
	userRepo := pg.NewUserRepo(pool)
	profileRepo := pg.NewProfileRepo(pool)
	appRepo := pg.NewApplicationRepo(pool)
	historyRepo := pg.NewHistoryRepo(pool)

	// ---- Browser stack ----
	var (
		browserAdp adapter.BrowserAutomation
		formsAdp   adapter.FormFiller
		authAdp    adapter.AuthHandler
	)
	if cfg.Runtime.Dev {
		browserAdp = browser.NewNoopBrowser()
		formsAdp = browser.NewNoopFormFiller()
		authAdp = browser.NewNoopAuthHandler()
	} else {
		pw, err := browser.NewPlaywrightBrowser(&cfg.Browser, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("playwright")
		}
		defer func() { _ = pw.Close() }()
		browserAdp = pw
		formsAdp = browser.NewFormFiller(pw.Page(), logger)
		authAdp = browser.NewAuthHandler(pw.Page(), logger)
	}

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, txm, logger)
	profileUC := usecase.NewProfileUseCase(profileRepo, logger)
	appUC := usecase.NewApplicationUseCase(appRepo, historyRepo, profileRepo, browserAdp, formsAdp, authAdp, logger)

	// ---- Answer generator (OpenAI -> Gemini -> noop) ----
	var answers adapter.AnswerGenerator
	switch {
	case cfg.Runtime.Dev:
		answers = aiAdapters.NewNoopAnswerGenerator()
	case cfg.AI.OpenAIKey != "":
		answers, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel, cfg.AI.MaxTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("answer generator: OpenAI")
	case cfg.AI.GeminiKey != "":
		answers, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel, cfg.AI.MaxTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("answer generator: Gemini")
	default:
		logger.Warn().Msg("no AI provider configured; answer drafting disabled")
		answers = aiAdapters.NewNoopAnswerGenerator()
	}

	// ---- Facade + workers ----
	pool2 := worker.NewPool(4)
	pool2.Start(ctx)
	defer pool2.Stop()

	facade := application.NewBotFacade(userUC, profileUC, appUC, pendingRepo, answers)

	// ---- Telegram ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, userRepo, facade, rateLimiter, cfg.Bot.Workers)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}
	facade.WithAsync(botAdapter, func(task func(ctx context.Context) error) error {
		return pool2.Submit(task)
	})
	if strings.ToLower(cfg.Bot.Mode) != "polling" {
		logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot mode not implemented; falling back to polling")
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Admin HTTP server ----
	adminSrv := web.NewServer(appUC, userUC, &cfg.Admin, logger)
	go func() {
		if err := adminSrv.Start(); err != nil {
			logger.Error().Err(err).Msg("admin server stopped")
		}
	}()
	defer func() { _ = adminSrv.Shutdown(context.Background()) }()

	// ---- Reminder worker ----
	reminder := sched.NewReminderWorker(cfg.Scheduler.ReminderInterval, cfg.Scheduler.WaitingThreshold, appRepo, userRepo, botAdapter, logger)
	go func() { _ = reminder.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
}
