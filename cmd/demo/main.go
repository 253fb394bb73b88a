package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"telegram-job-applier/internal/config"
	"telegram-job-applier/internal/domain/model"
	"telegram-job-applier/internal/infra/browser"
	pg "telegram-job-applier/internal/infra/db/postgres"
	"telegram-job-applier/internal/infra/logging"
	"telegram-job-applier/internal/usecase"
)

// Walks one application through the whole state machine against a real
// database with the noop browser stack: apply, suspend on login, resume,
// submit, then dump the audit trail.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	txm := pg.NewTxManager(pool)
	userRepo := pg.NewUserRepo(pool)
	profileRepo := pg.NewProfileRepo(pool)
	appRepo := pg.NewApplicationRepo(pool)
	historyRepo := pg.NewHistoryRepo(pool)

	auth := browser.NewNoopAuthHandler()
	auth.NeedsLogin = true
	appUC := usecase.NewApplicationUseCase(
		appRepo, historyRepo, profileRepo,
		browser.NewNoopBrowser(), browser.NewNoopFormFiller(), auth,
		logger,
	)
	userUC := usecase.NewUserUseCase(userRepo, txm, logger)
	profileUC := usecase.NewProfileUseCase(profileRepo, logger)

	user, err := userUC.RegisterOrFetch(ctx, 555000111, "DemoUser")
	if err != nil {
		log.Fatalf("user create: %v", err)
	}
	fmt.Printf("Demo user id: %s\n", user.ID)

	profile := &model.UserProfile{
		PersonalInfo: map[string]string{
			"full_name": "Demo User",
			"email":     "demo@example.com",
			"phone":     "+1-555-0100",
		},
		Skills: &model.Skills{TechnicalSkills: []string{"Go", "SQL"}},
	}
	if err := profileUC.Save(ctx, user.ID, profile); err != nil {
		log.Fatalf("profile save: %v", err)
	}

	appID, err := appUC.Start(ctx, user.ID, "https://jobs.example.com/postings/1234")
	if err != nil {
		log.Fatalf("start: %v", err)
	}
	fmt.Printf("Application #%d started\n", appID)

	res, err := appUC.Process(ctx, appID)
	if err != nil {
		log.Fatalf("process: %v", err)
	}
	fmt.Printf("First pass: %s (%s)\n", res.Status, res.Message)

	if res.Status == model.ApplicationStatusAwaitingUserInput {
		// Pretend the human logged in in the headed browser window.
		auth.NeedsLogin = false
		if _, err := appUC.HandleUserResponse(ctx, appID, "done, logged in"); err != nil {
			log.Fatalf("handle response: %v", err)
		}
		res, err = appUC.Process(ctx, appID)
		if err != nil {
			log.Fatalf("process resume: %v", err)
		}
		fmt.Printf("After resume: %s (%s)\n", res.Status, res.Message)
	}

	entries, err := appUC.History(ctx, appID)
	if err != nil {
		log.Fatalf("history: %v", err)
	}
	fmt.Println("Audit trail:")
	for _, e := range entries {
		fmt.Printf("  %s  %-14s  %v\n", e.Timestamp.Format("15:04:05"), e.EventType, e.EventData)
	}
}
