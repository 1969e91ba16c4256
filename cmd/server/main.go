package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alumind-feedback/internal/classifier"
	"alumind-feedback/internal/config"
	"alumind-feedback/internal/handlers"
	"alumind-feedback/internal/llm"
	"alumind-feedback/internal/metrics"
	"alumind-feedback/internal/notify"
	"alumind-feedback/internal/report"
	"alumind-feedback/internal/repository"
)

const serviceName = "alumind-feedback"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Connect to the feedback store
	store, err := repository.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("❌ Failed to open %s store: %v", cfg.Store.Driver, err)
	}

	// Language model clients
	clients, err := llm.NewFromConfig(ctx, cfg.Model, m)
	if err != nil {
		log.Fatalf("❌ Failed to create model client: %v", err)
	}
	log.Printf("🤖 Using model %s", clients.Classifier.Name())

	// Report delivery: Resend when configured, log only otherwise
	var notifier notify.Notifier
	if cfg.Mail.ResendAPIKey == "" {
		log.Println("⚠️  RESEND_API_KEY not set, weekly reports will only be logged")
		notifier = notify.NewLogNotifier()
	} else {
		notifier, err = notify.NewResendNotifier(cfg.Mail.ResendAPIKey, cfg.Mail.From, cfg.Mail.To)
		if err != nil {
			log.Fatalf("❌ Failed to configure email: %v", err)
		}
	}

	pipeline := classifier.NewPipeline(store, clients.Classifier, m, cfg.Intake.MaxFeedbackLength)
	reports := report.NewService(store, clients.Reporter, notifier, m, cfg.Report.Window)

	weekday, _ := cfg.Report.ReportWeekday()
	scheduler := report.NewScheduler(reports, weekday, cfg.Report.Hour, cfg.Report.Minute, cfg.Report.PollInterval)
	scheduler.Start(ctx)

	if cfg.Auth.JWTSecret == "" {
		log.Println("⚠️  JWT_SECRET not set, admin routes disabled")
	}

	r := handlers.NewRouter(handlers.RouterConfig{
		ServiceName:       serviceName,
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		JWTSecret:         cfg.Auth.JWTSecret,
		DashboardCacheTTL: cfg.Dashboard.CacheTTL,
		Classifier:        pipeline,
		Reports:           reports,
		Metrics:           m,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		log.Printf("🚀 AluMind feedback service starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  HTTP shutdown: %v", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Printf("⚠️  Store close: %v", err)
	}
}
