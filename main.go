package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rmateos/bookline/internal/agent"
	"github.com/rmateos/bookline/internal/booking"
	"github.com/rmateos/bookline/internal/cal"
	"github.com/rmateos/bookline/internal/config"
	"github.com/rmateos/bookline/internal/conversation"
	"github.com/rmateos/bookline/internal/database"
	"github.com/rmateos/bookline/internal/extract"
	"github.com/rmateos/bookline/internal/notify"
	"github.com/rmateos/bookline/internal/observability/metrics"
	"github.com/rmateos/bookline/internal/openai"
	"github.com/rmateos/bookline/internal/server"
	"github.com/rmateos/bookline/internal/sheets"
	"github.com/rmateos/bookline/internal/twilio"
)

func main() {
	cfg := config.LoadFromEnv()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		fatal("loading timezone", err)
	}

	db, err := database.New(cfg.DBPath)
	if err != nil {
		fatal("creating database", err)
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	agentMetrics := metrics.NewAgentMetrics(registry)

	sender := initSender(cfg)
	openaiClient := initOpenAI(cfg)
	calClient := cal.NewClient(cfg.CalAPIKey, cfg.CalEventTypeID, cfg.CalAccountUser, cfg.Timezone)
	if !calClient.IsConfigured() {
		fmt.Println("Warning: CAL_API_KEY not set, bookings will fail validation")
	}

	ctx := context.Background()
	sheetSink := initSheets(ctx, cfg)
	notifyService := initNotifyService(cfg)

	machine := conversation.NewMachine(conversation.NewStore())
	extractor := extract.New(openaiClient, loc)
	reconciler := booking.NewReconciler(
		calClient, sender, loc,
		cfg.MinimumNoticeHours, cfg.EventDurationMin, cfg.AvailabilityDays,
	)
	reconciler.SetRetryObserver(agentMetrics)

	app := agent.New(agent.Options{
		Extractor:   extractor,
		Machine:     machine,
		Booker:      reconciler,
		Messenger:   sender,
		Transcriber: openaiClient,
		Downloader:  sender,
		DB:          db,
		Sheet:       sheetSink,
		Notifier:    notifyService,
		Metrics:     agentMetrics,
	})

	srv := server.New(server.ServerConfig{
		DB:       db,
		Handler:  app,
		Config:   cfg,
		Port:     cfg.HTTPPort,
		Registry: registry,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "HTTP server error: %v\n", err)
		}
	}()

	fmt.Printf("Bookline running (timezone %s, event type %d)\n", cfg.Timezone, cfg.CalEventTypeID)
	fmt.Printf("Webhook: http://localhost:%d/webhook/whatsapp\n", cfg.HTTPPort)

	waitForShutdown(srv)
}

func initSender(cfg *config.Config) *twilio.Sender {
	sender := twilio.NewSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhone)
	if !sender.IsConfigured() {
		fmt.Println("Warning: Twilio credentials not set, outbound messages disabled")
	}
	return sender
}

func initOpenAI(cfg *config.Config) *openai.Client {
	if cfg.OpenAIAPIKey == "" {
		fmt.Println("Warning: OPENAI_API_KEY not set, using fallback extraction only")
	}
	return openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.ExtractionTemp)
}

func initSheets(ctx context.Context, cfg *config.Config) *sheets.Sink {
	sink, err := sheets.NewSink(ctx, cfg.SheetsID, cfg.SheetsCredentialsFile)
	if err != nil {
		fmt.Printf("Warning: Google Sheets sink disabled: %v\n", err)
		return nil
	}
	if sink.IsConfigured() {
		fmt.Println("Google Sheets sink configured")
	}
	return sink
}

func initNotifyService(cfg *config.Config) *notify.Service {
	var emailNotifier notify.Notifier
	if cfg.ResendAPIKey != "" {
		resendNotifier := notify.NewResendNotifier(cfg.ResendAPIKey, cfg.EmailFrom, cfg.OperatorEmail)
		if resendNotifier.IsConfigured() {
			fmt.Println("Operator email alerts configured (Resend)")
			emailNotifier = resendNotifier
		}
	}
	return notify.NewService(emailNotifier)
}

func fatal(context string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
	os.Exit(1)
}

func waitForShutdown(srv *server.Server) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	fmt.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv.Shutdown(ctx)
}
