package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"valuebot/internal/auth"
	"valuebot/internal/bot"
	"valuebot/internal/config"
	"valuebot/internal/ev"
	"valuebot/internal/handlers"
	"valuebot/internal/oddsapi"
	"valuebot/internal/service"
	"valuebot/internal/storage"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize SQLite database
	log.Printf("Initializing database at: %s", cfg.DatabasePath)
	if err := storage.InitDB(cfg.DatabasePath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer storage.CloseDB()

	// Odds API client, shared by both workers so the rate limiter covers
	// the full request budget
	client, err := oddsapi.NewClient(oddsapi.Config{
		BaseURL:           cfg.OddsAPI.BaseURL,
		APIKey:            os.Getenv("ODDS_API_KEY"),
		Regions:           cfg.OddsAPI.Regions,
		TimeoutSeconds:    cfg.OddsAPI.TimeoutSeconds,
		RequestsPerMinute: cfg.OddsAPI.RequestsPerMinute,
	})
	if err != nil {
		log.Fatalf("Failed to create odds API client: %v", err)
	}

	// Telegram bot delivers alerts and serves /report, /open
	tgBot, err := bot.New(cfg.Telegram.ChatID)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}
	go tgBot.Start()

	// Dedup ledger warmed from the store so restarts never re-alert
	ledger, err := service.NewDedupLedger()
	if err != nil {
		log.Fatalf("Failed to build dedup ledger: %v", err)
	}

	scanWorker := service.NewScanWorker(
		client,
		cfg.Scan.Sports,
		ev.Config{
			TrustedBooks:    cfg.Detection.TrustedBooks,
			MinEV:           cfg.Detection.MinEV,
			MajorEVOverride: cfg.Detection.MajorEVOverride,
			MaxEV:           cfg.Detection.MaxEV,
			MaxHoursToStart: cfg.Detection.MaxHoursToStart,
			OutlierRatio:    cfg.Detection.OutlierRatio,
		},
		cfg.Staking.Bands,
		ledger,
		tgBot,
		time.Duration(cfg.Scan.IntervalMinutes)*time.Minute,
	)
	scanWorker.Start()
	defer scanWorker.Stop()

	settlementWorker := service.NewSettlementWorker(
		client,
		cfg.Settlement.DaysFrom,
		time.Duration(cfg.Settlement.IntervalMinutes)*time.Minute,
	)
	settlementWorker.Start()
	defer settlementWorker.Stop()

	// Read-only JSON API behind token auth
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("/ping", handlers.PingHandler)
	apiMux.HandleFunc("/bets", handlers.HandleBets)
	apiMux.HandleFunc("/roi", handlers.HandleROI)

	mux := http.NewServeMux()
	mux.Handle("/api/", auth.Middleware(http.StripPrefix("/api", apiMux)))

	addr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Printf("Server starting on %s", addr)
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	tgBot.Stop()
}
