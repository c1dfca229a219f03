package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"teebay-client/internal/api"
	"teebay-client/internal/clock"
	"teebay-client/internal/config"
	"teebay-client/internal/store"
	"teebay-client/internal/timewindow"
)

const appName = "TeebayClient"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("INFO: .env file not found or error loading, relying on system environment variables.")
	}
	logger := log.New(os.Stdout, fmt.Sprintf("[%s] ", appName), log.LstdFlags|log.Lmicroseconds)
	logger.Println("INFO: Starting client...")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("FATAL: Error loading configuration: %v", err)
	}
	logger.Printf("INFO: Configuration loaded for APP_ENV: %s, endpoint: %s", cfg.AppEnv, cfg.API.BaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session := api.NewSession(logger)
	client := api.NewClient(cfg.API.BaseURL, session, cfg.API.Timeout, logger)

	if cfg.Auth.Email != "" {
		token, err := client.Login(ctx, cfg.Auth.Email, cfg.Auth.Password)
		if err != nil {
			logger.Fatalf("FATAL: Login failed: %v", err)
		}
		session.SetToken(token)
		logger.Printf("INFO: Signed in as %s", cfg.Auth.Email)
	} else {
		logger.Println("INFO: No credentials configured, browsing unauthenticated.")
	}

	catalog := store.NewPageStore(client, store.ScopeAll, cfg.Catalog.PageSize, logger)
	if err := catalog.Load(ctx, 0); err != nil {
		logger.Fatalf("FATAL: Loading catalog failed: %v", err)
	}

	items := catalog.Items()
	logger.Printf("INFO: Catalog page %d of %d (%d listings total)",
		catalog.PageIndex()+1, catalog.TotalPages(), catalog.TotalElements())
	for _, p := range items {
		line := fmt.Sprintf("  #%d %s [%s]", p.ID, p.Title, p.AvailabilityStatus)
		if p.ForRent() {
			line += fmt.Sprintf(" rent %.2f %s", *p.Rent, *p.TypeOfRent)
		}
		if p.RentStartTime != nil && p.RentEndTime != nil {
			if start, err := timewindow.ParseWire(*p.RentStartTime); err == nil {
				line += fmt.Sprintf(" booked from %s", timewindow.FormatForDisplay(start))
			}
		}
		fmt.Println(line)
	}

	today := timewindow.TodayFloor(clock.NewSystem())
	logger.Printf("INFO: Earliest selectable rental start: %s", today.Format("2006-01-02"))
	logger.Println("INFO: Done.")
}
