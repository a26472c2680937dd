package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/artistritesh/Job-Alerts/internal/config"
	"github.com/artistritesh/Job-Alerts/internal/logging"
	"github.com/artistritesh/Job-Alerts/internal/mailer"
	"github.com/artistritesh/Job-Alerts/internal/pdf"
	"github.com/artistritesh/Job-Alerts/internal/runlock"
	"github.com/artistritesh/Job-Alerts/internal/runner"
	"github.com/artistritesh/Job-Alerts/internal/search"
	"github.com/artistritesh/Job-Alerts/internal/secrets"
	"github.com/artistritesh/Job-Alerts/internal/telegram"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "store-password" {
		os.Exit(storePassword())
	}
	os.Exit(run())
}

// storePassword saves the SMTP password read from stdin into the OS keychain
// under SMTP_USERNAME and SMTP_SERVER.
func storePassword() int {
	_ = godotenv.Load()
	logger := logging.New(os.Getenv("LOG_LEVEL"))

	username := os.Getenv("SMTP_USERNAME")
	server := os.Getenv("SMTP_SERVER")
	if server == "" {
		server = config.Default().SMTP.Server
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		logger.Error("failed to read password", "error", err)
		return 1
	}
	if err := secrets.SetSMTPPassword(username, server, strings.TrimSpace(line)); err != nil {
		logger.Error("failed to store password", "error", err)
		return 1
	}
	logger.Info("password stored", "account", secrets.SMTPKeyringAccount(username, server))
	return 0
}

func run() int {
	//bootstrap logger until the config says otherwise
	logger := logging.New(os.Getenv("LOG_LEVEL"))

	//load config
	cfg, err := config.Load(os.Args[1:], logger)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return 1
	}
	logger = logging.New(cfg.LogLevel)
	logger.Info("config loaded", "keywords", cfg.Keywords, "locations", cfg.Locations, "dry_run", cfg.DryRun)

	//one run at a time
	lockPath := cfg.LockPath
	if lockPath == "" {
		lockPath = runlock.DefaultPath()
	}
	lock, err := runlock.Acquire(lockPath)
	if errors.Is(err, runlock.ErrLocked) {
		logger.Info("another run is in progress, exiting", "lock", lockPath)
		return 0
	}
	if err != nil {
		logger.Error("failed to take run lock", "lock", lockPath, "error", err)
		return 1
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release run lock", "error", err)
		}
	}()

	deliverers, err := buildDeliverers(cfg, logger)
	if err != nil {
		logger.Error("failed to set up delivery", "error", err)
		return 1
	}

	searcher := search.NewSerpAPIClient(search.SerpAPIConfig{
		APIKey:            cfg.SerpAPI.APIKey,
		BaseURL:           cfg.SerpAPI.BaseURL,
		MaxResults:        cfg.MaxResultsPerQuery,
		RequestsPerSecond: cfg.SerpAPI.RequestsPerSecond,
	})

	//setup context with timeout = 10 mins
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	logger.Info("starting job alerts run")
	start := time.Now()
	res, err := runner.New(cfg, searcher, logger, deliverers...).Run(ctx)
	if err != nil {
		logger.Error("run aborted", "error", err)
		return 1
	}
	logger.Info("run finished",
		"queries", res.Queries,
		"failed_queries", res.FailedQueries,
		"fetched", res.Fetched,
		"kept", res.Stats.Kept,
		"delivered", res.Delivered,
		"delivery_errors", len(res.DeliveryErrors),
		"took", time.Since(start).Round(time.Millisecond))
	return 0
}

func buildDeliverers(cfg *config.Config, logger *slog.Logger) ([]runner.Deliverer, error) {
	if cfg.DryRun {
		return nil, nil
	}

	password, err := secrets.SMTPPassword(cfg.SMTP.Password, cfg.SMTP.Username, cfg.SMTP.Server)
	if err != nil {
		return nil, err
	}

	opts := []mailer.Option{mailer.WithLogger(logger.With("component", "mailer"))}
	if cfg.AttachPDF {
		opts = append(opts, mailer.WithPDF(pdf.NewGenerator()))
	}
	deliverers := []runner.Deliverer{
		mailer.New(mailer.Config{
			Server:      cfg.SMTP.Server,
			Port:        cfg.SMTP.Port,
			Security:    cfg.SMTP.Security,
			Username:    cfg.SMTP.Username,
			Password:    password,
			SenderEmail: cfg.SMTP.SenderEmail,
			SenderName:  cfg.SMTP.SenderName,
		}, opts...),
	}

	if cfg.Telegram.Enabled() {
		bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID, logger.With("component", "telegram"))
		if err != nil {
			//telegram is a mirror, email still goes out
			logger.Warn("telegram disabled", "error", err)
		} else {
			deliverers = append(deliverers, bot)
		}
	}
	return deliverers, nil
}
