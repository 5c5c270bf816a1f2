package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	apiserver "github.com/KristinSchanks/healthcare-qms/internal/api/server"
	"github.com/KristinSchanks/healthcare-qms/internal/auth"
	"github.com/KristinSchanks/healthcare-qms/internal/config"
	database "github.com/KristinSchanks/healthcare-qms/internal/db"
	"github.com/KristinSchanks/healthcare-qms/internal/metrics"
	"github.com/KristinSchanks/healthcare-qms/internal/session"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Setup Configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := config.SetupLogging(cfg.Log); err != nil {
		return err
	}

	// 2. Initialize Infrastructure
	db, err := database.New(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// 3. Run Database Migrations
	if err := db.AutoMigrate(); err != nil {
		return err
	}

	// 4. Credentials
	credentials, err := loadCredentials(cfg)
	if err != nil {
		return err
	}

	// 5. Sessions
	store, err := session.NewStore(ctx, cfg, db.DB)
	if err != nil {
		return err
	}
	sessions := session.NewManager(store, []byte(cfg.Server.SecretKey), cfg.Session.CookieName, cfg.Session.Secure)

	// 6. Setup Metrics
	metrics.RegisterMetrics()
	metricsSrv := metrics.Serve(cfg.Server.MetricsAddr)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	// 7. Start Server
	srv, err := apiserver.New(cfg, db, credentials, sessions)
	if err != nil {
		return err
	}
	return srv.Run(ctx, cfg.Server.Addr)
}

func loadCredentials(cfg *config.Config) (*auth.Store, error) {
	if len(cfg.Users) == 0 {
		log.Warn("⚠️ No users configured, falling back to the built-in demo accounts")
		accounts, err := auth.DefaultAccounts(cfg.Auth.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("build default accounts: %w", err)
		}
		return auth.NewStore(accounts)
	}

	accounts := make([]auth.Account, 0, len(cfg.Users))
	for _, u := range cfg.Users {
		accounts = append(accounts, auth.Account{
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Role:         u.Role,
		})
	}
	store, err := auth.NewStore(accounts)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	log.Infof("✅ Loaded %d user(s)", store.Len())
	return store, nil
}
