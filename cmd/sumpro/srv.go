package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sumpro/internal/blobstore"
	"sumpro/internal/config"
	"sumpro/internal/mail"
	"sumpro/internal/server"
	"sumpro/internal/store"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the sumpro API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if err := configureDefaultLogger(); err != nil {
				return err
			}
			logger := slog.Default().With("component", "server")

			addr, err := server.ListenAddr(cfg.APIURL)
			if err != nil {
				return err
			}

			dbPath := cfg.DBPath
			if dbPath == "" {
				dbPath = config.DefaultDBFileName
			}
			logger.Info("opening database", "path", dbPath)
			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			resumes, uploadsDir, err := buildResumeStore(cfg, dbPath)
			if err != nil {
				return err
			}

			mailer, err := buildMailer(cfg, logger)
			if err != nil {
				return err
			}

			if err := bootstrapAdmin(cmd.Context(), st, logger); err != nil {
				return err
			}

			srv := server.New(addr, server.Options{
				Applications:       st,
				Auth:               st,
				Resumes:            resumes,
				Mailer:             mailer,
				UploadsDir:         uploadsDir,
				MaxResumeBytes:     cfg.Uploads.MaxResumeBytes,
				MultipartMaxMemory: cfg.Uploads.MultipartMaxMemory,
				Logger:             logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
}

func buildResumeStore(cfg *config.Config, dbPath string) (blobstore.ResumeStore, string, error) {
	switch cfg.Storage.Mode {
	case config.StorageModeRemote:
		rs, err := blobstore.NewRemote(
			cfg.Storage.Endpoint,
			os.Getenv(config.StorageAPIKeyEnvKey),
			os.Getenv(config.StorageAPISecretEnvKey),
			cfg.Storage.Folder,
		)
		return rs, "", err
	case config.StorageModeLocal, "":
		dir := cfg.Storage.LocalDir
		if dir == "" {
			dir = filepath.Join(filepath.Dir(dbPath), "uploads")
		}
		ls, err := blobstore.NewLocalDir(dir)
		if err != nil {
			return nil, "", err
		}
		return ls, ls.Root(), nil
	default:
		return nil, "", fmt.Errorf("unknown storage mode %q", cfg.Storage.Mode)
	}
}

func buildMailer(cfg *config.Config, logger *slog.Logger) (mail.Sender, error) {
	if cfg.Mail.Host == "" || cfg.Mail.From == "" {
		logger.Warn("mail not configured; contact relay disabled")
		return nil, nil
	}
	return mail.NewSMTPSender(
		cfg.Mail.Host,
		cfg.Mail.Port,
		cfg.Mail.Username,
		os.Getenv(config.SMTPPasswordEnvKey),
		cfg.Mail.From,
		cfg.Mail.To,
	)
}

// bootstrapAdmin provisions the first admin account from the bootstrap
// env vars. It only runs against an empty user table, so a forgotten env
// var can never overwrite or duplicate existing accounts.
func bootstrapAdmin(ctx context.Context, st *store.Store, logger *slog.Logger) error {
	email := os.Getenv(config.BootstrapEmailEnvKey)
	password := os.Getenv(config.BootstrapPassEnvKey)
	if email == "" || password == "" {
		return nil
	}

	count, err := st.CountEnabledUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	authService := server.NewAuthService(st)
	created, err := authService.CreateAdminUser(ctx, email, password, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	logger.Info("bootstrapped admin user", "email", created.Email, "id", created.ID)
	return nil
}
