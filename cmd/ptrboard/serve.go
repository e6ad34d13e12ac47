package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ukaji3/ptrboard-go/pkg/accounts"
	"github.com/ukaji3/ptrboard-go/pkg/auth"
	"github.com/ukaji3/ptrboard-go/pkg/config"
	"github.com/ukaji3/ptrboard-go/pkg/drive"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/cache"
	"github.com/ukaji3/ptrboard-go/pkg/server"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Address = addr
			}
			if err := cfg.ValidateStore(); err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := newFileStore(cmd, cfg, logger)
			if err != nil {
				return err
			}

			results := cache.New()
			metrics := server.NewMetrics()
			metrics.WatchCache(results)
			dashboard := ptrboard.NewDashboard(store, cfg.DashboardOptions(),
				ptrboard.WithLogger(logger),
				ptrboard.WithCache(results),
				ptrboard.WithNormalizeObserver(metrics.ObserveNormalize),
			)

			accts := accounts.NewStore(cfg.Accounts.CSVFile)
			if err := accts.Init(); err != nil {
				return fmt.Errorf("failed to initialize accounts: %w", err)
			}

			srv := server.New(dashboard, accts, auth.NewSessionStore(cfg.Server.SessionTTL),
				server.WithLogger(logger),
				server.WithMetrics(metrics),
				server.WithLocation(cfg.Location()),
			)
			return srv.Run(ctx, cfg.Server.Address, cfg.Server.ShutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.address)")
	return cmd
}

func newFileStore(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (ptrboard.FileStore, error) {
	if cfg.Drive.LocalDir != "" {
		logger.Info("serving local workbooks", slog.String("dir", cfg.Drive.LocalDir))
		return drive.NewLocalFolder(cfg.Drive.LocalDir), nil
	}

	client, err := drive.New(cmd.Context(), drive.Config{
		FolderID:        cfg.Drive.FolderID,
		CredentialsFile: cfg.Drive.CredentialsFile,
		BaseURL:         cfg.Drive.BaseURL,
		Timeout:         cfg.Drive.Timeout,
		ChunkSize:       cfg.Drive.ChunkSize,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}
	logger.Info("serving drive folder", slog.String("folder_id", cfg.Drive.FolderID))
	return client, nil
}
