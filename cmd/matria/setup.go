package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sandevgo/matria/internal/config"
	"github.com/sandevgo/matria/internal/orchestrator"
	"github.com/sandevgo/matria/internal/service/notify"
	"github.com/sandevgo/matria/internal/service/session"
	"github.com/sandevgo/matria/internal/service/triage"
	"github.com/sandevgo/matria/internal/storage/sqlite"
	"github.com/sandevgo/matria/internal/transport/cli"
	"github.com/sandevgo/matria/internal/transport/httpapi"
	"github.com/sandevgo/matria/pkg/env"
	"github.com/sandevgo/matria/pkg/log"
	"github.com/sandevgo/matria/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	err := initEnv(ctx, config.GetRuntimePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	notifyCfg := config.NewNotifyConfig(ctx)

	// 2. Storage
	db, turnsRepo, learningRepo, err := initStorage(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	// 3. Escalation dispatch
	escalations := notify.NewEscalations(notifyCfg)
	services = append(services, escalations)

	// 4. Triage Service
	svc := triage.NewService(
		appCfg,
		session.NewMemoryStore(appCfg.HistoryWindowSize),
		orchestrator.New(),
		turnsRepo,
		learningRepo,
		escalations,
	)

	// 5. Transports
	transports, err := initTransports(ctx, appCfg, svc)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	services = append(services, transports...)

	return services
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*sql.DB, *sqlite.TurnsRepo, *sqlite.LearningRepo, error) {
	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		return nil, nil, nil, err
	}
	return db, sqlite.NewTurnsRepo(db), sqlite.NewLearningRepo(db), nil
}

func initTransports(ctx context.Context, cfg *config.AppConfig, svc *triage.Service) ([]srv.Service, error) {
	var services []srv.Service

	if cfg.EnableHTTP {
		serverCfg := config.NewServerConfig(ctx)
		services = append(services, httpapi.NewServer(serverCfg, svc))
	}

	if cfg.EnableCLI {
		rl, err := cli.NewReadLine(svc, cfg)
		if err != nil {
			return nil, err
		}
		services = append(services, rl)
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write a starter .env into the runtime directory",
	Long:  `Creates the runtime directory and writes a .env file populated with the current configuration defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()
		logger := log.FromCtx(ctx)

		runtimePath := config.GetRuntimePath()
		if err := os.MkdirAll(runtimePath, 0755); err != nil {
			return fmt.Errorf("failed to create runtime directory: %w", err)
		}

		envFile := filepath.Join(runtimePath, ".env")
		if _, err := os.Stat(envFile); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", envFile)
		}

		var content string
		for _, cfg := range []any{
			config.NewAppConfig(ctx),
			config.NewServerConfig(ctx),
			config.NewNotifyConfig(ctx),
		} {
			part, err := env.MarshalEnv(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			content += part
		}

		if err := os.WriteFile(envFile, []byte(content), 0600); err != nil {
			return fmt.Errorf("failed to write .env: %w", err)
		}

		logger.Info().Str("path", envFile).Msg("starter .env written")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
