// Command catalog-backend serves the product and cart REST API that the
// storefront BFF sits in front of.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(config.LoadBackend()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "catalog-backend: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Backend) *cobra.Command {
	root := &cobra.Command{
		Use:           "catalog-backend",
		Short:         "Product catalog and cart REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "Postgres connection string")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")

	root.AddCommand(
		newServeCmd(&cfg),
		newMigrateCmd(&cfg),
		newSeedCmd(&cfg),
	)
	return root
}

func newLogger(cfg *config.Backend) (*zap.Logger, error) {
	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", "catalog-backend")), nil
}
