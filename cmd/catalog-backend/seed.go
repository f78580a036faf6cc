package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/backend/store"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
)

func newSeedCmd(cfg *config.Backend) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the sample catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			pool, err := db.NewPool(cmd.Context(), cfg.DatabaseDSN)
			if err != nil {
				return fmt.Errorf("db connect: %w", err)
			}
			defer pool.Close()

			n, err := store.Seed(cmd.Context(), store.NewRepository(pool), store.SampleProducts(), force)
			if err != nil {
				return err
			}
			logger.Info("seed complete", zap.Int("inserted", n))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "insert even when products already exist")
	return cmd
}
