package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/wichananm65/gift-store-backend/internal/analytics"
	"github.com/wichananm65/gift-store-backend/internal/config"
	"github.com/wichananm65/gift-store-backend/internal/database"
	"github.com/wichananm65/gift-store-backend/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the relational schema and document indexes",
	Long: `Create the products, catalog_items and settings tables in Postgres and the
analytics index in Mongo. Every step is idempotent; backends without a
connection string are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context())
	},
}

func runMigrate(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, cfg.IsProduction())
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.DatabaseURL == "" && cfg.MongoURI == "" {
		return errors.New("neither DATABASE_URL nor MONGO_URI is set")
	}

	if cfg.DatabaseURL != "" {
		db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		log.Info("postgres schema up to date")
	}

	if cfg.MongoURI != "" {
		client, err := database.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return err
		}
		defer client.Disconnect(context.Background())
		events := analytics.NewMongoRepository(client.Database(cfg.MongoDB).Collection(analytics.CollectionName))
		if err := events.EnsureIndexes(ctx); err != nil {
			return err
		}
		log.Info("mongo indexes up to date")
	}
	return nil
}
