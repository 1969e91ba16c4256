package repository

import (
	"context"
	"fmt"
	"log"

	"alumind-feedback/internal/config"
	"alumind-feedback/internal/database"
)

// Open connects to the configured backend and prepares its schema or indexes.
func Open(ctx context.Context, cfg config.StoreConfig) (FeedbackRepository, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.DBName)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		repo := NewFeedbackRepo(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Printf("⚠️  Warning: failed to create feedback indexes: %v", err)
		}
		return repo, nil

	case config.DriverPostgres:
		db, err := database.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		repo := NewSQLFeedbackRepo(db, DialectPostgres)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return repo, nil

	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		repo := NewSQLFeedbackRepo(db, DialectSQLite)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return repo, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
