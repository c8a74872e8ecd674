// Package storage persists pipeline output: article records and the
// aggregated journalist profiles.
package storage

import (
	"fmt"
	"log/slog"

	"github.com/newstrace/newstrace/internal/config"
	"github.com/newstrace/newstrace/internal/types"
)

// Storage is the interface for all output backends.
type Storage interface {
	// StoreArticles persists a batch of article records.
	StoreArticles(records []*types.ArticleRecord) error

	// StoreProfiles persists the aggregated journalist profiles.
	StoreProfiles(profiles []*types.AuthorProfile) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// New creates the backend named by the config.
func New(cfg *config.StorageConfig, logger *slog.Logger) (Storage, error) {
	switch cfg.Type {
	case "json":
		return NewJSONStorage(cfg.OutputPath, logger)
	case "csv":
		return NewCSVStorage(cfg.OutputPath, logger)
	case "mongo":
		return NewMongoStorage(cfg.MongoURI, cfg.MongoDB, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
