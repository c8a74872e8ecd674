package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/newstrace/newstrace/internal/types"
)

// MongoStorage upserts output into two collections: articles keyed by URL
// and journalists keyed by name. Re-running a site updates records in place
// instead of duplicating them.
type MongoStorage struct {
	client      *mongo.Client
	articles    *mongo.Collection
	journalists *mongo.Collection
	mu          sync.Mutex
	count       int
	logger      *slog.Logger
}

// NewMongoStorage creates a new MongoDB storage backend.
func NewMongoStorage(uri, database string, logger *slog.Logger) (*MongoStorage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, &types.StorageError{Backend: "mongo", Err: err}
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, &types.StorageError{Backend: "mongo", Err: err}
	}

	db := client.Database(database)
	return &MongoStorage{
		client:      client,
		articles:    db.Collection("articles"),
		journalists: db.Collection("journalists"),
		logger:      logger.With("component", "mongo_storage"),
	}, nil
}

func (s *MongoStorage) Name() string { return "mongo" }

func (s *MongoStorage) StoreArticles(records []*types.ArticleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	models := make([]mongo.WriteModel, len(records))
	for i, rec := range records {
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"url": rec.URL}).
			SetReplacement(rec).
			SetUpsert(true)
	}
	if len(models) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.articles.BulkWrite(ctx, models); err != nil {
		return &types.StorageError{Backend: "mongo", Err: err}
	}

	s.count += len(records)
	s.logger.Debug("articles stored", "count", len(records), "total", s.count)
	return nil
}

func (s *MongoStorage) StoreProfiles(profiles []*types.AuthorProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	models := make([]mongo.WriteModel, len(profiles))
	for i, p := range profiles {
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"name": p.Name}).
			SetReplacement(p).
			SetUpsert(true)
	}
	if len(models) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.journalists.BulkWrite(ctx, models); err != nil {
		return &types.StorageError{Backend: "mongo", Err: err}
	}

	s.logger.Debug("journalists stored", "count", len(profiles))
	return nil
}

func (s *MongoStorage) Close() error {
	s.logger.Info("mongodb storage closing", "total_articles", s.count)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
