package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"gallery-backend/internal/config"
	"gallery-backend/pkg/logger"
)

// Collection names
const (
	CollectionGirls = "girls"
	CollectionPosts = "posts"
	CollectionUsers = "users"
)

// MongoDB là wrapper quản lý client và lifecycle của database
type MongoDB struct {
	Client *mongo.Client
	DB     *mongo.Database
	Config config.DatabaseConfig
}

// NewMongoDB tạo instance mới, Client sẽ được set khi Connect() được gọi
func NewMongoDB(cfg config.DatabaseConfig) *MongoDB {
	return &MongoDB{Config: cfg}
}

func (m *MongoDB) clientOptions() *options.ClientOptions {
	opts := options.Client().
		ApplyURI(m.Config.URI).
		SetConnectTimeout(m.Config.ConnectTimeout).
		SetServerSelectionTimeout(m.Config.ConnectTimeout)

	if m.Config.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(m.Config.MaxPoolSize)
	}
	if m.Config.MinPoolSize > 0 {
		opts.SetMinPoolSize(m.Config.MinPoolSize)
	}
	return opts
}

// connectWithRetry: exponential backoff, delay = base * 2^(attempt-1).
// Chỉ dùng lúc khởi động.
func (m *MongoDB) connectWithRetry(ctx context.Context) (*mongo.Client, error) {
	var lastErr error
	maxRetries := m.Config.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		logger.Info("Connecting to MongoDB", map[string]interface{}{
			"attempt":     attempt,
			"max_retries": maxRetries,
		})

		connectCtx, cancel := context.WithTimeout(ctx, m.Config.ConnectTimeout)
		client, err := mongo.Connect(connectCtx, m.clientOptions())
		if err == nil {
			err = client.Ping(connectCtx, readpref.Primary())
			if err != nil {
				_ = client.Disconnect(context.Background())
			}
		}
		cancel()

		if err == nil {
			logger.Info("MongoDB connected", map[string]interface{}{"attempt": attempt})
			return client, nil
		}
		lastErr = err
		logger.Warn("MongoDB connection attempt failed", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})

		if attempt < maxRetries {
			delay := m.Config.RetryDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("connection cancelled: %w", ctx.Err())
			}
		}
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %w", maxRetries, lastErr)
}

// Connect: connect (retry) -> select database -> ensure indexes
func (m *MongoDB) Connect(ctx context.Context) error {
	client, err := m.connectWithRetry(ctx)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}

	m.Client = client
	m.DB = client.Database(m.Config.Database)

	if err := m.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}

// EnsureIndexes tạo unique indexes cho natural keys
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	unique := func(keys ...string) []mongo.IndexModel {
		models := make([]mongo.IndexModel, 0, len(keys))
		for _, k := range keys {
			models = append(models, mongo.IndexModel{
				Keys:    bson.D{{Key: k, Value: 1}},
				Options: options.Index().SetUnique(true),
			})
		}
		return models
	}

	indexes := map[string][]mongo.IndexModel{
		CollectionGirls: append(unique("username", "slug"),
			mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		),
		CollectionPosts: append(unique("slug", "title"),
			mongo.IndexModel{Keys: bson.D{{Key: "girl", Value: 1}}},
			mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		),
		CollectionUsers: unique("email", "username"),
	}

	for name, models := range indexes {
		if _, err := m.DB.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("collection %s: %w", name, err)
		}
	}
	return nil
}

// Collection shortcut
func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.DB.Collection(name)
}

func (m *MongoDB) HealthCheck(ctx context.Context) error {
	if m.Client == nil {
		return fmt.Errorf("mongo client is not initialized")
	}

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := m.Client.Ping(healthCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping failed: %w", err)
	}
	return nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}
