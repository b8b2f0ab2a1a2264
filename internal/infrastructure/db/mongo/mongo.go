package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout       = 10 * time.Second
	defaultSocketTimeout = 30 * time.Second
	defaultAttempts      = 5
	defaultRetryDelay    = 3 * time.Second

	// opTimeout bounds every repository call.
	opTimeout = 5 * time.Second
)

// Config captures the settings required to establish a MongoDB connection.
type Config struct {
	URI           string
	Database      string
	Timeout       time.Duration // connect + server selection
	SocketTimeout time.Duration
	Attempts      int
	RetryDelay    time.Duration
}

// Store owns the client and the selected database. It is created once at
// startup and injected into the repositories.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect establishes a MongoDB client and verifies connectivity with a ping,
// retrying up to cfg.Attempts times cfg.RetryDelay apart. Defaults are applied
// to zero values.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*Store, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.SocketTimeout <= 0 {
		cfg.SocketTimeout = defaultSocketTimeout
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = defaultAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout).
		SetSocketTimeout(cfg.SocketTimeout)

	var lastErr error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		client, err := connectOnce(ctx, opts, cfg.Timeout)
		if err == nil {
			log.Info().Str("database", cfg.Database).Int("attempt", attempt).Msg("connected to mongodb")
			return &Store{client: client, db: client.Database(cfg.Database)}, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Int("max_attempts", cfg.Attempts).Msg("mongodb connection failed")

		if attempt == cfg.Attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.RetryDelay):
		}
	}
	return nil, fmt.Errorf("mongo connect after %d attempts: %w", cfg.Attempts, lastErr)
}

func connectOnce(ctx context.Context, opts *options.ClientOptions, timeout time.Duration) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// Database returns the selected database.
func (s *Store) Database() *mongo.Database {
	return s.db
}

// Ping checks that the primary is reachable. Used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique and lookup indexes of every collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for name, indexes := range collectionIndexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
