package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/newsgraph-io/newsgraph/internal/config"
)

// Snapshot is one archived extraction: the raw inputs that produced an
// article's statement set, kept for reprocessing and debugging.
type Snapshot struct {
	URL          string            `bson:"url"`
	FetchedAt    time.Time         `bson:"fetched_at"`
	Structured   map[string]any    `bson:"structured,omitempty"`
	Fallback     map[string]string `bson:"fallback,omitempty"`
	Content      string            `bson:"content,omitempty"`
	LanguageCode string            `bson:"language_code,omitempty"`
	Keywords     []string          `bson:"keywords,omitempty"`
	Turtle       string            `bson:"turtle,omitempty"`
}

// Archive stores extraction snapshots in MongoDB. It is optional; a nil
// *Archive is safe to call and does nothing.
type Archive struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewArchive connects to the archive database, or returns nil when the
// archive is disabled.
func NewArchive(cfg *config.Config, logger *slog.Logger) (*Archive, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Archive.URI))
	if err != nil {
		return nil, fmt.Errorf("archive connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("archive ping: %w", err)
	}

	return &Archive{
		client:     client,
		collection: client.Database(cfg.Archive.Database).Collection(cfg.Archive.Collection),
		logger:     logger.With("component", "archive"),
	}, nil
}

// Save writes one snapshot. Archive failures are logged by callers and
// never block ingestion.
func (a *Archive) Save(ctx context.Context, snapshot *Snapshot) error {
	if a == nil {
		return nil
	}
	if snapshot.FetchedAt.IsZero() {
		snapshot.FetchedAt = time.Now().UTC()
	}
	if _, err := a.collection.InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("archive insert: %w", err)
	}
	a.logger.Debug("extraction archived", "url", snapshot.URL)
	return nil
}

// Close disconnects from the archive database.
func (a *Archive) Close() error {
	if a == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.client.Disconnect(ctx)
}
