package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"streamvault/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

// MediaCheckJob asks the worker to verify that a user's uploaded media
// objects actually landed in the object store.
type MediaCheckJob struct {
	UserID     string   `json:"user_id"`
	ObjectKeys []string `json:"object_keys"`
}

// MediaQueue publishes media check jobs onto the Redis list the worker
// consumes from.
type MediaQueue struct {
	rdb       *redis.Client
	queueName string
}

func NewMediaQueue(rdb *redis.Client) *MediaQueue {
	return &MediaQueue{rdb: rdb, queueName: config.AppConfig.MediaQueueName}
}

func (q *MediaQueue) Publish(ctx context.Context, job MediaCheckJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal media check job: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.queueName, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue media check job: %w", err)
	}
	return nil
}

// ObjectStore is the slice of the media client the worker needs.
type ObjectStore interface {
	Exists(ctx context.Context, objectKey string) (bool, error)
}

// MediaWorker pops media check jobs and verifies each uploaded object is
// present. Missing objects are logged; there is no rollback of the user
// record, the check exists to surface upload gaps in operations.
type MediaWorker struct {
	rdb    *redis.Client
	store  ObjectStore
	logger *slog.Logger
}

func NewMediaWorker(rdb *redis.Client, store ObjectStore, logger *slog.Logger) *MediaWorker {
	return &MediaWorker{rdb: rdb, store: store, logger: logger}
}

func (w *MediaWorker) Start(ctx context.Context) {
	queueName := config.AppConfig.MediaQueueName
	w.logger.Info("media worker started", "queue", queueName)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("media worker stopping")
			return
		default:
			// Blocking pop from Redis queue
			result, err := w.rdb.BRPop(ctx, 0*time.Second, queueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					time.Sleep(1 * time.Second)
					continue
				}
				w.logger.Error("failed to pop from media queue", "queue", queueName, "error", err)
				time.Sleep(5 * time.Second)
				continue
			}

			// result is an array: [queueName, value]
			if len(result) < 2 || result[1] == "" {
				w.logger.Warn("media queue returned empty payload")
				continue
			}
			w.processJob(ctx, []byte(result[1]))
		}
	}
}

func (w *MediaWorker) processJob(ctx context.Context, payload []byte) {
	var job MediaCheckJob
	if err := json.Unmarshal(payload, &job); err != nil {
		w.logger.Error("failed to decode media check job", "error", err)
		return
	}

	for _, key := range job.ObjectKeys {
		ok, err := w.store.Exists(ctx, key)
		if err != nil {
			w.logger.Error("media check failed", "user_id", job.UserID, "object_key", key, "error", err)
			continue
		}
		if !ok {
			w.logger.Warn("uploaded media object missing", "user_id", job.UserID, "object_key", key)
			continue
		}
		w.logger.Debug("media object verified", "user_id", job.UserID, "object_key", key)
	}
}
