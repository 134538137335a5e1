package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/doeshing/wxq/internal/domain"
	"github.com/doeshing/wxq/internal/ports"
)

const (
	redisTimeout      = 3 * time.Second
	redisPruneRetries = 5
)

// RedisStore keeps history as a capped redis list, newest at the head.
type RedisStore struct {
	rdb           redis.UniversalClient
	key           string
	maxEntries    int
	retentionDays int

	// beforeRewrite runs between reading the list and committing a prune.
	beforeRewrite func()
}

// DialRedis parses url, connects and pings.
func DialRedis(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	opts.ReadTimeout = redisTimeout
	opts.WriteTimeout = redisTimeout
	opts.DialTimeout = 5 * time.Second

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	return client, nil
}

// NewRedisStore wraps an existing connection. maxEntries <= 0 disables the cap.
func NewRedisStore(rdb redis.UniversalClient, key string, maxEntries, retentionDays int) *RedisStore {
	if key == "" {
		key = domain.DefaultRedisHistoryKey
	}
	return &RedisStore{rdb: rdb, key: key, maxEntries: maxEntries, retentionDays: retentionDays}
}

// Save pushes the record and trims the list to maxEntries.
func (r *RedisStore) Save(record domain.HistoryRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, r.key, data)
		if r.maxEntries > 0 {
			pipe.LTrim(ctx, r.key, 0, int64(r.maxEntries-1))
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "push history record")
	}
	if r.retentionDays > 0 {
		return r.PruneOlderThan(r.retentionDays)
	}
	return nil
}

// Records returns entries newest first.
func (r *RedisStore) Records(limit int, search string) ([]domain.HistoryRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	all, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	return filterRecords(all, limit, search), nil
}

func (r *RedisStore) readAll(ctx context.Context) ([]domain.HistoryRecord, error) {
	raw, err := r.rdb.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read history list")
	}
	records := make([]domain.HistoryRecord, 0, len(raw))
	for _, item := range raw {
		var rec domain.HistoryRecord
		if err := json.Unmarshal([]byte(item), &rec); err == nil {
			records = append(records, rec)
		}
	}
	return records, nil
}

// Clear deletes the list.
func (r *RedisStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	return r.rdb.Del(ctx, r.key).Err()
}

// PruneOlderThan drops entries older than N days. The key is watched while
// the list is read and rewritten, so a record pushed by another writer in
// between aborts the transaction and the prune is retried.
func (r *RedisStore) PruneOlderThan(days int) error {
	if days <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	cutoff := time.Now().AddDate(0, 0, -days)

	prune := func(tx *redis.Tx) error {
		raw, err := tx.LRange(ctx, r.key, 0, -1).Result()
		if err != nil && err != redis.Nil {
			return errors.Wrap(err, "read history list")
		}
		keep := make([]interface{}, 0, len(raw))
		for _, item := range raw {
			var rec domain.HistoryRecord
			if err := json.Unmarshal([]byte(item), &rec); err == nil && rec.Timestamp.Before(cutoff) {
				continue
			}
			keep = append(keep, item)
		}
		if len(keep) == len(raw) {
			return nil
		}
		if r.beforeRewrite != nil {
			r.beforeRewrite()
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, r.key)
			if len(keep) > 0 {
				pipe.RPush(ctx, r.key, keep...)
			}
			return nil
		})
		return err
	}

	for attempt := 0; attempt < redisPruneRetries; attempt++ {
		err := r.rdb.Watch(ctx, prune, r.key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return errors.Wrap(err, "rewrite history list")
		}
	}
	return errors.Errorf("rewrite history list: key %s kept changing after %d attempts", r.key, redisPruneRetries)
}

// ExportJSON writes all entries to dest as jsonl.
func (r *RedisStore) ExportJSON(dest string) error {
	records, err := r.Records(0, "")
	if err != nil {
		return err
	}
	return writeJSONL(dest, records)
}

// Path describes the backing list.
func (r *RedisStore) Path() string {
	return "redis list " + r.key
}

var _ ports.HistoryRepository = (*RedisStore)(nil)
