// Package redis stores diagram snapshots in Redis.
//
// Layout, under a configurable key prefix:
//
//	<prefix>seq               counter for record IDs
//	<prefix>order_seq         counter ordering saves
//	<prefix>order             sorted set of record IDs scored by last save
//	<prefix>snapshot:<id>     hash with the record fields and the JSON data
//	<prefix>digest:<digest>   record ID holding that content
package redis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"gridview/internal/codec"
	"gridview/internal/domain"
	"gridview/internal/repository"
)

// Options configures the connection
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Repository implements repository.Repository on Redis
type Repository struct {
	client *goredis.Client
	prefix string
}

var _ repository.Repository = (*Repository)(nil)

// New connects to Redis and verifies the connection
func New(ctx context.Context, opts Options) (*Repository, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return &Repository{client: client, prefix: opts.Prefix}, nil
}

// Close closes the client
func (r *Repository) Close() error {
	return r.client.Close()
}

func (r *Repository) key(parts ...string) string {
	k := r.prefix
	for i, p := range parts {
		if i > 0 {
			k += ":"
		}
		k += p
	}
	return k
}

func (r *Repository) snapshotKey(id int64) string {
	return r.key("snapshot", strconv.FormatInt(id, 10))
}

// maxSaveAttempts bounds optimistic retries when the digest key changes under a save
const maxSaveAttempts = 16

// Save stores a snapshot, deduplicating by content digest. The digest lookup and
// the write run under WATCH on the digest key, so concurrent saves of the same
// content converge on one record.
func (r *Repository) Save(ctx context.Context, snapshot *domain.Snapshot, label string) (*repository.Record, error) {
	data, digest, err := codec.Canonical(snapshot)
	if err != nil {
		return nil, err
	}
	digestKey := r.key("digest", digest)

	var id int64
	save := func(tx *goredis.Tx) error {
		order, err := tx.Incr(ctx, r.key("order_seq")).Result()
		if err != nil {
			return fmt.Errorf("failed to allocate sequence: %w", err)
		}
		now := time.Now().UTC().UnixMilli()

		existing, err := tx.Get(ctx, digestKey).Int64()
		switch {
		case errors.Is(err, goredis.Nil):
			next, err := tx.Incr(ctx, r.key("seq")).Result()
			if err != nil {
				return fmt.Errorf("failed to allocate id: %w", err)
			}
			d := snapshot.Diagram()
			fields := map[string]interface{}{
				"label":       label,
				"digest":      digest,
				"node_count":  len(d.Nodes),
				"link_count":  len(d.Links),
				"group_count": len(d.Groups),
				"data":        string(data),
				"saved_at":    now,
			}
			_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
				p.HSet(ctx, r.snapshotKey(next), fields)
				p.Set(ctx, digestKey, next, 0)
				p.ZAdd(ctx, r.key("order"), goredis.Z{Score: float64(order), Member: next})
				return nil
			})
			if err != nil {
				return err
			}
			id = next

		case err != nil:
			return fmt.Errorf("failed to look up digest: %w", err)

		default:
			_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
				p.HSet(ctx, r.snapshotKey(existing), "saved_at", now)
				if label != "" {
					p.HSet(ctx, r.snapshotKey(existing), "label", label)
				}
				p.ZAdd(ctx, r.key("order"), goredis.Z{Score: float64(order), Member: existing})
				return nil
			})
			if err != nil {
				return err
			}
			id = existing
		}
		return nil
	}

	for attempt := 0; ; attempt++ {
		err = r.client.Watch(ctx, save, digestKey)
		if err == nil {
			break
		}
		if !errors.Is(err, goredis.TxFailedErr) || attempt == maxSaveAttempts-1 {
			return nil, fmt.Errorf("failed to save snapshot: %w", err)
		}
	}

	return r.record(ctx, id)
}

func (r *Repository) record(ctx context.Context, id int64) (*repository.Record, error) {
	fields, err := r.client.HGetAll(ctx, r.snapshotKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot record: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("snapshot %d: %w", id, repository.ErrNotFound)
	}

	atoi := func(name string) int {
		n, _ := strconv.Atoi(fields[name])
		return n
	}
	savedAt, _ := strconv.ParseInt(fields["saved_at"], 10, 64)

	return &repository.Record{
		ID:         id,
		Label:      fields["label"],
		Digest:     fields["digest"],
		NodeCount:  atoi("node_count"),
		LinkCount:  atoi("link_count"),
		GroupCount: atoi("group_count"),
		SavedAt:    time.UnixMilli(savedAt).UTC(),
	}, nil
}

// Latest returns the most recently saved snapshot, or nil
func (r *Repository) Latest(ctx context.Context) (*domain.Snapshot, error) {
	ids, err := r.client.ZRevRange(ctx, r.key("order"), 0, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	id, err := strconv.ParseInt(ids[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt snapshot index entry %q: %w", ids[0], err)
	}
	return r.Get(ctx, id)
}

// Get returns a stored snapshot by ID
func (r *Repository) Get(ctx context.Context, id int64) (*domain.Snapshot, error) {
	data, err := r.client.HGet(ctx, r.snapshotKey(id), "data").Result()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("snapshot %d: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	snapshot, err := codec.NewJSONCodec().Decode(bytes.NewReader([]byte(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode stored snapshot: %w", err)
	}
	return snapshot, nil
}

// List returns all records, most recent first
func (r *Repository) List(ctx context.Context) ([]repository.Record, error) {
	ids, err := r.client.ZRevRange(ctx, r.key("order"), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}

	records := make([]repository.Record, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt snapshot index entry %q: %w", raw, err)
		}
		record, err := r.record(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

// Delete removes a stored snapshot
func (r *Repository) Delete(ctx context.Context, id int64) error {
	digest, err := r.client.HGet(ctx, r.snapshotKey(id), "digest").Result()
	if errors.Is(err, goredis.Nil) {
		return fmt.Errorf("snapshot %d: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to query snapshot: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Del(ctx, r.snapshotKey(id), r.key("digest", digest))
		p.ZRem(ctx, r.key("order"), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
