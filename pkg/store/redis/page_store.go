package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"agentconsole/internal/agentform"
	"agentconsole/pkg/store"

	"github.com/go-redis/redis/v8"
)

const (
	pageKeyPrefix = "agentform:page:" // Page snapshot (agentform:page:{id})
	pageSetKey    = "agentform:pages" // Ids of live pages
)

// PageStore keeps page snapshots in Redis with an idle TTL
type PageStore struct {
	redis *redis.Client
	ttl   time.Duration
}

var (
	_ store.PageStore = (*PageStore)(nil)
	_ store.Sweeper   = (*PageStore)(nil)
)

// NewPageStore creates Redis page store
func NewPageStore(redisClient *RedisClient, ttl time.Duration) *PageStore {
	return &PageStore{
		redis: redisClient.GetClient(),
		ttl:   ttl,
	}
}

func pageKey(id string) string {
	return pageKeyPrefix + id
}

// Save saves the snapshot and refreshes its TTL
func (s *PageStore) Save(ctx context.Context, snap *agentform.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal page: %w", err)
	}

	pipe := s.redis.Pipeline()
	pipe.Set(ctx, pageKey(snap.ID), data, s.ttl)
	pipe.SAdd(ctx, pageSetKey, snap.ID)
	if s.ttl > 0 {
		pipe.Expire(ctx, pageSetKey, s.ttl*2)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save page %s: %w", snap.ID, err)
	}
	return nil
}

// Load loads a page snapshot
func (s *PageStore) Load(ctx context.Context, id string) (*agentform.Snapshot, error) {
	data, err := s.redis.Get(ctx, pageKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrPageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load page %s: %w", id, err)
	}

	var snap agentform.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal page %s: %w", id, err)
	}
	return &snap, nil
}

// Delete removes a page
func (s *PageStore) Delete(ctx context.Context, id string) error {
	pipe := s.redis.Pipeline()
	pipe.Del(ctx, pageKey(id))
	pipe.SRem(ctx, pageSetKey, id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete page %s: %w", id, err)
	}
	return nil
}

// ActivePages returns the ids of pages that have not expired
func (s *PageStore) ActivePages(ctx context.Context) ([]string, error) {
	active, _, err := s.partition(ctx)
	return active, err
}

// Sweep drops ids of expired pages from the page index
func (s *PageStore) Sweep(ctx context.Context) (int, error) {
	_, stale, err := s.partition(ctx)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	members := make([]interface{}, len(stale))
	for i, id := range stale {
		members[i] = id
	}
	if err := s.redis.SRem(ctx, pageSetKey, members...).Err(); err != nil {
		return 0, fmt.Errorf("failed to prune page index: %w", err)
	}
	return len(stale), nil
}

// partition splits indexed page ids into live and expired
func (s *PageStore) partition(ctx context.Context) (active, stale []string, err error) {
	ids, err := s.redis.SMembers(ctx, pageSetKey).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list pages: %w", err)
	}

	for _, id := range ids {
		exists, err := s.redis.Exists(ctx, pageKey(id)).Result()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check page %s: %w", id, err)
		}
		if exists > 0 {
			active = append(active, id)
		} else {
			stale = append(stale, id)
		}
	}
	return active, stale, nil
}
