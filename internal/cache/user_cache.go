package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	dom "github.com/aamishhussain23/finacplus-assignment/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyList   = "user:list"
	keyPrefix = "user:get:"
	// keyGen is bumped by every invalidation. Readers remember it before
	// loading from the store and only write back if it has not moved.
	keyGen = "user:gen"
)

// UserCache caches the user list and single public profiles in Redis.
// Only password-free records are ever stored.
type UserCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewUserCache returns a new UserCache.
func NewUserCache(rdb *redis.Client, ttl time.Duration) *UserCache {
	return &UserCache{rdb: rdb, ttl: ttl}
}

// Generation returns the current invalidation generation. Pass it to
// SetList or SetUser after loading from the store.
func (c *UserCache) Generation(ctx context.Context) (int64, error) {
	return generation(ctx, c.rdb)
}

// GetList returns cached list or nil if miss.
func (c *UserCache) GetList(ctx context.Context) ([]dom.User, error) {
	var list []dom.User
	ok, err := c.get(ctx, keyList, &list)
	if err != nil || !ok {
		return nil, err
	}
	if list == nil {
		list = []dom.User{}
	}
	return list, nil
}

// SetList stores the list unless an invalidation happened after gen was read.
func (c *UserCache) SetList(ctx context.Context, list []dom.User, gen int64) error {
	public := make([]dom.User, len(list))
	for i := range list {
		public[i] = list[i].Public()
	}
	return c.setIfGen(ctx, keyList, public, gen)
}

// GetUser returns the cached profile for id; ok is false on a miss.
func (c *UserCache) GetUser(ctx context.Context, id string) (dom.User, bool, error) {
	var u dom.User
	ok, err := c.get(ctx, keyPrefix+id, &u)
	return u, ok, err
}

// SetUser stores a public profile unless an invalidation happened after gen was read.
func (c *UserCache) SetUser(ctx context.Context, u dom.User, gen int64) error {
	return c.setIfGen(ctx, keyPrefix+u.ID, u.Public(), gen)
}

// Invalidate drops the list and the profile for id.
func (c *UserCache) Invalidate(ctx context.Context, id string) error {
	keys := []string{keyList}
	if id != "" {
		keys = append(keys, keyPrefix+id)
	}
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, keyGen)
		p.Del(ctx, keys...)
		return nil
	})
	return err
}

// InvalidateAll removes the list and every cached profile.
func (c *UserCache) InvalidateAll(ctx context.Context) error {
	if err := c.Invalidate(ctx, ""); err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *UserCache) get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

// setIfGen writes key only while keyGen still equals gen. A concurrent
// invalidation makes the write a no-op.
func (c *UserCache) setIfGen(ctx context.Context, key string, v any, gen int64) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := generation(ctx, tx)
		if err != nil {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, b, c.ttl)
			return nil
		})
		return err
	}, keyGen)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func generation(ctx context.Context, rdb getter) (int64, error) {
	n, err := rdb.Get(ctx, keyGen).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}
