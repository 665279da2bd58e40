package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/account-service/internal/config"
	"github.com/iliyamo/account-service/internal/model"
)

// CachedUserRepo puts a Redis read-through cache in front of GetByID, which
// the access guard calls on every authenticated request. Writes go to the
// wrapped store first and then drop the cached entry. Any Redis failure
// falls back to the wrapped store.
type CachedUserRepo struct {
	UserStore
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewCachedUserRepo wraps next. When caching is disabled or no Redis client
// is available, next is returned unchanged.
func NewCachedUserRepo(next UserStore, rdb *redis.Client, cfg config.CacheConfig) UserStore {
	if !cfg.Enabled || rdb == nil {
		return next
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedUserRepo{UserStore: next, rdb: rdb, ttl: ttl, prefix: cfg.Prefix}
}

// cacheEntry keeps the password hash, which model.User hides from JSON;
// admin updates write the loaded record back in full.
type cacheEntry struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	PhoneNumber  string    `json:"phone_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (r *CachedUserRepo) key(id int64) string {
	return fmt.Sprintf("%s:user:%d", r.prefix, id)
}

// genKey is bumped on every write to the user. A read that started before
// the bump must not repopulate the cache with what it loaded.
func (r *CachedUserRepo) genKey(id int64) string {
	return fmt.Sprintf("%s:user:%d:gen", r.prefix, id)
}

func (r *CachedUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if bs, err := r.rdb.Get(ctx, r.key(id)).Bytes(); err == nil {
		var e cacheEntry
		if json.Unmarshal(bs, &e) == nil {
			return e.user(), nil
		}
	}

	// The store read runs under WATCH on the generation key; a write that
	// lands in between aborts the SET and the entry stays empty.
	var (
		u        *model.User
		storeErr error
		loaded   bool
	)
	_ = r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		loaded = true
		u, storeErr = r.UserStore.GetByID(ctx, id)
		if storeErr != nil {
			return nil
		}
		bs, err := json.Marshal(newCacheEntry(u))
		if err != nil {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, r.key(id), bs, r.ttl)
			return nil
		})
		return err
	}, r.genKey(id))

	if !loaded {
		// redis unreachable
		return r.UserStore.GetByID(ctx, id)
	}
	if storeErr != nil {
		return nil, storeErr
	}
	return u, nil
}

func (r *CachedUserRepo) Update(ctx context.Context, u *model.User) error {
	if err := r.UserStore.Update(ctx, u); err != nil {
		return err
	}
	r.evict(ctx, u.ID)
	return nil
}

func (r *CachedUserRepo) UpdateProfile(ctx context.Context, id int64, ch ProfileChanges) error {
	if err := r.UserStore.UpdateProfile(ctx, id, ch); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *CachedUserRepo) Delete(ctx context.Context, id int64) error {
	if err := r.UserStore.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

// evict bumps the generation and drops the entry. It uses a detached
// context so a cancelled request cannot leave a stale entry behind after
// the store write went through.
func (r *CachedUserRepo) evict(ctx context.Context, id int64) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	_, _ = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, r.genKey(id))
		p.Expire(ctx, r.genKey(id), 2*r.ttl)
		p.Del(ctx, r.key(id))
		return nil
	})
}

func newCacheEntry(u *model.User) cacheEntry {
	return cacheEntry{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		PhoneNumber:  u.PhoneNumber,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (e cacheEntry) user() *model.User {
	return &model.User{
		ID:           e.ID,
		Username:     e.Username,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		Role:         model.Role(e.Role),
		IsActive:     e.IsActive,
		PhoneNumber:  e.PhoneNumber,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
