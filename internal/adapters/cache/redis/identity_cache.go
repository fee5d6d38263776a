// Package redis はプロフィールのロールを Redis にキャッシュします。
package redis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ogurasousui/attendance-payroll/internal/core/access"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "attendance:identity:"

// DefaultTTL はキャッシュの既定有効期間です。
const DefaultTTL = 5 * time.Minute

// Client はキャッシュが利用する Redis コマンドです。
type Client interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// IdentityCache はプロフィール ID からロールを引くキャッシュです。
// Redis の障害時はキャッシュミスとして扱い、呼び出し元はストアを参照します。
type IdentityCache struct {
	client Client
	ttl    time.Duration
}

// Options は Redis 接続の設定です。
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Connect は Redis に接続し疎通確認を行います。
func Connect(ctx context.Context, opts Options) (*IdentityCache, func() error, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis: ping %s: %w", opts.Addr, err)
	}

	return NewIdentityCache(client, opts.TTL), client.Close, nil
}

// NewIdentityCache は IdentityCache を生成します。ttl が 0 以下の場合は DefaultTTL を使います。
func NewIdentityCache(client Client, ttl time.Duration) *IdentityCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &IdentityCache{client: client, ttl: ttl}
}

// Get はキャッシュ済みの主体を返します。
func (c *IdentityCache) Get(ctx context.Context, profileID string) (access.Identity, bool) {
	raw, err := c.client.Get(ctx, keyPrefix+profileID).Result()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			log.Printf("redis: get identity %s: %v", profileID, err)
		}
		return access.Identity{}, false
	}

	role := access.Role(raw)
	if !role.Valid() {
		c.Invalidate(ctx, profileID)
		return access.Identity{}, false
	}
	return access.Identity{ProfileID: profileID, Role: role}, true
}

// Set は主体をキャッシュします。
func (c *IdentityCache) Set(ctx context.Context, id access.Identity) {
	if err := c.client.Set(ctx, keyPrefix+id.ProfileID, string(id.Role), c.ttl).Err(); err != nil {
		log.Printf("redis: set identity %s: %v", id.ProfileID, err)
	}
}

// Invalidate はキャッシュを破棄します。
func (c *IdentityCache) Invalidate(ctx context.Context, profileID string) {
	if err := c.client.Del(ctx, keyPrefix+profileID).Err(); err != nil {
		log.Printf("redis: invalidate identity %s: %v", profileID, err)
	}
}
