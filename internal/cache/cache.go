package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meubot/meubot-web/internal/botinfo"
	"github.com/meubot/meubot-web/pkg/logger"
	"github.com/meubot/meubot-web/pkg/metrics"
)

// Store is an optional Redis-backed cache for assembled BotInfo documents.
// Values are stored as JSON under "botinfo:<id>" with a short TTL matching
// the advisory Cache-Control window. A nil client or any Redis error is a
// cache miss; the cache must never turn into a failure source.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Store{client: client, prefix: "botinfo:", ttl: ttl}
}

// Enabled reports whether a Redis client is wired in.
func (s *Store) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *Store) GetBotInfo(ctx context.Context, botID string) (*botinfo.BotInfo, bool) {
	if !s.Enabled() {
		return nil, false
	}
	b, err := s.client.Get(ctx, s.prefix+botID).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warnf("cache get failed for %s: %v", botID, err)
		}
		metrics.CacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}
	var info botinfo.BotInfo
	if err := json.Unmarshal(b, &info); err != nil {
		metrics.CacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("hit").Inc()
	return &info, true
}

func (s *Store) PutBotInfo(ctx context.Context, botID string, info *botinfo.BotInfo) {
	if !s.Enabled() {
		return
	}
	b, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, s.prefix+botID, b, s.ttl).Err(); err != nil {
		logger.Warnf("cache set failed for %s: %v", botID, err)
	}
}
