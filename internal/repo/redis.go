package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Hy0g0/Cadavre-exquis/internal/domain"
)

const latestKey = "story:latest"

// Redis is an optional read cache for the latest sentence. A nil *Redis
// is valid and behaves as a permanent cache miss, so callers never have
// to branch on whether caching is configured.
type Redis struct {
	C   *redis.Client
	TTL time.Duration
}

func NewRedis(addr string, ttl time.Duration) *Redis {
	return &Redis{C: redis.NewClient(&redis.Options{Addr: addr}), TTL: ttl}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r == nil {
		return nil
	}
	return r.C.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if r == nil {
		return nil
	}
	return r.C.Close()
}

type cachedSentence struct {
	Text      string `json:"text"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
}

// Latest returns the cached latest sentence, or ok=false on miss,
// decode failure or when caching is disabled.
func (r *Redis) Latest(ctx context.Context) (*domain.Sentence, bool) {
	if r == nil {
		return nil, false
	}
	raw, err := r.C.Get(ctx, latestKey).Bytes()
	if err != nil {
		return nil, false
	}
	var c cachedSentence
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, false
	}
	ts, err := time.Parse(domain.TimeLayout, c.CreatedAt)
	if err != nil {
		return nil, false
	}
	return &domain.Sentence{Text: c.Text, Author: c.Author, CreatedAt: ts}, true
}

// SetLatest overwrites the cached latest sentence. Errors are returned
// for logging only; the store stays the source of truth.
func (r *Redis) SetLatest(ctx context.Context, s *domain.Sentence) error {
	if r == nil || s == nil {
		return nil
	}
	raw, err := json.Marshal(cachedSentence{
		Text:      s.Text,
		Author:    s.Author,
		CreatedAt: s.CreatedAt.Format(domain.TimeLayout),
	})
	if err != nil {
		return err
	}
	return r.C.Set(ctx, latestKey, raw, r.TTL).Err()
}
