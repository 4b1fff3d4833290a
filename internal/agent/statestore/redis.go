package statestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/catonzio/plum-backend/internal/agent"
	"github.com/catonzio/plum-backend/internal/platform/logger"
)

const defaultKeyPrefix = "plum:conversation:"

type redisStore struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

type redisSnapshot struct {
	Messages   json.RawMessage   `json:"messages"`
	Interrupts []agent.Interrupt `json:"interrupts,omitempty"`
}

// NewRedisStore checkpoints conversation state in Redis so runs survive
// restarts and can be shared across replicas. Reads REDIS_ADDR,
// REDIS_KEY_PREFIX and CONVERSATION_TTL_SECONDS.
func NewRedisStore(log *logger.Logger) (Store, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	prefix := strings.TrimSpace(os.Getenv("REDIS_KEY_PREFIX"))
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	var ttl time.Duration
	if v := strings.TrimSpace(os.Getenv("CONVERSATION_TTL_SECONDS")); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisStore{
		log:    log.With("service", "RedisStateStore"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

func (s *redisStore) key(conversationID string) string {
	return s.prefix + conversationID
}

func (s *redisStore) Get(ctx context.Context, conversationID string) (Snapshot, error) {
	raw, err := s.rdb.Get(ctx, s.key(conversationID)).Bytes()
	if err == goredis.Nil {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("redis get: %w", err)
	}

	var doc redisSnapshot
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	messages, err := agent.DecodeMessages(doc.Messages)
	if err != nil {
		return Snapshot{}, fmt.Errorf("decode messages: %w", err)
	}
	return Snapshot{Messages: messages, Interrupts: doc.Interrupts}, nil
}

func (s *redisStore) Put(ctx context.Context, conversationID string, snap Snapshot) error {
	encoded, err := agent.EncodeMessages(snap.Messages)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}
	raw, err := json.Marshal(redisSnapshot{
		Messages:   encoded,
		Interrupts: snap.Interrupts,
	})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(conversationID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, conversationID string) error {
	if err := s.rdb.Del(ctx, s.key(conversationID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
