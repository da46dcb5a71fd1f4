package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/paleteria/paleteria-pos/internal/platform/apperr"
	"github.com/paleteria/paleteria-pos/internal/platform/logger"
	"github.com/paleteria/paleteria-pos/internal/sale/domain"
)

const sessionKeyPrefix = "pos:session:"

// redisSessionStore stores sessions as JSON values; Redis key expiry
// implements the idle TTL.
type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	return &redisSessionStore{client: client, ttl: ttl}
}

func sessionKey(id string) string { return sessionKeyPrefix + id }

func (s *redisSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		logger.Error("Session Get: redis failed", err, "session_id", id)
		return nil, apperr.StoreIO("read session", err)
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, apperr.StoreIO("decode session", err)
	}
	if session.Cart.StockSnapshot == nil {
		session.Cart.StockSnapshot = map[string]int{}
	}
	return &session, nil
}

func (s *redisSessionStore) Save(ctx context.Context, session *domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(session.ID), raw, s.ttl).Err(); err != nil {
		logger.Error("Session Save: redis failed", err, "session_id", session.ID)
		return apperr.StoreIO("write session", err)
	}
	return nil
}

func (s *redisSessionStore) Delete(ctx context.Context, id string) error {
	deleted, err := s.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		logger.Error("Session Delete: redis failed", err, "session_id", id)
		return apperr.StoreIO("delete session", err)
	}
	if deleted == 0 {
		return ErrSessionNotFound
	}
	return nil
}
