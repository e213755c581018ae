package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fallacyfinder/internal/models"
)

const sessionKeyPrefix = "fallacyfinder:session:"

// RedisSessionStore keeps sessions as JSON documents. A positive ttl expires them.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSessionStore creates a new Redis-backed session store
func NewRedisSessionStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		ttl:    ttl,
		logger: logger.Named("RedisSessionStore"),
	}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (s *RedisSessionStore) Create(ctx context.Context, session *models.GameSession) error {
	if session.Passage != nil && session.Passage.ID == 0 {
		id, err := s.client.Incr(ctx, sessionKeyPrefix+"passage_seq").Result()
		if err != nil {
			return fmt.Errorf("failed to allocate passage id: %w", err)
		}
		session.Passage.ID = id
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	ok, err := s.client.SetNX(ctx, sessionKey(session.ID), data, s.ttl).Result()
	if err != nil {
		s.logger.Error("Failed to store session", zap.Error(err), zap.String("sessionID", session.ID))
		return fmt.Errorf("failed to store session: %w", err)
	}
	if !ok {
		return fmt.Errorf("session %s already exists", session.ID)
	}

	s.logger.Debug("Session stored", zap.String("sessionID", session.ID), zap.Duration("ttl", s.ttl))
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*models.GameSession, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		s.logger.Error("Failed to get session", zap.Error(err), zap.String("sessionID", id))
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return decodeSession(id, data)
}

// Complete applies the completion under WATCH so that concurrent submissions cannot both win
func (s *RedisSessionStore) Complete(ctx context.Context, id string, c models.Completion) error {
	key := sessionKey(id)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return models.ErrSessionNotFound
		}
		if err != nil {
			return err
		}

		session, err := decodeSession(id, data)
		if err != nil {
			return err
		}
		if session.IsCompleted() {
			return models.ErrSessionAlreadyCompleted
		}

		c.Apply(session)
		updated, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("failed to encode session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetArgs(ctx, key, updated, redis.SetArgs{KeepTTL: true})
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.TxFailedErr):
		s.logger.Info("Concurrent completion lost the race", zap.String("sessionID", id))
		return models.ErrSessionAlreadyCompleted
	case errors.Is(err, models.ErrSessionNotFound), errors.Is(err, models.ErrSessionAlreadyCompleted):
		return err
	default:
		s.logger.Error("Failed to complete session", zap.Error(err), zap.String("sessionID", id))
		return fmt.Errorf("failed to complete session: %w", err)
	}
}

func decodeSession(id string, data []byte) (*models.GameSession, error) {
	var session models.GameSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("corrupted session data in redis for %s: %w", id, err)
	}
	return &session, nil
}
