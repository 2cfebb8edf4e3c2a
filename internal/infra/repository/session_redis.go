package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"

	"github.com/redis/go-redis/v9"
)

// WATCHの競合で諦めるまでの回数
const redisUpdateMaxRetries = 10

// Redisにセッションを持つ（複数プロセスで共有する構成用）。
// 値はJSON、TTLはセッションの寿命。
type SessionRedisRepository struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// DI
func NewSessionRedisRepository(client *redis.Client, ttl time.Duration) *SessionRedisRepository {
	return &SessionRedisRepository{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (r *SessionRedisRepository) Create(ctx context.Context, s model.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *SessionRedisRepository) FindByID(ctx context.Context, id string) (model.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Session{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("redis get failed: %w", err)
	}
	return decodeSession(data)
}

// WATCH/MULTIの楽観ロックで fn を適用する。
// 競合したら読み直してやり直す。
func (r *SessionRedisRepository) Update(ctx context.Context, id string, fn func(s *model.Session)) (model.Session, error) {
	key := sessionKey(id)

	var out model.Session
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return repo.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("redis get failed: %w", err)
		}

		s, err := decodeSession(data)
		if err != nil {
			return err
		}
		fn(&s)
		s.UpdatedAt = r.now()

		next, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("marshal session failed: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		out = s
		return nil
	}

	for i := 0; i < redisUpdateMaxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return model.Session{}, err
		}
		return out, nil
	}
	return model.Session{}, fmt.Errorf("update session %s: too many conflicts", id)
}

func (r *SessionRedisRepository) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	if n == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func decodeSession(data []byte) (model.Session, error) {
	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return model.Session{}, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return s, nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}
