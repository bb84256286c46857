package redisstore

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
)

func sessionKey(accountID int64) string {
	return "account:session:" + strconv.FormatInt(accountID, 10)
}

// SessionStore keeps one session hash per account. Saving overwrites the
// previous session, so only the latest login stays valid.
type SessionStore struct {
	Redis *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{Redis: rdb}
}

func (s *SessionStore) Save(ctx context.Context, sess entity.Session, ttl time.Duration) error {
	key := sessionKey(sess.AccountID)
	pipe := s.Redis.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, map[string]any{
		"sid":        sess.ID,
		"account_id": sess.AccountID,
		"email":      sess.Email,
		"role":       sess.Role.String(),
		"created_at": sess.CreatedAt.UTC().Format(time.RFC3339),
	})
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Get returns nil when the account has no live session.
func (s *SessionStore) Get(ctx context.Context, accountID int64) (*entity.Session, error) {
	data, err := s.Redis.HGetAll(ctx, sessionKey(accountID)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || data["sid"] == "" {
		return nil, nil
	}
	sess := &entity.Session{
		ID:        data["sid"],
		AccountID: accountID,
		Email:     data["email"],
		Role:      entity.Role(data["role"]),
	}
	if t, err := time.Parse(time.RFC3339, data["created_at"]); err == nil {
		sess.CreatedAt = t
	}
	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, accountID int64) error {
	return s.Redis.Del(ctx, sessionKey(accountID)).Err()
}
