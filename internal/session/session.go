package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-retail-admin/internal/model"

	"github.com/go-redis/redis/v8"
)

var ErrNotFound = errors.New("session not found or expired")

// Session is the server-side record a JWT points at. The profile is captured when the
// session starts and is not refreshed until the next sign-in.
type Session struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Profile   model.UserProfile `json:"profile"`
	Durable   bool              `json:"durable"`
	ExpiresAt time.Time         `json:"expires_at"`
}

func (s *Session) IsAdmin() bool {
	return s.Profile.Role == model.RoleAdmin
}

func (s *Session) Actor() model.Actor {
	name := s.Profile.DisplayName
	if name == "" {
		name = s.Profile.Email
	}
	return model.Actor{ID: s.UserID, Name: name}
}

type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteUserSessions ends every session of userID.
	DeleteUserSessions(ctx context.Context, userID string) error
	SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error
	// ConsumeResetToken returns the user id and removes the token in one step.
	ConsumeResetToken(ctx context.Context, token string) (string, error)
}

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func sessionKey(id string) string { return "session:" + id }
func resetKey(token string) string { return "reset:" + token }
func userKey(userID string) string { return "user_sessions:" + userID }

func (r *redisStore) Save(ctx context.Context, s *Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", s.ID)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	// the per-user index lives as long as the longest session in it
	current, err := r.client.TTL(ctx, userKey(s.UserID)).Result()
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(s.ID), data, ttl)
		pipe.SAdd(ctx, userKey(s.UserID), s.ID)
		if current < ttl {
			pipe.Expire(ctx, userKey(s.UserID), ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *redisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *redisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id)).Err()
}

func (r *redisStore) DeleteUserSessions(ctx context.Context, userID string) error {
	ids, err := r.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userKey(userID))
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisStore) SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	return r.client.Set(ctx, resetKey(token), userID, ttl).Err()
}

func (r *redisStore) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	userID, err := r.client.GetDel(ctx, resetKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("consume reset token: %w", err)
	}
	return userID, nil
}
