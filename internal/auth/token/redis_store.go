package token

import (
	"context"
	"encoding/json"
	"time"

	"github.com/collabblog/blogclient/internal/auth/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps the credential set in redis under a per-client prefix.
// Meant for headless deployments where several workers share one session.
// The Store contract still applies: every redis fault degrades to absent.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
	log     *zap.Logger
}

func NewRedisStore(client *redis.Client, prefix string, log *zap.Logger) *RedisStore {
	return &RedisStore{
		client:  client,
		prefix:  prefix,
		timeout: 3 * time.Second,
		log:     log,
	}
}

func (s *RedisStore) key(k string) string { return s.prefix + ":" + k }

func (s *RedisStore) get(k string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.key(k)).Result()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("redis get", zap.String("key", k), zap.Error(err))
		}
		return "", false
	}
	return val, val != ""
}

func (s *RedisStore) set(k, v string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.client.Set(ctx, s.key(k), v, 0).Err(); err != nil {
		s.log.Error("redis set", zap.String("key", k), zap.Error(err))
	}
}

func (s *RedisStore) del(keys ...string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		s.log.Error("redis del", zap.Error(err))
	}
}

func (s *RedisStore) AccessToken() (string, bool)  { return s.get(KeyAccessToken) }
func (s *RedisStore) RefreshToken() (string, bool) { return s.get(KeyRefreshToken) }

func (s *RedisStore) SetTokens(access, refresh string) {
	s.set(KeyAccessToken, access)
	s.set(KeyRefreshToken, refresh)
}

func (s *RedisStore) ClearTokens() {
	s.del(KeyAccessToken, KeyRefreshToken)
}

func (s *RedisStore) SaveProfile(u model.User) {
	if u.ID == "" {
		s.log.Error("refusing to cache profile without id")
		return
	}
	raw, err := json.Marshal(u)
	if err != nil {
		s.log.Error("marshal cached profile", zap.Error(err))
		return
	}
	s.set(KeyUserData, string(raw))
}

func (s *RedisStore) CachedProfile() (model.User, bool) {
	val, ok := s.get(KeyUserData)
	if !ok {
		return model.User{}, false
	}
	var u model.User
	if err := json.Unmarshal([]byte(val), &u); err != nil {
		s.log.Warn("corrupt cached profile, discarding", zap.Error(err))
		return model.User{}, false
	}
	return u, true
}

func (s *RedisStore) Clear() {
	s.del(KeyAccessToken, KeyRefreshToken, KeyUserData)
}
