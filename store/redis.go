package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"netspo/errors"
)

const keyPrefix = "netspo:session:"

// Redis keeps sessions in Redis hashes under "netspo:session:<login>".
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the Redis server at url (redis://[:password@]host[:port][/db])
// and checks that it answers. Sessions expire after ttl; a ttl of 0 keeps them
// until they are deleted.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.NewError("store.NewRedis", "cannot parse redis url", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.NewError("store.NewRedis", "cannot reach redis", err)
	}
	return NewRedisClient(client, ttl), nil
}

// NewRedisClient wraps an existing client.
func NewRedisClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Save stores s for login, replacing any previous session.
func (r *Redis) Save(ctx context.Context, login string, s Session) error {
	fields := map[string]any{}
	for name, v := range map[string]any{
		"student": s.Student,
		"teacher": s.Teacher,
		"cookies": s.Cookies,
	} {
		b, err := json.Marshal(v)
		if err != nil {
			return errors.NewError("store.Save", "cannot encode "+name, err)
		}
		fields[name] = string(b)
	}

	key := keyPrefix + login
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return errors.NewError("store.Save", "cannot write session", err)
	}
	return nil
}

// Load returns the session saved for login, or an error matching
// errors.ErrNoSession if there is none.
func (r *Redis) Load(ctx context.Context, login string) (Session, error) {
	res, err := r.client.HGetAll(ctx, keyPrefix+login).Result()
	if err != nil {
		return Session{}, errors.NewError("store.Load", "cannot read session", err)
	}
	if len(res) == 0 {
		return Session{}, errNoSession
	}

	var s Session
	targets := map[string]any{
		"student": &s.Student,
		"teacher": &s.Teacher,
		"cookies": &s.Cookies,
	}
	for name, target := range targets {
		raw, ok := res[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal([]byte(raw), target); err != nil {
			return Session{}, errors.NewError("store.Load", "cannot decode "+name, err)
		}
	}
	return s, nil
}

// Delete removes the session saved for login. Deleting a missing session is
// not an error.
func (r *Redis) Delete(ctx context.Context, login string) error {
	if err := r.client.Del(ctx, keyPrefix+login).Err(); err != nil {
		return errors.NewError("store.Delete", "cannot delete session", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
