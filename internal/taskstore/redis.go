package taskstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces task keys.
const DefaultRedisPrefix = "palletforge:task:"

// redisCompleteScript moves a pending task to a terminal state atomically.
// KEYS[1] = task key
// ARGV[1] = terminal status
// ARGV[2] = location
// ARGV[3] = error message
// ARGV[4] = updated_at (RFC 3339)
// ARGV[5] = expiry in milliseconds, 0 keeps the key forever
// Returns 1 on success, 0 if already terminal, -1 if missing.
var redisCompleteScript = redis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then
    return -1
end

local task = cjson.decode(raw)
if task["status"] ~= "pending" then
    return 0
end

task["status"] = ARGV[1]
if ARGV[2] ~= "" then
    task["location"] = ARGV[2]
end
if ARGV[3] ~= "" then
    task["error"] = ARGV[3]
end
task["updated_at"] = ARGV[4]

local ttl = tonumber(ARGV[5])
if ttl > 0 then
    redis.call("SET", KEYS[1], cjson.encode(task), "PX", ttl)
else
    redis.call("SET", KEYS[1], cjson.encode(task))
end
return 1
`)

// redisDeleteIfScript deletes KEYS[1] only if it still holds ARGV[1].
var redisDeleteIfScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisOptions configures a Redis store.
type RedisOptions struct {
	// Prefix is prepended to every task id. Defaults to DefaultRedisPrefix.
	Prefix string
	// TTL expires terminal tasks inside Redis. Zero disables expiry.
	TTL time.Duration
}

// Redis is a Store backed by Redis string keys holding JSON tasks.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewRedis wraps an existing client.
func NewRedis(client redis.UniversalClient, opts RedisOptions) *Redis {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix, ttl: opts.TTL, now: time.Now}
}

// NewRedisClient creates a client for a single Redis server.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (r *Redis) key(id string) string {
	return r.prefix + id
}

// Create implements Store.
func (r *Redis) Create(ctx context.Context, task Task) error {
	if task.Status != StatusPending {
		return ErrInvalidTransition
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = r.now().UTC()
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = task.CreatedAt
	}

	raw, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode task %s: %w", task.ID, err)
	}
	ok, err := r.client.SetNX(ctx, r.key(task.ID), raw, 0).Result()
	if err != nil {
		return fmt.Errorf("redis task create error: %w", err)
	}
	if !ok {
		return ErrExists
	}
	return nil
}

// Get implements Store.
func (r *Redis) Get(ctx context.Context, id string) (Task, error) {
	raw, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Task{}, ErrNotFound
	}
	if err != nil {
		return Task{}, fmt.Errorf("redis task get error: %w", err)
	}
	return decodeTask(raw)
}

// Complete implements Store.
func (r *Redis) Complete(ctx context.Context, id string, res Result) error {
	if !res.Status.Terminal() {
		return ErrInvalidTransition
	}

	updated := r.now().UTC().Format(time.RFC3339Nano)
	out, err := redisCompleteScript.Run(ctx, r.client, []string{r.key(id)},
		string(res.Status), res.Location, res.Error, updated, r.ttl.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("redis task complete error: %w", err)
	}

	switch out {
	case 1:
		return nil
	case 0:
		return ErrAlreadyCompleted
	case -1:
		return ErrNotFound
	default:
		return fmt.Errorf("invalid response from complete script: %d", out)
	}
}

// Sweep implements Store. Keys are visited with SCAN and removed only if
// their value did not change since it was read.
func (r *Redis) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	removed := 0
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		raw, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("redis task sweep error: %w", err)
		}

		task, err := decodeTask(raw)
		if err != nil || !task.Status.Terminal() || !task.UpdatedAt.Before(cutoff) {
			continue
		}

		n, err := redisDeleteIfScript.Run(ctx, r.client, []string{key}, string(raw)).Int64()
		if err != nil {
			return removed, fmt.Errorf("redis task sweep error: %w", err)
		}
		removed += int(n)
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis task sweep error: %w", err)
	}
	return removed, nil
}

func decodeTask(raw []byte) (Task, error) {
	var task Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return Task{}, fmt.Errorf("failed to decode task: %w", err)
	}
	return task, nil
}
