package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/odyssey-erp/odyssey-tasks/internal/shared"
)

// RedisRepository keeps each owner's tasks in one hash, task id -> JSON
// document. Addressing the hash by owner makes every id lookup an
// id-and-owner lookup.
type RedisRepository struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRedisRepository constructs a Redis-backed repository.
func NewRedisRepository(client redis.UniversalClient) *RedisRepository {
	return &RedisRepository{client: client, now: time.Now}
}

func ownerKey(ownerID string) string {
	return "odyssey:tasks:" + ownerID
}

func decodeTask(payload []byte) (*Task, error) {
	var t Task
	if err := json.Unmarshal(payload, &t); err != nil {
		return nil, fmt.Errorf("tasks: decode: %w", err)
	}
	return &t, nil
}

// Create stores the task under its owner's hash.
func (r *RedisRepository) Create(ctx context.Context, task Task) (*Task, error) {
	task.ID = uuid.NewString()
	task.CreatedAt = r.now().UTC()
	task.UpdatedAt = task.CreatedAt
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("tasks: encode: %w", err)
	}
	if err := r.client.HSet(ctx, ownerKey(task.UserID), task.ID, payload).Err(); err != nil {
		return nil, fmt.Errorf("tasks: hset: %w", err)
	}
	return &task, nil
}

// ListByOwner returns the owner's tasks in creation order.
func (r *RedisRepository) ListByOwner(ctx context.Context, ownerID string) ([]Task, error) {
	values, err := r.client.HVals(ctx, ownerKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("tasks: hvals: %w", err)
	}
	out := make([]Task, 0, len(values))
	for _, v := range values {
		t, err := decodeTask([]byte(v))
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// GetOwned fetches a task by id from the owner's hash.
func (r *RedisRepository) GetOwned(ctx context.Context, id, ownerID string) (*Task, error) {
	payload, err := r.client.HGet(ctx, ownerKey(ownerID), id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("tasks: hget: %w", err)
	}
	return decodeTask(payload)
}

// updateScript merges a patch into one task document and writes it back in a
// single server-side step. It returns false when the owner has no such task.
//
// KEYS[1] owner hash
// ARGV[1] task id, ARGV[2..3] title flag and value, ARGV[4..5] description
// flag and value, ARGV[6] updatedAt
var updateScript = redis.NewScript(`
local doc = redis.call('HGET', KEYS[1], ARGV[1])
if not doc then
  return false
end
local task = cjson.decode(doc)
if ARGV[2] == '1' then
  task.title = ARGV[3]
end
if ARGV[4] == '1' then
  task.description = ARGV[5]
end
task.updatedAt = ARGV[6]
local encoded = cjson.encode(task)
redis.call('HSET', KEYS[1], ARGV[1], encoded)
return encoded
`)

func patchArgs(value *string) (string, string) {
	if value == nil {
		return "0", ""
	}
	return "1", *value
}

// UpdateOwned applies the patch atomically per task. Writes to other tasks of
// the same owner never interfere with it.
func (r *RedisRepository) UpdateOwned(ctx context.Context, id, ownerID string, patch Patch) (*Task, error) {
	titleSet, title := patchArgs(patch.Title)
	descSet, desc := patchArgs(patch.Description)
	payload, err := updateScript.Run(ctx, r.client, []string{ownerKey(ownerID)},
		id, titleSet, title, descSet, desc, r.now().UTC().Format(time.RFC3339Nano),
	).Text()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("tasks: update script: %w", err)
	}
	return decodeTask([]byte(payload))
}

// DeleteOwned removes a task from the owner's hash.
func (r *RedisRepository) DeleteOwned(ctx context.Context, id, ownerID string) error {
	removed, err := r.client.HDel(ctx, ownerKey(ownerID), id).Result()
	if err != nil {
		return fmt.Errorf("tasks: hdel: %w", err)
	}
	if removed == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*RedisRepository)(nil)
