package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/odyssey-erp/odyssey-tasks/internal/shared"
)

// usersByEmailKey is a hash of email -> JSON user document.
const usersByEmailKey = "odyssey:users:by_email"

type userDocument struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// RedisRepository stores users as JSON documents keyed by email.
type RedisRepository struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRedisRepository constructs a Redis-backed repository.
func NewRedisRepository(client redis.UniversalClient) *RedisRepository {
	return &RedisRepository{client: client, now: time.Now}
}

// Create stores the user with HSETNX so two concurrent signups for the same
// email cannot both succeed.
func (r *RedisRepository) Create(ctx context.Context, user User) (*User, error) {
	user.ID = uuid.NewString()
	user.CreatedAt = r.now().UTC()
	payload, err := json.Marshal(userDocument{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("users: encode: %w", err)
	}
	created, err := r.client.HSetNX(ctx, usersByEmailKey, user.Email, payload).Result()
	if err != nil {
		return nil, fmt.Errorf("users: hsetnx: %w", err)
	}
	if !created {
		return nil, shared.ErrEmailTaken
	}
	return &user, nil
}

// FindByEmail fetches a user by email.
func (r *RedisRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	payload, err := r.client.HGet(ctx, usersByEmailKey, email).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("users: hget: %w", err)
	}
	var doc userDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("users: decode: %w", err)
	}
	return &User{
		ID:           doc.ID,
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

var _ Repository = (*RedisRepository)(nil)
