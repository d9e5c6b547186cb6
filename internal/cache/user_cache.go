package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"contacts_backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// UserSnapshot - денормализованная проекция пользователя в кеше.
// Может устареть или отсутствовать в любой момент.
type UserSnapshot struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
	// AvatarURL нужен /users/me, чтобы отвечать из кеша без обращения к БД
	AvatarURL string `json:"avatar_url,omitempty"`
}

// UserCache - best-effort кеш пользователей. Промах и ошибка Redis
// никогда не означают "пользователя не существует".
type UserCache struct {
	client    *redis.Client
	ttl       time.Duration
	opTimeout time.Duration
}

// NewUserCache; client == nil дает выключенный кеш (всегда промах)
func NewUserCache(client *redis.Client, ttl, opTimeout time.Duration) *UserCache {
	return &UserCache{client: client, ttl: ttl, opTimeout: opTimeout}
}

func userKey(id string) string {
	return "user:" + id
}

func (c *UserCache) enabled() bool {
	return c != nil && c.client != nil
}

// Put перезаписывает запись пользователя с TTL
func (c *UserCache) Put(ctx context.Context, user *models.User) error {
	if !c.enabled() || user == nil {
		return nil
	}

	payload, err := json.Marshal(UserSnapshot{
		ID:        user.ID,
		Email:     user.Email,
		IsActive:  user.IsActive,
		AvatarURL: user.AvatarURL,
	})
	if err != nil {
		return fmt.Errorf("failed to encode user snapshot: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()
	return c.client.Set(ctx, userKey(user.ID), payload, c.ttl).Err()
}

// Get возвращает (snapshot, true) при попадании и (nil, false) при промахе.
// Источник истины не опрашивается.
func (c *UserCache) Get(ctx context.Context, id string) (*UserSnapshot, bool, error) {
	if !c.enabled() {
		return nil, false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	raw, err := c.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var snapshot UserSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		// Битая запись ведет себя как промах
		return nil, false, fmt.Errorf("failed to decode user snapshot: %w", err)
	}
	return &snapshot, true, nil
}

// Invalidate удаляет запись; вызывается после каждой мутации пользователя
func (c *UserCache) Invalidate(ctx context.Context, id string) error {
	if !c.enabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()
	return c.client.Del(ctx, userKey(id)).Err()
}
