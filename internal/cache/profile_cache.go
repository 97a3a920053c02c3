package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"userhub/internal/model"
)

type ProfileCache struct {
	client     *redisv9.Client
	profileTTL time.Duration
}

func NewProfileCache(client *redisv9.Client, profileTTL time.Duration) *ProfileCache {
	if profileTTL <= 0 {
		profileTTL = 60 * time.Second
	}
	return &ProfileCache{
		client:     client,
		profileTTL: profileTTL,
	}
}

func (c *ProfileCache) GetProfile(ctx context.Context, userID string) (*model.Profile, bool, error) {
	raw, err := c.client.Get(ctx, c.profileKey(userID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get profile failed: %w", err)
	}

	var profile model.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached profile failed: %w", err)
	}
	return &profile, true, nil
}

func (c *ProfileCache) SetProfile(ctx context.Context, userID string, profile *model.Profile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.profileKey(userID), payload, c.profileTTL).Err(); err != nil {
		return fmt.Errorf("redis set profile failed: %w", err)
	}
	return nil
}

func (c *ProfileCache) DeleteProfile(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, c.profileKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete profile failed: %w", err)
	}
	return nil
}

func (c *ProfileCache) profileKey(userID string) string {
	return fmt.Sprintf("user:profile:%s", userID)
}
