package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"homefinder/internal/config"
	"homefinder/internal/model"

	"github.com/redis/go-redis/v9"
)

// PreferencesKeyPrefix namespaces the single per-session hand-off key
const PreferencesKeyPrefix = "propertyPreferences:"

// ErrPreferencesNotFound means nothing is stored for the session
var ErrPreferencesNotFound = errors.New("preferences not found")

// NewRedisClient creates a Redis client for the preference store
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

// PreferenceStore hands submitted preferences to the results step.
// Values are JSON and expire after ttl; a successful run deletes them.
type PreferenceStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPreferenceStore creates a store on client
func NewPreferenceStore(client *redis.Client, ttl time.Duration) *PreferenceStore {
	return &PreferenceStore{client: client, ttl: ttl}
}

func preferencesKey(sessionID string) string {
	return PreferencesKeyPrefix + sessionID
}

// Ping tests the Redis connection
func (s *PreferenceStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *PreferenceStore) Close() error {
	return s.client.Close()
}

// Put stores prefs for sessionID, replacing any earlier submission
func (s *PreferenceStore) Put(ctx context.Context, sessionID string, prefs model.PropertyPreferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := s.client.Set(ctx, preferencesKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store preferences: %w", err)
	}
	return nil
}

// Delete removes the preferences for sessionID. A missing key is not an error.
func (s *PreferenceStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, preferencesKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete preferences: %w", err)
	}
	return nil
}

// Peek returns the preferences without consuming them, for prefilling the form
func (s *PreferenceStore) Peek(ctx context.Context, sessionID string) (model.PropertyPreferences, error) {
	data, err := s.client.Get(ctx, preferencesKey(sessionID)).Bytes()
	return decodePreferences(data, err)
}

func decodePreferences(data []byte, err error) (model.PropertyPreferences, error) {
	var prefs model.PropertyPreferences
	if errors.Is(err, redis.Nil) {
		return prefs, ErrPreferencesNotFound
	}
	if err != nil {
		return prefs, fmt.Errorf("failed to load preferences: %w", err)
	}
	if err := json.Unmarshal(data, &prefs); err != nil {
		return prefs, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	return prefs, nil
}
