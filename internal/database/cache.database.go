package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"
)

// Valkey database index organization. Each index provides logical separation
// for one cache category.
const (
	// GeneralCacheIndex (DB 0) - room board and other general caching
	GeneralCacheIndex = iota

	// GuestCacheIndex (DB 1) - guest access link token lookups
	GuestCacheIndex

	// EventsCacheIndex (DB 2) - pub/sub for room status change events
	EventsCacheIndex
)

// CacheGetJSON reads a JSON value into dest. Returns false when the key is
// absent; cache errors other than a miss are returned to the caller, who
// treats them as a miss and falls through to the database.
func CacheGetJSON(ctx context.Context, client CacheClient, key string, dest any) (bool, error) {
	raw, err := client.Do(ctx, client.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// CacheSetJSON stores value as JSON under key with the given TTL.
func CacheSetJSON(
	ctx context.Context,
	client CacheClient,
	key string,
	value any,
	ttl time.Duration,
) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cmd := client.B().Set().Key(key).Value(string(raw)).Ex(ttl).Build()
	return client.Do(ctx, cmd).Error()
}

// CacheDelete removes a key, ignoring absence.
func CacheDelete(ctx context.Context, client CacheClient, key string) error {
	return client.Do(ctx, client.B().Del().Key(key).Build()).Error()
}
