/*
 * Copyright (C) 2025 Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 *
 */

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
)

// ErrNotFound is returned when a key does not exist in a store.
var ErrNotFound = errors.New("not found")

// SessionDatabase is a non-persistent database that holds session data on a KV basis.
// All entries are stored with a TTL, so they will be removed automatically.
type SessionDatabase interface {
	// GetStore returns a SessionStore with the given keys as key prefixes.
	// The keys are used to logically partition the store, eg: "signing", "sessions".
	GetStore(ttl time.Duration, keys ...string) SessionStore
	// Close stops any background processes and closes the database.
	Close()
}

// SessionStore is a key-value store that holds session data, values are stored as JSON.
type SessionStore interface {
	// Delete deletes the entry for the given key.
	// It does not return an error if the key does not exist.
	Delete(ctx context.Context, key string) error
	// Exists returns true if the key exists.
	Exists(ctx context.Context, key string) bool
	// Get returns the value for the given key.
	// Returns ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string, target interface{}) error
	// Put stores the given value for the given key, overwriting any existing value (last writer wins).
	Put(ctx context.Context, key string, value interface{}) error
}

var _ SessionStore = (*sessionStore)(nil)

// sessionStore is a SessionStore on top of gocache, regardless of the cache backend.
type sessionStore struct {
	underlying cache.CacheInterface[string]
	ttl        time.Duration
	prefixes   []string
}

func (s sessionStore) Delete(ctx context.Context, key string) error {
	err := s.underlying.Delete(ctx, s.getFullKey(key))
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

func (s sessionStore) Exists(ctx context.Context, key string) bool {
	_, err := s.underlying.Get(ctx, s.getFullKey(key))
	return err == nil
}

func (s sessionStore) Get(ctx context.Context, key string, target interface{}) error {
	val, err := s.underlying.Get(ctx, s.getFullKey(key))
	if err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return json.Unmarshal([]byte(val), target)
}

func (s sessionStore) Put(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.underlying.Set(ctx, s.getFullKey(key), string(data), store.WithExpiration(s.ttl))
}

func (s sessionStore) getFullKey(key string) string {
	return strings.Join(append(append([]string{}, s.prefixes...), key), "/")
}

// isNotFound checks for the not-found error of gocache stores, which is returned as pointer by some stores
// and as value by others.
func isNotFound(err error) bool {
	var ptr *store.NotFound
	var val store.NotFound
	return errors.As(err, &ptr) || errors.As(err, &val)
}
