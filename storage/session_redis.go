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
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/nuts-foundation/nuts-signing/storage/log"
	"github.com/redis/go-redis/v9"
)

var _ SessionDatabase = (*RedisSessionDatabase)(nil)

// RedisSessionDatabase is a session database backed by Redis, so sessions survive restarts
// and can be shared between server instances.
type RedisSessionDatabase struct {
	client     *redis.Client
	underlying *cache.Cache[string]
	prefix     string
}

// NewRedisSessionDatabase creates a session database on the given Redis client.
// All keys are prefixed with the given prefix (if not empty).
func NewRedisSessionDatabase(client *redis.Client, prefix string) *RedisSessionDatabase {
	return &RedisSessionDatabase{
		client:     client,
		underlying: cache.New[string](redisstore.NewRedis(client)),
		prefix:     prefix,
	}
}

func (s *RedisSessionDatabase) GetStore(ttl time.Duration, keys ...string) SessionStore {
	var prefixes []string
	if s.prefix != "" {
		prefixes = append(prefixes, s.prefix)
	}
	return sessionStore{
		underlying: s.underlying,
		ttl:        ttl,
		prefixes:   append(prefixes, keys...),
	}
}

func (s *RedisSessionDatabase) Close() {
	if err := s.client.Close(); err != nil {
		log.Logger().WithError(err).Error("Failed to close redis client")
	}
}
