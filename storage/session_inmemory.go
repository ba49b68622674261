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
	"github.com/eko/gocache/store/go_cache/v4"
	gocacheclient "github.com/patrickmn/go-cache"
)

var _ SessionDatabase = (*InMemorySessionDatabase)(nil)

var sessionStorePruneInterval = 10 * time.Minute

// InMemorySessionDatabase is an in memory database that holds session data on a KV basis.
// Entries are lost when the process stops.
type InMemorySessionDatabase struct {
	client     *gocacheclient.Cache
	underlying *cache.Cache[string]
}

// NewInMemorySessionDatabase creates a new in memory session database.
func NewInMemorySessionDatabase() *InMemorySessionDatabase {
	// entries without TTL never expire, the pruner only removes entries with a TTL
	client := gocacheclient.New(gocacheclient.NoExpiration, sessionStorePruneInterval)
	return &InMemorySessionDatabase{
		client:     client,
		underlying: cache.New[string](go_cache.NewGoCache(client)),
	}
}

func (s *InMemorySessionDatabase) GetStore(ttl time.Duration, keys ...string) SessionStore {
	return sessionStore{
		underlying: s.underlying,
		ttl:        ttl,
		prefixes:   keys,
	}
}

func (s *InMemorySessionDatabase) Close() {
	s.client.Flush()
}
