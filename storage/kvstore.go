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
	"os"
	"path"
	"strings"
	"time"

	"github.com/nuts-foundation/go-stoabs"
	"github.com/nuts-foundation/go-stoabs/bbolt"
	"github.com/nuts-foundation/go-stoabs/redis7"
	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/storage/log"
	"github.com/redis/go-redis/v9"
)

const lockAcquireTimeout = time.Second
const bboltDbExtension = ".db"

// database creates persistent key-value stores.
type database interface {
	createStore(moduleName string, storeName string) (stoabs.KVStore, error)
	close()
}

type bboltDatabase struct {
	datadir string
}

func (b bboltDatabase) createStore(moduleName string, storeName string) (stoabs.KVStore, error) {
	fullStoreName := path.Join(moduleName, storeName)
	log.Logger().
		WithField(core.LogFieldStore, fullStoreName).
		Debug("Creating BBolt store")
	databasePath := path.Join(b.datadir, fullStoreName) + bboltDbExtension
	if err := os.MkdirAll(path.Dir(databasePath), os.ModePerm); err != nil {
		return nil, err
	}
	return bbolt.CreateBBoltStore(databasePath, stoabs.WithLockAcquireTimeout(lockAcquireTimeout))
}

func (b bboltDatabase) close() {
	// stores are closed by the engine
}

type redisDatabase struct {
	databaseName string
	client       *redis.Client
}

func (r redisDatabase) createStore(moduleName string, storeName string) (stoabs.KVStore, error) {
	log.Logger().
		WithField(core.LogFieldStore, path.Join(moduleName, storeName)).
		Debug("Creating Redis store")
	var prefixParts []string
	if len(r.databaseName) > 0 {
		prefixParts = append(prefixParts, r.databaseName)
	}
	prefixParts = append(prefixParts, moduleName, storeName)
	prefix := strings.ToLower(strings.Join(prefixParts, "_"))
	return redis7.Wrap(prefix, r.client, stoabs.WithLockAcquireTimeout(lockAcquireTimeout))
}

func (r redisDatabase) close() {
	// the client is shared with the session database, which closes it
}

// ReadJSON reads the JSON value stored under the given key on the given shelf into target.
// It returns ErrNotFound if the shelf or key does not exist.
func ReadJSON(ctx context.Context, store stoabs.KVStore, shelf string, key string, target interface{}) error {
	var data []byte
	err := store.ReadShelf(ctx, shelf, func(reader stoabs.Reader) error {
		var err error
		data, err = reader.Get(stoabs.BytesKey(key))
		return err
	})
	if err != nil {
		if errors.Is(err, stoabs.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}
	if data == nil {
		// the shelf does not exist (yet)
		return ErrNotFound
	}
	return json.Unmarshal(data, target)
}

// WriteJSON stores the given value as JSON under the given key on the given shelf.
func WriteJSON(ctx context.Context, store stoabs.KVStore, shelf string, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.WriteShelf(ctx, shelf, func(writer stoabs.Writer) error {
		return writer.Put(stoabs.BytesKey(key), data)
	})
}
