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
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/nuts-foundation/go-stoabs"
	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/storage/log"
	"github.com/redis/go-redis/v9"
)

const storeShutdownTimeout = 5 * time.Second

// Engine provides access to the session database and persistent key-value stores.
type Engine interface {
	core.Named
	core.Configurable
	core.Runnable

	// GetKVStore returns a persistent key-value store. Stores are identified by module and name,
	// when the same module and name is passed the same store is returned.
	GetKVStore(moduleName string, storeName string) (stoabs.KVStore, error)
	// GetSessionDatabase returns the database for (short-lived) session data.
	GetSessionDatabase() SessionDatabase
}

var _ Engine = (*engine)(nil)
var _ core.Injectable = (*engine)(nil)

type engine struct {
	config          Config
	database        database
	sessionDatabase SessionDatabase
	stores          map[string]stoabs.KVStore
	storesMux       *sync.Mutex
}

// New creates a new instance of the storage engine.
func New() Engine {
	return &engine{
		config:    DefaultConfig(),
		stores:    map[string]stoabs.KVStore{},
		storesMux: &sync.Mutex{},
	}
}

func (e *engine) Name() string {
	return "Storage"
}

func (e *engine) Config() interface{} {
	return &e.config
}

// Configure opens the Redis connection if configured, otherwise stores are kept in BBolt files in the datadir
// and sessions in memory.
func (e *engine) Configure(config core.ServerConfig) error {
	if !e.config.Redis.isConfigured() {
		log.Logger().Info("Redis not configured, sessions are kept in memory and records in BBolt")
		e.database = bboltDatabase{datadir: path.Join(config.Datadir, "storage")}
		e.sessionDatabase = NewInMemorySessionDatabase()
		return nil
	}
	opts, err := e.config.Redis.parse()
	if err != nil {
		return fmt.Errorf("unable to configure Redis database: %w", err)
	}
	client := redis.NewClient(opts)
	e.database = redisDatabase{databaseName: e.config.Redis.Database, client: client}
	e.sessionDatabase = NewRedisSessionDatabase(client, strings.ToLower(e.config.Redis.Database))
	log.Logger().Info("Redis database support enabled")
	return nil
}

func (e *engine) Start() error {
	return nil
}

// Shutdown closes all stores, then the session database.
func (e *engine) Shutdown() error {
	e.storesMux.Lock()
	defer e.storesMux.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), storeShutdownTimeout)
	defer cancel()
	var errs []error
	for name, store := range e.stores {
		if err := store.Close(ctx); err != nil {
			log.Logger().
				WithError(err).
				WithField(core.LogFieldStore, name).
				Error("Failed to close store")
			errs = append(errs, err)
		}
	}
	e.stores = map[string]stoabs.KVStore{}
	if e.database != nil {
		e.database.close()
	}
	if e.sessionDatabase != nil {
		e.sessionDatabase.Close()
	}
	if len(errs) > 0 {
		return errors.New("one or more stores failed to close")
	}
	return nil
}

func (e *engine) GetKVStore(moduleName string, storeName string) (stoabs.KVStore, error) {
	if len(moduleName) == 0 || len(storeName) == 0 {
		return nil, errors.New("invalid store name")
	}
	if e.database == nil {
		return nil, errors.New("storage engine not configured")
	}
	e.storesMux.Lock()
	defer e.storesMux.Unlock()

	key := strings.ToLower(moduleName + "/" + storeName)
	if store, ok := e.stores[key]; ok {
		return store, nil
	}
	store, err := e.database.createStore(strings.ToLower(moduleName), strings.ToLower(storeName))
	if err != nil {
		return nil, fmt.Errorf("unable to create store %s: %w", key, err)
	}
	e.stores[key] = store
	return store, nil
}

func (e *engine) GetSessionDatabase() SessionDatabase {
	return e.sessionDatabase
}
