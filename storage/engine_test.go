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
	"path"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/test/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Alias string `json:"alias"`
}

func TestEngine_BBolt(t *testing.T) {
	ctx := context.Background()
	datadir := io.TestDirectory(t)
	instance := New()
	require.NoError(t, instance.Configure(core.ServerConfig{Datadir: datadir}))
	require.NoError(t, instance.Start())
	t.Cleanup(func() {
		_ = instance.Shutdown()
	})

	t.Run("stores are cached by name", func(t *testing.T) {
		store1, err := instance.GetKVStore("Signing", "certificates")
		require.NoError(t, err)
		store2, err := instance.GetKVStore("signing", "certificates")
		require.NoError(t, err)

		assert.Same(t, store1, store2)
		assert.FileExists(t, path.Join(datadir, "storage", "signing", "certificates.db"))
	})
	t.Run("write and read JSON", func(t *testing.T) {
		store, _ := instance.GetKVStore("signing", "certificates")

		require.NoError(t, WriteJSON(ctx, store, "records", "alice", record{Alias: "cert-alice"}))
		var actual record
		require.NoError(t, ReadJSON(ctx, store, "records", "alice", &actual))

		assert.Equal(t, "cert-alice", actual.Alias)
	})
	t.Run("read unknown key", func(t *testing.T) {
		store, _ := instance.GetKVStore("signing", "certificates")
		var actual record

		assert.ErrorIs(t, ReadJSON(ctx, store, "records", "bob", &actual), ErrNotFound)
		assert.ErrorIs(t, ReadJSON(ctx, store, "unknown-shelf", "bob", &actual), ErrNotFound)
	})
	t.Run("in-memory session database", func(t *testing.T) {
		assert.IsType(t, &InMemorySessionDatabase{}, instance.GetSessionDatabase())
	})
	t.Run("error - invalid store name", func(t *testing.T) {
		_, err := instance.GetKVStore("signing", "")

		assert.EqualError(t, err, "invalid store name")
	})
}

func TestEngine_Redis(t *testing.T) {
	ctx := context.Background()
	redisServer := miniredis.RunT(t)
	instance := New()
	instance.(*engine).config.Redis = RedisConfig{Address: redisServer.Addr(), Database: "db"}
	require.NoError(t, instance.Configure(core.ServerConfig{Datadir: io.TestDirectory(t)}))
	t.Cleanup(func() {
		_ = instance.Shutdown()
	})

	store, err := instance.GetKVStore("signing", "campaigns")
	require.NoError(t, err)
	require.NoError(t, WriteJSON(ctx, store, "campaigns", "c1", record{Alias: "value"}))

	var actual record
	require.NoError(t, ReadJSON(ctx, store, "campaigns", "c1", &actual))
	assert.Equal(t, "value", actual.Alias)
	assert.IsType(t, &RedisSessionDatabase{}, instance.GetSessionDatabase())
	keys := redisServer.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], "db_signing_campaigns")
}

func TestEngine_GetKVStore_NotConfigured(t *testing.T) {
	_, err := New().GetKVStore("signing", "certificates")

	assert.EqualError(t, err, "storage engine not configured")
}

func TestRedisConfig_parse(t *testing.T) {
	t.Run("host:port", func(t *testing.T) {
		opts, err := RedisConfig{Address: "localhost:1234", Username: "user", Password: "pass"}.parse()

		require.NoError(t, err)
		assert.Equal(t, "localhost:1234", opts.Addr)
		assert.Equal(t, "user", opts.Username)
		assert.Equal(t, "pass", opts.Password)
	})
	t.Run("URL", func(t *testing.T) {
		opts, err := RedisConfig{Address: "redis://localhost:1234/2"}.parse()

		require.NoError(t, err)
		assert.Equal(t, 2, opts.DB)
	})
}
