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

package core

import (
	"os"
	"path"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerConfig_Load(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := NewServerConfig()

		require.NoError(t, cfg.Load(FlagSet()))

		assert.Equal(t, "info", cfg.Verbosity)
		assert.Equal(t, ":8080", cfg.HTTP.Address)
		assert.True(t, cfg.Strictmode)
		assert.Equal(t, "./data", cfg.Datadir)
	})
	t.Run("file, env and flags in order of precedence", func(t *testing.T) {
		configFile := path.Join(t.TempDir(), "test.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("verbosity: debug\ndatadir: /from-file\nhttp:\n  address: :1111\n"), 0600))
		t.Setenv("NUTS_CONFIGFILE", configFile)
		t.Setenv("NUTS_DATADIR", "/from-env")
		flags := FlagSet()
		require.NoError(t, flags.Parse([]string{"--http.address", ":2222"}))
		cfg := NewServerConfig()

		require.NoError(t, cfg.Load(flags))

		assert.Equal(t, "debug", cfg.Verbosity)
		assert.Equal(t, "/from-env", cfg.Datadir)
		assert.Equal(t, ":2222", cfg.HTTP.Address)
		assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
		logrus.SetLevel(logrus.InfoLevel)
	})
	t.Run("error - invalid log format", func(t *testing.T) {
		flags := FlagSet()
		require.NoError(t, flags.Parse([]string{"--loggerformat", "xml"}))

		err := NewServerConfig().Load(flags)

		assert.EqualError(t, err, "invalid formatter: 'xml'")
	})
	t.Run("error - invalid verbosity", func(t *testing.T) {
		flags := FlagSet()
		require.NoError(t, flags.Parse([]string{"--verbosity", "loud"}))

		err := NewServerConfig().Load(flags)

		assert.Error(t, err)
	})
}

func TestRegisterCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Namespace: MetricsNamespace, Name: "test_total"})

	require.NoError(t, RegisterCollectors(registry, counter))
	// registering twice is tolerated
	assert.NoError(t, RegisterCollectors(registry, counter))
}
