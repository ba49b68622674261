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

package events

import (
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/events/log"
)

const moduleName = "Events"

const notificationQueueSize = 100

var _ Manager = (*manager)(nil)
var _ core.Injectable = (*manager)(nil)
var _ core.Configurable = (*manager)(nil)
var _ core.Runnable = (*manager)(nil)

type manager struct {
	config Config
	conn   Conn
	sink   *AsyncSink
	// connector is used to connect to NATS, replaced in tests.
	connector func(config NatsConfig) (Conn, error)
}

// NewManager returns a new events engine.
func NewManager() Manager {
	return &manager{
		config:    DefaultConfig(),
		connector: connect,
	}
}

func connect(config NatsConfig) (Conn, error) {
	return nats.Connect(
		config.URL,
		nats.RetryOnFailedConnect(true),
		nats.Timeout(config.Timeout),
	)
}

func (m *manager) Name() string {
	return moduleName
}

func (m *manager) Config() interface{} {
	return &m.config
}

func (m *manager) Configure(_ core.ServerConfig) error {
	sinks := MultiSink{NewLogSink()}
	if m.config.Nats.URL != "" {
		if m.config.Nats.Subject == "" {
			return errors.New("events.nats.subject must be set when events.nats.url is configured")
		}
		conn, err := m.connector(m.config.Nats)
		if err != nil {
			return fmt.Errorf("unable to connect to NATS (url=%s): %w", m.config.Nats.URL, err)
		}
		m.conn = conn
		sinks = append(sinks, NewNATSSink(conn, m.config.Nats.Subject))
		log.Logger().Infof("Notifications are published on NATS (subject=%s)", m.config.Nats.Subject)
	}
	m.sink = NewAsyncSink(sinks, notificationQueueSize)
	return nil
}

func (m *manager) Start() error {
	return nil
}

func (m *manager) Shutdown() error {
	if m.sink != nil {
		m.sink.Close()
	}
	if m.conn != nil {
		if err := m.conn.Flush(); err != nil {
			log.Logger().WithError(err).Warn("Unable to flush NATS connection")
		}
		m.conn.Close()
	}
	return nil
}

func (m *manager) Sink() Sink {
	return m.sink
}
