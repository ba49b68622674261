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

import "time"

// Config holds all the configuration params
type Config struct {
	Nats NatsConfig `koanf:"nats"`
}

// NatsConfig holds the configuration of the NATS connection notifications are published on.
type NatsConfig struct {
	URL     string        `koanf:"url"`
	Subject string        `koanf:"subject"`
	Timeout time.Duration `koanf:"timeout"`
}

// DefaultConfig returns an instance of Config with the default values.
func DefaultConfig() Config {
	return Config{
		Nats: NatsConfig{
			Subject: "nuts.signing",
			Timeout: 5 * time.Second,
		},
	}
}
