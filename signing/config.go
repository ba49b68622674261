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

package signing

import (
	"time"

	"github.com/nuts-foundation/nuts-signing/signing/appearance"
	"github.com/nuts-foundation/nuts-signing/signing/certificate"
	"github.com/nuts-foundation/nuts-signing/signing/poller"
)

// Config holds all the configuration params
type Config struct {
	Certificate CertificateConfig `koanf:"certificate"`
	Poll        poller.Config     `koanf:"poll"`
	Session     SessionConfig     `koanf:"session"`
	Authority   AuthorityConfig   `koanf:"authority"`
	Appearance  appearance.Config `koanf:"appearance"`
	Documents   DocumentsConfig   `koanf:"documents"`
}

// CertificateConfig holds the settings for certificate issuance.
type CertificateConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

// SessionConfig holds the settings for signing sessions.
type SessionConfig struct {
	// TTL is how long a session is kept after its last transition.
	TTL time.Duration `koanf:"ttl"`
}

// AuthorityConfig holds the endpoints of the remote authorities. Either all or none of the URLs must be set.
type AuthorityConfig struct {
	Certificate EndpointConfig `koanf:"certificate"`
	Challenge   EndpointConfig `koanf:"challenge"`
	Signing     EndpointConfig `koanf:"signing"`
	// Token is passed as bearer token to all authorities.
	Token   string        `koanf:"token"`
	Timeout time.Duration `koanf:"timeout"`
	// RateLimit is the maximum number of requests per second to each authority.
	RateLimit float64 `koanf:"ratelimit"`
}

// EndpointConfig holds the address of a remote authority.
type EndpointConfig struct {
	URL string `koanf:"url"`
}

// DocumentsConfig holds the settings for retrieving documents.
type DocumentsConfig struct {
	// Root is the directory file:// document locators are resolved in.
	Root string `koanf:"root"`
}

func (a AuthorityConfig) urls() []string {
	return []string{a.Certificate.URL, a.Challenge.URL, a.Signing.URL}
}

// DefaultConfig returns a Config with sane defaults
func DefaultConfig() Config {
	return Config{
		Certificate: CertificateConfig{Timeout: certificate.DefaultTimeout},
		Poll:        poller.DefaultConfig(),
		Session:     SessionConfig{TTL: 24 * time.Hour},
		Authority: AuthorityConfig{
			Timeout:   10 * time.Second,
			RateLimit: 10,
		},
		Appearance: appearance.DefaultConfig(),
	}
}
