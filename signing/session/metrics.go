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

package session

import (
	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors of the signing flows.
type Metrics struct {
	transitions       *prometheus.CounterVec
	pollAttempts      prometheus.Histogram
	authorityRequests *prometheus.CounterVec
}

// NewMetrics creates unregistered collectors, see Collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: core.MetricsNamespace,
			Subsystem: "signing",
			Name:      "session_transitions_total",
			Help:      "Number of signing session phase transitions.",
		}, []string{"from", "to"}),
		pollAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: core.MetricsNamespace,
			Subsystem: "signing",
			Name:      "poll_attempts",
			Help:      "Number of status queries per polling run.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 20},
		}),
		authorityRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: core.MetricsNamespace,
			Subsystem: "signing",
			Name:      "authority_requests_total",
			Help:      "Number of requests to the remote authorities, by outcome.",
		}, []string{"authority", "outcome"}),
	}
}

// Collectors returns the collectors to register.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.transitions, m.pollAttempts, m.authorityRequests}
}

// ObserveAuthorityRequest counts a request to a remote authority.
func (m *Metrics) ObserveAuthorityRequest(authority string, outcome string) {
	m.authorityRequests.WithLabelValues(authority, outcome).Inc()
}

func (m *Metrics) observeTransition(from, to string) {
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) observePollRun(attempts int) {
	m.pollAttempts.Observe(float64(attempts))
}
