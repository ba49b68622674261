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
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsNamespace is the prometheus namespace all metrics of the server are registered in.
const MetricsNamespace = "nuts"

var _ Configurable = (*MetricsEngine)(nil)
var _ Routable = (*MetricsEngine)(nil)

// MetricsEngine exposes prometheus metrics via http.
// Metrics are exposed on /metrics, by default the GoCollector and ProcessCollector are enabled.
type MetricsEngine struct{}

// NewMetricsEngine creates a new Engine for exposing prometheus metrics via http.
func NewMetricsEngine() *MetricsEngine {
	return &MetricsEngine{}
}

// Name returns the name of the engine.
func (e *MetricsEngine) Name() string {
	return "Metrics"
}

// Configure registers the default collectors.
func (e *MetricsEngine) Configure(_ ServerConfig) error {
	return RegisterCollectors(prometheus.DefaultRegisterer,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Routes registers the /metrics endpoint.
func (e *MetricsEngine) Routes(router EchoRouter) {
	router.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterCollectors registers the given collectors, ignoring collectors that were already registered.
func RegisterCollectors(registerer prometheus.Registerer, cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := registerer.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}
