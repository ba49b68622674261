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
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// DiagnosticResult are the result of different checks giving information on how well the system is doing
type DiagnosticResult interface {
	// Name returns a simple and understandable name of the check
	Name() string
	// String returns the outcome of the check formatted as string
	String() string
}

// GenericDiagnosticResult is an implementation of the DiagnosticResult interface that contains a generic value.
type GenericDiagnosticResult struct {
	Title string
	Value interface{}
}

// Name returns the name of the GenericDiagnosticResult
func (r *GenericDiagnosticResult) Name() string {
	return r.Title
}

// String returns the outcome of the GenericDiagnosticResult as string
func (r *GenericDiagnosticResult) String() string {
	return fmt.Sprintf("%v", r.Value)
}

// StatusEngine reports the registered engines and their diagnostics.
type StatusEngine struct {
	system *System
}

// NewStatusEngine creates a new Engine for viewing all engines
func NewStatusEngine(system *System) *StatusEngine {
	return &StatusEngine{system: system}
}

// Name returns the name of the engine.
func (s *StatusEngine) Name() string {
	return "Status"
}

// Routes registers the status endpoints.
func (s *StatusEngine) Routes(router EchoRouter) {
	router.GET("/status/diagnostics", s.diagnosticsOverview)
	router.GET("/status", func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "OK")
	})
}

// Diagnostics lists the names of all registered engines.
func (s *StatusEngine) Diagnostics() []DiagnosticResult {
	var names []string
	s.system.VisitEngines(func(engine Engine) {
		if named, ok := engine.(Named); ok {
			names = append(names, named.Name())
		}
	})
	return []DiagnosticResult{&GenericDiagnosticResult{Title: "Registered engines", Value: strings.Join(names, ",")}}
}

func (s *StatusEngine) diagnosticsOverview(ctx echo.Context) error {
	var lines []string
	s.system.VisitEngines(func(engine Engine) {
		named, isNamed := engine.(Named)
		diagnosable, isDiagnosable := engine.(Diagnosable)
		if !isNamed || !isDiagnosable {
			return
		}
		lines = append(lines, named.Name())
		for _, d := range diagnosable.Diagnostics() {
			lines = append(lines, fmt.Sprintf("\t%s: %s", d.Name(), d.String()))
		}
	})
	return ctx.String(http.StatusOK, strings.Join(lines, "\n"))
}
