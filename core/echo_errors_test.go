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
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"schneider.vip/problem"
)

type stubResolver map[error]int

func (s stubResolver) ResolveStatusCode(err error) int {
	return ResolveStatusCode(err, s)
}

func TestHttpErrorHandler(t *testing.T) {
	err1 := errors.New("error 1")
	es, err := createEchoServer(HTTPConfig{})
	require.NoError(t, err)
	server := httptest.NewServer(es)
	defer server.Close()

	call := func(t *testing.T, handler echo.HandlerFunc) (int, string, string) {
		es.GET("/", handler)
		resp, err := http.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, resp.Header.Get("Content-Type"), string(body)
	}

	t.Run("echo HTTPError", func(t *testing.T) {
		status, contentType, body := call(t, func(c echo.Context) error {
			return echo.NewHTTPError(http.StatusForbidden, "failed")
		})

		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, problem.ContentTypeJSON, contentType)
		assert.JSONEq(t, `{"detail":"failed","status":403,"title":"Operation failed"}`, body)
	})
	t.Run("error mapping from context resolver", func(t *testing.T) {
		status, _, body := call(t, func(c echo.Context) error {
			c.Set(OperationIDContextKey, "test")
			c.Set(StatusCodeResolverContextKey, stubResolver{err1: http.StatusConflict})
			return WrapError(errors.New("outer"), err1)
		})

		assert.Equal(t, http.StatusConflict, status)
		assert.JSONEq(t, `{"detail":"outer: error 1","status":409,"title":"test failed"}`, body)
	})
	t.Run("predefined status code", func(t *testing.T) {
		status, _, _ := call(t, func(c echo.Context) error {
			return NotFoundError("session %s not found", "123")
		})

		assert.Equal(t, http.StatusNotFound, status)
	})
	t.Run("unmapped error", func(t *testing.T) {
		status, _, _ := call(t, func(c echo.Context) error {
			return errors.New("boom")
		})

		assert.Equal(t, http.StatusInternalServerError, status)
	})
}

func TestError(t *testing.T) {
	cause := errors.New("cause")
	err := InvalidInputError("invalid: %w", cause)

	assert.EqualError(t, err, "invalid: cause")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusBadRequest, err.(HTTPStatusCodeError).StatusCode())
}

func TestWrapError(t *testing.T) {
	outer := errors.New("outer")
	cause := errors.New("cause")

	err := WrapError(outer, cause)

	assert.ErrorIs(t, err, outer)
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "outer: cause")
}
