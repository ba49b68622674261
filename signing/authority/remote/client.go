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

// Package remote contains the HTTP clients of the remote authorities.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/signing/log"
	"github.com/nuts-foundation/nuts-signing/signing/types"
	"golang.org/x/time/rate"
)

const (
	// OutcomeOK is the outcome of a request the authority accepted.
	OutcomeOK = "ok"
	// OutcomeRejected is the outcome of a request the authority refused.
	OutcomeRejected = "rejected"
	// OutcomeUnreachable is the outcome of a request that could not be delivered, or failed on the authority's side.
	OutcomeUnreachable = "unreachable"
)

// maxErrorBodyLength limits how much of an error response is included in errors.
const maxErrorBodyLength = 200

// RequestObserver is notified of the outcome of every request to an authority.
type RequestObserver func(authority string, outcome string)

// client performs JSON requests to one authority.
type client struct {
	name     string
	baseURL  string
	doer     core.HTTPRequestDoer
	limiter  *rate.Limiter
	observer RequestObserver
}

func newClient(name string, baseURL string, doer core.HTTPRequestDoer, limiter *rate.Limiter, observer RequestObserver) client {
	if observer == nil {
		observer = func(string, string) {}
	}
	return client{
		name:     name,
		baseURL:  strings.TrimRight(baseURL, "/"),
		doer:     doer,
		limiter:  limiter,
		observer: observer,
	}
}

// do sends the request body (if any) as JSON and decodes the response into target (if any).
// It returns the status code when it is one of the accepted codes.
// Other status codes result in an error wrapping types.ErrAuthorityRejected (4xx) or types.ErrAuthorityUnreachable.
func (c client) do(ctx context.Context, method string, path string, body interface{}, target interface{}, accepted ...int) (int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("%s authority: rate limit: %w", c.name, err)
		}
	}
	var requestBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		requestBody = bytes.NewReader(data)
	}
	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, requestBody)
	if err != nil {
		return 0, err
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	response, err := c.doer.Do(request)
	if err != nil {
		c.observer(c.name, OutcomeUnreachable)
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, core.WrapError(fmt.Errorf("%s authority: %w", c.name, types.ErrAuthorityUnreachable), err)
	}
	defer response.Body.Close()
	for _, code := range accepted {
		if response.StatusCode == code {
			c.observer(c.name, OutcomeOK)
			if target == nil {
				return code, nil
			}
			if err := json.NewDecoder(response.Body).Decode(target); err != nil {
				return code, core.WrapError(fmt.Errorf("%s authority: %w", c.name, types.ErrAuthorityUnreachable), fmt.Errorf("invalid response: %w", err))
			}
			return code, nil
		}
	}
	return response.StatusCode, c.unexpectedResponse(response)
}

func (c client) unexpectedResponse(response *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBodyLength))
	log.Logger().
		WithField(core.LogFieldAuthority, c.name).
		Warnf("Unexpected response from authority (status=%d): %s", response.StatusCode, string(data))
	detail := fmt.Errorf("server returned HTTP %d: %s", response.StatusCode, strings.TrimSpace(string(data)))
	if response.StatusCode >= 400 && response.StatusCode < 500 {
		c.observer(c.name, OutcomeRejected)
		return core.WrapError(fmt.Errorf("%s authority: %w", c.name, types.ErrAuthorityRejected), detail)
	}
	c.observer(c.name, OutcomeUnreachable)
	return core.WrapError(fmt.Errorf("%s authority: %w", c.name, types.ErrAuthorityUnreachable), detail)
}
