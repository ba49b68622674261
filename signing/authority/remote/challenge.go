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

package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/signing/authority"
	"github.com/nuts-foundation/nuts-signing/signing/types"
	"golang.org/x/time/rate"
)

var _ authority.ChallengeAuthority = (*ChallengeClient)(nil)

// ChallengeClient sends and verifies passcodes through a remote challenge authority.
type ChallengeClient struct {
	client client
}

// NewChallengeClient creates a client for the challenge authority at the given base URL.
func NewChallengeClient(baseURL string, doer core.HTTPRequestDoer, limiter *rate.Limiter, observer RequestObserver) *ChallengeClient {
	return &ChallengeClient{client: newClient("challenge", baseURL, doer, limiter, observer)}
}

// SendCode calls POST /challenges.
func (c ChallengeClient) SendCode(ctx context.Context, request authority.CodeRequest) (*authority.CodeAck, error) {
	var result authority.CodeAck
	if _, err := c.client.do(ctx, http.MethodPost, "/challenges", request, &result, http.StatusOK, http.StatusAccepted); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyCode calls POST /challenges/{ticketID}/verify.
func (c ChallengeClient) VerifyCode(ctx context.Context, request authority.VerifyRequest) (*authority.VerifyResult, error) {
	var result authority.VerifyResult
	path := "/challenges/" + url.PathEscape(request.TicketID) + "/verify"
	if _, err := c.client.do(ctx, http.MethodPost, path, request, &result, http.StatusOK); err != nil {
		return nil, err
	}
	switch result.Outcome {
	case authority.Authorized, authority.Invalid, authority.Expired:
		return &result, nil
	}
	return nil, fmt.Errorf("challenge authority: %w: unknown outcome %q", types.ErrAuthorityUnreachable, result.Outcome)
}
