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

package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nuts-foundation/nuts-signing/audit"
	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/signing"
	"github.com/nuts-foundation/nuts-signing/signing/session"
	"github.com/nuts-foundation/nuts-signing/signing/types"
)

var _ core.ErrorStatusCodeResolver = (*Wrapper)(nil)

const basePath = "/internal/signing/v1"

// Wrapper exposes the signing service on the internal HTTP interface.
type Wrapper struct {
	Service signing.Service
}

// ResolveStatusCode maps errors returned by the signing service to HTTP status codes.
func (w *Wrapper) ResolveStatusCode(err error) int {
	return core.ResolveStatusCode(err, map[error]int{
		types.ErrSessionNotFound:      http.StatusNotFound,
		types.ErrCampaignNotFound:     http.StatusNotFound,
		types.ErrInvalidPhase:         http.StatusConflict,
		types.ErrSessionBusy:          http.StatusConflict,
		types.ErrStaleChallenge:       http.StatusConflict,
		types.ErrDigestMismatch:       http.StatusConflict,
		types.ErrChallengeInvalid:     http.StatusBadRequest,
		types.ErrChallengeExpired:     http.StatusBadRequest,
		types.ErrProfileIncomplete:    http.StatusBadRequest,
		session.ErrNoDocuments:        http.StatusBadRequest,
		types.ErrAuthorityRejected:    http.StatusBadGateway,
		types.ErrAuthorityUnreachable: http.StatusBadGateway,
		types.ErrTimeout:              http.StatusGatewayTimeout,
	})
}

// Routes registers the signing endpoints.
func (w *Wrapper) Routes(router core.EchoRouter) {
	router.POST(basePath+"/session", w.handle("StartSession", w.StartSession))
	router.GET(basePath+"/session/:id", w.handle("GetSession", w.GetSession))
	router.DELETE(basePath+"/session/:id", w.handle("CancelSession", w.CancelSession))
	router.POST(basePath+"/session/:id/challenge", w.handle("SendChallenge", w.SendChallenge))
	router.POST(basePath+"/session/:id/authorize", w.handle("Authorize", w.Authorize))
	router.POST(basePath+"/session/:id/status", w.handle("CheckStatus", w.CheckStatus))
	router.POST(basePath+"/session/:id/digests", w.handle("RefreshDigests", w.RefreshDigests))
	router.POST(basePath+"/campaign", w.handle("CreateCampaign", w.CreateCampaign))
	router.GET(basePath+"/campaign/:id", w.handle("GetCampaign", w.GetCampaign))
	router.POST(basePath+"/campaign/:id/:party/challenge", w.handle("ResendChallenge", w.ResendChallenge))
	router.POST(basePath+"/campaign/:id/:party/replace", w.handle("ReplaceParty", w.ReplaceParty))
}

func (w *Wrapper) handle(operationID string, handler echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		ctx.Set(core.OperationIDContextKey, operationID)
		ctx.Set(core.ModuleNameContextKey, signing.ModuleName)
		ctx.Set(core.StatusCodeResolverContextKey, w)
		audit.Middleware(ctx, signing.ModuleName, operationID)
		return handler(ctx)
	}
}

func (w *Wrapper) StartSession(ctx echo.Context) error {
	var request ParticipantRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}
	result, err := w.Service.StartSession(ctx.Request().Context(), request.toParticipant())
	if err != nil {
		if result != nil {
			// the failed session is stored, point to it so its state can be read
			ctx.Response().Header().Set(echo.HeaderLocation, basePath+"/session/"+result.ID)
		}
		return err
	}
	return ctx.JSON(http.StatusCreated, result)
}

func (w *Wrapper) GetSession(ctx echo.Context) error {
	result, err := w.Service.Session(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, result)
}

func (w *Wrapper) CancelSession(ctx echo.Context) error {
	result, err := w.Service.Cancel(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, result)
}

func (w *Wrapper) SendChallenge(ctx echo.Context) error {
	var request SendChallengeRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}
	channel, err := types.ParseChannel(request.Channel)
	if err != nil {
		return core.InvalidInputError("invalid channel: %w", err)
	}
	result, err := w.Service.SendChallenge(ctx.Request().Context(), ctx.Param("id"), channel)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, result)
}

func (w *Wrapper) Authorize(ctx echo.Context) error {
	var request AuthorizeRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}
	if request.TicketID == "" || request.Code == "" {
		return core.InvalidInputError("ticketID and code are required")
	}
	result, err := w.Service.Authorize(ctx.Request().Context(), ctx.Param("id"), request.TicketID, request.Code)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, result)
}

func (w *Wrapper) CheckStatus(ctx echo.Context) error {
	result, err := w.Service.CheckStatus(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, result)
}

func (w *Wrapper) RefreshDigests(ctx echo.Context) error {
	result, err := w.Service.RefreshDigests(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, result)
}

func (w *Wrapper) CreateCampaign(ctx echo.Context) error {
	var request CreateCampaignRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}
	result, err := w.Service.CreateCampaign(ctx.Request().Context(), request.Owner.toParticipant(), request.Counterparty.toParticipant())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, result)
}

func (w *Wrapper) GetCampaign(ctx echo.Context) error {
	result, err := w.Service.Campaign(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, result)
}

func (w *Wrapper) ResendChallenge(ctx echo.Context) error {
	party, err := parseParty(ctx.Param("party"))
	if err != nil {
		return err
	}
	var request SendChallengeRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}
	channel, err := types.ParseChannel(request.Channel)
	if err != nil {
		return core.InvalidInputError("invalid channel: %w", err)
	}
	result, err := w.Service.ResendChallenge(ctx.Request().Context(), ctx.Param("id"), party, channel)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, result)
}

func (w *Wrapper) ReplaceParty(ctx echo.Context) error {
	party, err := parseParty(ctx.Param("party"))
	if err != nil {
		return err
	}
	result, err := w.Service.ReplaceParty(ctx.Request().Context(), ctx.Param("id"), party)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, result)
}

func parseParty(input string) (types.Party, error) {
	switch party := types.Party(input); party {
	case types.Owner, types.Counterparty:
		return party, nil
	default:
		return "", core.InvalidInputError("invalid party: %s", input)
	}
}
