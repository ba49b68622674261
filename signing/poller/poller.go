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

// Package poller queries the signing authority until all documents of an operation are resolved,
// or the attempt budget is exhausted.
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/signing/authority"
	"github.com/nuts-foundation/nuts-signing/signing/log"
	"github.com/nuts-foundation/nuts-signing/signing/types"
)

var errPending = errors.New("documents pending")

// Config holds the polling policy.
type Config struct {
	// Interval is the fixed time between two status queries.
	Interval time.Duration `koanf:"interval"`
	// MaxAttempts is the number of status queries after which the operation expires.
	MaxAttempts int `koanf:"maxattempts"`
	// FailureGrace is the number of queries documents may stay pending after another document failed,
	// before the operation is considered failed.
	FailureGrace int `koanf:"failuregrace"`
}

// DefaultConfig returns the default polling policy: 20 attempts, 30 seconds apart.
func DefaultConfig() Config {
	return Config{
		Interval:     30 * time.Second,
		MaxAttempts:  20,
		FailureGrace: 3,
	}
}

// Result is the outcome of polling an operation.
type Result struct {
	// Phase is Completed, Failed or Expired.
	Phase types.Phase
	// Attempts is the total number of status queries for the operation.
	Attempts int
	// Operation holds the last known outcomes of the operation's documents.
	Operation *types.SigningOperation
	// Failures lists the failed documents, if Phase is Failed.
	Failures []types.DocumentFailure
}

// AttemptObserver is called after every status query with the attempt number and the updated operation.
// err is set when the query itself failed.
type AttemptObserver func(attempt int, operation *types.SigningOperation, err error)

// Poller queries operation status at a fixed interval.
type Poller struct {
	authority authority.SigningAuthority
	config    Config
	// timer is used to wait between attempts, replaced in tests.
	timer retry.Timer
}

// New creates a Poller.
func New(signingAuthority authority.SigningAuthority, config Config) *Poller {
	return &Poller{authority: signingAuthority, config: config}
}

// Poll queries the status of the operation until it is resolved, fails, or the attempt budget is exhausted.
// startAttempt is the number of attempts already made for the operation (e.g. before a restart);
// they count towards the budget. Failed queries count as attempts too.
// When ctx is cancelled polling stops and the context error is returned.
func (p *Poller) Poll(ctx context.Context, operation *types.SigningOperation, startAttempt int, observe AttemptObserver) (Result, error) {
	current := operation.Copy()
	attempt := startAttempt
	logger := log.Logger().WithField(core.LogFieldOperationID, operation.ID)
	remaining := p.config.MaxAttempts - startAttempt
	if remaining <= 0 {
		return exhausted(Result{Attempts: attempt, Operation: current}), nil
	}
	if observe == nil {
		observe = func(int, *types.SigningOperation, error) {}
	}

	escalated := false
	cyclesWithFailures := 0
	options := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(uint(remaining)),
		retry.Delay(p.config.Interval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	}
	if p.timer != nil {
		options = append(options, retry.WithTimer(p.timer))
	}
	err := retry.Do(func() error {
		attempt++
		report, err := p.authority.QueryStatus(ctx, current.ID)
		if err != nil {
			logger.WithError(err).Warnf("Status query %d failed", attempt)
			observe(attempt, current.Copy(), err)
			return err
		}
		apply(current, report)
		observe(attempt, current.Copy(), nil)
		if current.Terminal {
			return nil
		}
		if len(current.Failures()) > 0 {
			cyclesWithFailures++
			if cyclesWithFailures > p.config.FailureGrace {
				escalated = true
				return retry.Unrecoverable(errPending)
			}
		}
		logger.Debugf("Status query %d: %d document(s) pending", attempt, current.Pending())
		return errPending
	}, options...)

	result := Result{Attempts: attempt, Operation: current}
	switch {
	case err == nil && current.AllSigned():
		result.Phase = types.Completed
	case err == nil || escalated:
		result.Phase = types.Failed
		result.Failures = current.Failures()
	case ctx.Err() != nil:
		return result, ctx.Err()
	default:
		result = exhausted(result)
	}
	return result, nil
}

// exhausted resolves an operation that ran out of attempts. Documents that failed are reported,
// so the operation only expires when no document failed.
func exhausted(result Result) Result {
	if failures := result.Operation.Failures(); len(failures) > 0 {
		result.Phase = types.Failed
		result.Failures = failures
		return result
	}
	result.Phase = types.Expired
	return result
}

// QueryOnce queries the status of the operation once, e.g. to check an expired operation again.
// The result's Phase is Expired if documents are still pending and none failed.
func (p *Poller) QueryOnce(ctx context.Context, operation *types.SigningOperation) (Result, error) {
	current := operation.Copy()
	report, err := p.authority.QueryStatus(ctx, current.ID)
	if err != nil {
		return Result{}, err
	}
	apply(current, report)
	result := Result{Operation: current}
	switch {
	case current.Terminal && current.AllSigned():
		result.Phase = types.Completed
	case current.Terminal:
		result.Phase = types.Failed
		result.Failures = current.Failures()
	default:
		result = exhausted(result)
	}
	return result, nil
}

func apply(operation *types.SigningOperation, report *authority.StatusReport) {
	for _, document := range report.Documents {
		status := document.Status
		switch status {
		case types.DocumentSigned, types.DocumentFailed:
		default:
			status = types.DocumentPending
		}
		operation.Update(document.DocumentID, types.DocumentOutcome{Status: status, ErrorDetail: document.ErrorDetail})
	}
}
