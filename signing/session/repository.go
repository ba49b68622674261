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
	"context"
	"errors"
	"fmt"

	"github.com/nuts-foundation/nuts-signing/signing/types"
	"github.com/nuts-foundation/nuts-signing/storage"
)

// Repository persists signing sessions. The last write for a session wins.
type Repository interface {
	// Get returns the session with the given ID, or types.ErrSessionNotFound.
	Get(ctx context.Context, id string) (*types.SigningSession, error)
	// Put stores the session.
	Put(ctx context.Context, session *types.SigningSession) error
}

// NewRepository creates a Repository on top of a session store.
func NewRepository(store storage.SessionStore) Repository {
	return &repository{store: store}
}

type repository struct {
	store storage.SessionStore
}

func (r repository) Get(ctx context.Context, id string) (*types.SigningSession, error) {
	result := new(types.SigningSession)
	if err := r.store.Get(ctx, id, result); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, types.ErrSessionNotFound
		}
		return nil, fmt.Errorf("unable to read session %s: %w", id, err)
	}
	return result, nil
}

func (r repository) Put(ctx context.Context, session *types.SigningSession) error {
	return r.store.Put(ctx, session.ID, session)
}
