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

package campaign

import (
	"context"
	"errors"

	"github.com/nuts-foundation/go-stoabs"
	"github.com/nuts-foundation/nuts-signing/signing/types"
	"github.com/nuts-foundation/nuts-signing/storage"
)

const campaignShelf = "campaigns"

// Repository persists campaign completion states.
type Repository interface {
	// Get returns the campaign, or types.ErrCampaignNotFound.
	Get(ctx context.Context, id string) (*types.CampaignCompletionState, error)
	Put(ctx context.Context, state types.CampaignCompletionState) error
}

// NewRepository creates a Repository on top of a key-value store.
func NewRepository(store stoabs.KVStore) Repository {
	return kvRepository{store: store}
}

type kvRepository struct {
	store stoabs.KVStore
}

func (k kvRepository) Get(ctx context.Context, id string) (*types.CampaignCompletionState, error) {
	result := new(types.CampaignCompletionState)
	if err := storage.ReadJSON(ctx, k.store, campaignShelf, id, result); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, types.ErrCampaignNotFound
		}
		return nil, err
	}
	return result, nil
}

func (k kvRepository) Put(ctx context.Context, state types.CampaignCompletionState) error {
	return storage.WriteJSON(ctx, k.store, campaignShelf, state.ID, state)
}
