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

package certificate

import (
	"context"
	"errors"

	"github.com/nuts-foundation/go-stoabs"
	"github.com/nuts-foundation/nuts-signing/signing/types"
	"github.com/nuts-foundation/nuts-signing/storage"
)

const certificateShelf = "certificates"

// RecordStore keeps the certificates issued per signatory and identity proof.
type RecordStore interface {
	// Get returns the certificate record of the signatory, or nil if there is none.
	Get(ctx context.Context, signatory types.Signatory) (*types.CertificateRecord, error)
	// Put stores the certificate record of the signatory.
	Put(ctx context.Context, signatory types.Signatory, record types.CertificateRecord) error
}

// NewRecordStore creates a RecordStore on the given key-value store.
func NewRecordStore(store stoabs.KVStore) RecordStore {
	return &kvRecordStore{store: store}
}

type kvRecordStore struct {
	store stoabs.KVStore
}

func recordKey(signatory types.Signatory) string {
	return signatory.ID + "/" + signatory.Proof.Digest.String()
}

func (k kvRecordStore) Get(ctx context.Context, signatory types.Signatory) (*types.CertificateRecord, error) {
	var result types.CertificateRecord
	err := storage.ReadJSON(ctx, k.store, certificateShelf, recordKey(signatory), &result)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (k kvRecordStore) Put(ctx context.Context, signatory types.Signatory, record types.CertificateRecord) error {
	return storage.WriteJSON(ctx, k.store, certificateShelf, recordKey(signatory), record)
}
