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

// Package digest computes the content-binding digests of documents to be signed.
package digest

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/crypto/hash"
	"github.com/nuts-foundation/nuts-signing/signing/log"
	"github.com/nuts-foundation/nuts-signing/signing/types"
)

// DefaultCacheSize is the default number of digests kept in memory.
const DefaultCacheSize = 1024

// cacheKey scopes cached digests to a session, so they're never reused for another session's documents.
type cacheKey struct {
	sessionID  string
	documentID string
	locator    string
}

// Service computes digests over the exact bytes of documents, caching them per session.
type Service struct {
	store DocumentStore
	cache *lru.Cache[cacheKey, hash.SHA256Hash]
}

// NewService creates a digest service reading documents from the given store.
func NewService(store DocumentStore, cacheSize int) (*Service, error) {
	cache, err := lru.New[cacheKey, hash.SHA256Hash](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Service{store: store, cache: cache}, nil
}

// Digest returns the digest of the target, computing it when it's not cached for the session.
func (s *Service) Digest(ctx context.Context, sessionID string, target types.DocumentSignTarget) (hash.SHA256Hash, error) {
	key := cacheKey{sessionID: sessionID, documentID: target.DocumentID, locator: target.Locator}
	if result, ok := s.cache.Get(key); ok {
		return result, nil
	}
	return s.Refresh(ctx, sessionID, target)
}

// Refresh computes the digest of the target, replacing the cached one.
func (s *Service) Refresh(ctx context.Context, sessionID string, target types.DocumentSignTarget) (hash.SHA256Hash, error) {
	result, err := s.compute(ctx, target)
	if err != nil {
		return hash.EmptyHash(), err
	}
	s.cache.Add(cacheKey{sessionID: sessionID, documentID: target.DocumentID, locator: target.Locator}, result)
	return result, nil
}

// Verify checks the current bytes of the target still match the given digest.
// It returns types.ErrDigestMismatch when the document changed.
func (s *Service) Verify(ctx context.Context, sessionID string, target types.DocumentSignTarget, expected hash.SHA256Hash) error {
	actual, err := s.compute(ctx, target)
	if err != nil {
		return err
	}
	if !actual.Equals(expected) {
		s.cache.Remove(cacheKey{sessionID: sessionID, documentID: target.DocumentID, locator: target.Locator})
		log.Logger().
			WithField(core.LogFieldSessionID, sessionID).
			WithField(core.LogFieldDocumentID, target.DocumentID).
			Warn("Document changed after its digest was computed")
		return fmt.Errorf("%w: %s", types.ErrDigestMismatch, target.DocumentID)
	}
	return nil
}

// Forget removes all cached digests of the session.
func (s *Service) Forget(sessionID string) {
	for _, key := range s.cache.Keys() {
		if key.sessionID == sessionID {
			s.cache.Remove(key)
		}
	}
}

func (s *Service) compute(ctx context.Context, target types.DocumentSignTarget) (hash.SHA256Hash, error) {
	reader, err := s.store.FetchBytes(ctx, target.Locator)
	if err != nil {
		return hash.EmptyHash(), fmt.Errorf("unable to fetch document %s: %w", target.DocumentID, err)
	}
	defer reader.Close()
	result, err := hash.SHA256SumReader(reader)
	if err != nil {
		return hash.EmptyHash(), fmt.Errorf("unable to read document %s: %w", target.DocumentID, err)
	}
	return result, nil
}
