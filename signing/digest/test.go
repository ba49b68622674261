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

package digest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStore is an in-memory DocumentStore, to be used in tests.
type MemoryStore struct {
	mux       sync.Mutex
	documents map[string][]byte
	// Fetches counts the number of times each locator was fetched.
	Fetches map[string]int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{documents: map[string][]byte{}, Fetches: map[string]int{}}
}

// Put stores or replaces the document at the given locator.
func (m *MemoryStore) Put(locator string, data []byte) {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.documents[locator] = append([]byte{}, data...)
}

func (m *MemoryStore) FetchBytes(_ context.Context, locator string) (io.ReadCloser, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.Fetches[locator]++
	data, ok := m.documents[locator]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, locator)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
