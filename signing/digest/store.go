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
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/signing/log"
)

// ErrDocumentNotFound is returned when a document can't be found at its locator.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore supplies the bytes of documents.
type DocumentStore interface {
	// FetchBytes opens the document at the given locator. The caller must close the returned reader.
	FetchBytes(ctx context.Context, locator string) (io.ReadCloser, error)
}

var _ DocumentStore = (*FileStore)(nil)
var _ DocumentStore = (*HTTPStore)(nil)
var _ DocumentStore = SchemeRouter{}

// FileStore reads documents from file:// locators, confined to a root directory.
type FileStore struct {
	root string
}

// NewFileStore creates a FileStore that only reads documents within the given root directory.
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

func (f FileStore) FetchBytes(_ context.Context, locator string) (io.ReadCloser, error) {
	if f.root == "" {
		return nil, errors.New("file document store has no root directory configured")
	}
	parsed, err := url.Parse(locator)
	if err != nil {
		return nil, fmt.Errorf("invalid document locator: %w", err)
	}
	relative := filepath.FromSlash(strings.TrimPrefix(parsed.Host+parsed.Path, "/"))
	fullPath := filepath.Join(f.root, relative)
	if rel, err := filepath.Rel(f.root, fullPath); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("document locator points outside of document root: %s", locator)
	}
	file, err := os.Open(fullPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, locator)
	}
	return file, err
}

// HTTPStore retrieves documents from http(s):// locators.
type HTTPStore struct {
	client core.HTTPRequestDoer
}

// NewHTTPStore creates a HTTPStore using the given client.
func NewHTTPStore(client core.HTTPRequestDoer) *HTTPStore {
	return &HTTPStore{client: client}
}

func (h HTTPStore) FetchBytes(ctx context.Context, locator string) (io.ReadCloser, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid document locator: %w", err)
	}
	response, err := h.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve document: %w", err)
	}
	if response.StatusCode == http.StatusNotFound {
		_ = response.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, locator)
	}
	if err = core.TestResponseCodeWithLog(http.StatusOK, response, log.Logger()); err != nil {
		_ = response.Body.Close()
		return nil, fmt.Errorf("unable to retrieve document: %w", err)
	}
	return response.Body, nil
}

// SchemeRouter dispatches to a document store by the scheme of the locator.
type SchemeRouter map[string]DocumentStore

func (s SchemeRouter) FetchBytes(ctx context.Context, locator string) (io.ReadCloser, error) {
	parsed, err := url.Parse(locator)
	if err != nil {
		return nil, fmt.Errorf("invalid document locator: %w", err)
	}
	store, ok := s[strings.ToLower(parsed.Scheme)]
	if !ok {
		return nil, fmt.Errorf("unsupported document locator scheme: %s", locator)
	}
	return store.FetchBytes(ctx, locator)
}
