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

package hash

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"
)

// SHA256HashSize holds the size of a sha256 hash in bytes.
const SHA256HashSize = 32

// SHA256Hash is a SHA256 Hash over some bytes
type SHA256Hash [SHA256HashSize]byte

// SHA256Sum creates a sha256 hash from the given bytes
func SHA256Sum(data []byte) SHA256Hash {
	return sha256.Sum256(data)
}

// SHA256SumReader creates a sha256 hash over all bytes read from the given reader.
func SHA256SumReader(reader io.Reader) (SHA256Hash, error) {
	hasher := sha256.New()
	if _, err := io.Copy(hasher, reader); err != nil {
		return EmptyHash(), err
	}
	return FromSlice(hasher.Sum(nil)), nil
}

// EmptyHash returns a Hash that is empty (initialized with zeros).
func EmptyHash() SHA256Hash {
	return [SHA256HashSize]byte{}
}

// String returns the SHA256Hash as a hexidecimal string.
func (h SHA256Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Empty tests whether the Hash is empty (all zeros).
func (h SHA256Hash) Empty() bool {
	return h == SHA256Hash{}
}

// Slice returns the Hash as a slice. It does not copy the array.
func (h SHA256Hash) Slice() []byte {
	return h[:]
}

// Equals determines whether the given Hash is exactly the same (bytes match).
func (h SHA256Hash) Equals(other SHA256Hash) bool {
	return bytes.Equal(h[:], other[:])
}

// Multibase encodes the hash as base58btc multibase string of a sha2-256 multihash.
// This self-describing form is used when exchanging digests with remote parties.
func (h SHA256Hash) Multibase() (string, error) {
	mh, err := multihash.Encode(h[:], multihash.SHA2_256)
	if err != nil {
		return "", err
	}
	return multibase.Encode(multibase.Base58BTC, mh)
}

// ParseMultibase parses a multibase encoded sha2-256 multihash.
func ParseMultibase(input string) (SHA256Hash, error) {
	_, data, err := multibase.Decode(input)
	if err != nil {
		return EmptyHash(), fmt.Errorf("invalid multibase: %w", err)
	}
	decoded, err := multihash.Decode(data)
	if err != nil {
		return EmptyHash(), fmt.Errorf("invalid multihash: %w", err)
	}
	if decoded.Code != multihash.SHA2_256 {
		return EmptyHash(), fmt.Errorf("unsupported multihash: %s", decoded.Name)
	}
	if len(decoded.Digest) != SHA256HashSize {
		return EmptyHash(), errors.New("incorrect hash length")
	}
	return FromSlice(decoded.Digest), nil
}

// MarshalJSON marshals the hash as hex-encoded string
func (h SHA256Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON converts from hex-encoded json value
func (h *SHA256Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseHex(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// FromSlice converts a byte slice to a Hash, returning a copy.
func FromSlice(slice []byte) SHA256Hash {
	result := EmptyHash()
	copy(result[:], slice)
	return result
}

// ParseHex parses the given input string as Hash. If the input is invalid and can't be parsed as Hash, an error is returned.
func ParseHex(input string) (SHA256Hash, error) {
	if input == "" {
		return EmptyHash(), nil
	}
	data, err := hex.DecodeString(input)
	if err != nil {
		return EmptyHash(), err
	}
	if len(data) != SHA256HashSize {
		return EmptyHash(), fmt.Errorf("incorrect hash length (%d)", len(data))
	}
	return FromSlice(data), nil
}
