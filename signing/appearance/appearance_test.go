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

package appearance

import (
	"testing"
	"time"

	"github.com/nuts-foundation/nuts-signing/signing/authority"
	"github.com/nuts-foundation/nuts-signing/signing/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var signatory = types.Signatory{
	ID:           "signatory-1",
	DisplayName:  "Jane Doe",
	Organization: "Hospital & Care",
	Attributes:   types.ProfileAttributes{GivenName: "Jane", FamilyName: "Doe"},
}

var signedAt = time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC)

func TestRenderer_Render(t *testing.T) {
	t.Run("default template", func(t *testing.T) {
		config := DefaultConfig()
		config.Place = "Amsterdam"
		config.Reason = "Agreed"
		renderer, err := NewRenderer(config)
		require.NoError(t, err)

		appearance, err := renderer.Render(signatory, signedAt)

		require.NoError(t, err)
		assert.Equal(t, "Digitally signed by Jane Doe (Hospital & Care)\n1 March 2025 14:30, Amsterdam\nAgreed", appearance.Text)
		assert.Equal(t, "en_US", appearance.Locale)
		assert.Equal(t, "Amsterdam", appearance.Place)
		assert.Equal(t, authority.Placement{Page: 1, X: 36, Y: 36, Width: 220, Height: 60}, appearance.Placement)
	})
	t.Run("optional parts are left out", func(t *testing.T) {
		renderer, _ := NewRenderer(DefaultConfig())

		appearance, err := renderer.Render(types.Signatory{DisplayName: "Jane Doe"}, signedAt)

		require.NoError(t, err)
		assert.Equal(t, "Digitally signed by Jane Doe\n1 March 2025 14:30", appearance.Text)
	})
	t.Run("localized date", func(t *testing.T) {
		config := DefaultConfig()
		config.Locale = "nl_NL"
		config.Template = "{{familyName}}, {{givenName}} - {{date}}"
		renderer, err := NewRenderer(config)
		require.NoError(t, err)

		appearance, err := renderer.Render(signatory, signedAt)

		require.NoError(t, err)
		assert.Equal(t, "Doe, Jane - 1 maart 2025 14:30", appearance.Text)
	})
}

func TestNewRenderer(t *testing.T) {
	t.Run("error - unsupported locale", func(t *testing.T) {
		config := DefaultConfig()
		config.Locale = "xx_XX"

		_, err := NewRenderer(config)

		assert.EqualError(t, err, "unsupported stamp locale: xx_XX")
	})
	t.Run("error - invalid template", func(t *testing.T) {
		config := DefaultConfig()
		config.Template = "{{#name}}"

		_, err := NewRenderer(config)

		assert.ErrorContains(t, err, "invalid stamp template")
	})
	t.Run("error - empty template", func(t *testing.T) {
		config := DefaultConfig()
		config.Template = " "

		_, err := NewRenderer(config)

		assert.EqualError(t, err, "stamp template is empty")
	})
	t.Run("error - invalid timezone", func(t *testing.T) {
		config := DefaultConfig()
		config.Timezone = "Mars/Olympus"

		_, err := NewRenderer(config)

		assert.ErrorContains(t, err, "invalid stamp timezone")
	})
	t.Run("error - invalid placement", func(t *testing.T) {
		config := DefaultConfig()
		config.Placement.Page = 0

		_, err := NewRenderer(config)

		assert.ErrorContains(t, err, "invalid stamp placement")
	})
}
