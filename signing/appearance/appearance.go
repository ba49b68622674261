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

// Package appearance renders the visual stamp placed on signed documents.
package appearance

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/goodsign/monday"
	"github.com/nuts-foundation/nuts-signing/signing/authority"
	"github.com/nuts-foundation/nuts-signing/signing/types"
)

// DefaultTemplate is the mustache template of the stamp text.
const DefaultTemplate = "Digitally signed by {{{name}}}{{#organization}} ({{{organization}}}){{/organization}}\n" +
	"{{{date}}}{{#place}}, {{{place}}}{{/place}}{{#reason}}\n{{{reason}}}{{/reason}}"

const dateLayout = "2 January 2006 15:04"

// Config holds the settings of the stamp.
type Config struct {
	Locale    string              `koanf:"locale"`
	Timezone  string              `koanf:"timezone"`
	Place     string              `koanf:"place"`
	Reason    string              `koanf:"reason"`
	Template  string              `koanf:"template"`
	Placement authority.Placement `koanf:"placement"`
}

// DefaultConfig returns the default stamp settings: English, bottom left of the first page.
func DefaultConfig() Config {
	return Config{
		Locale:    string(monday.LocaleEnUS),
		Timezone:  "UTC",
		Template:  DefaultTemplate,
		Placement: authority.Placement{Page: 1, X: 36, Y: 36, Width: 220, Height: 60},
	}
}

// Renderer renders stamps for signatories.
type Renderer struct {
	template  *mustache.Template
	locale    monday.Locale
	location  *time.Location
	place     string
	reason    string
	placement authority.Placement
}

// NewRenderer validates the configuration and creates a Renderer.
func NewRenderer(config Config) (*Renderer, error) {
	locale := monday.Locale(config.Locale)
	if !slices.Contains(monday.ListLocales(), locale) {
		return nil, fmt.Errorf("unsupported stamp locale: %s", config.Locale)
	}
	location, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid stamp timezone: %w", err)
	}
	if strings.TrimSpace(config.Template) == "" {
		return nil, errors.New("stamp template is empty")
	}
	template, err := mustache.ParseString(config.Template)
	if err != nil {
		return nil, fmt.Errorf("invalid stamp template: %w", err)
	}
	if config.Placement.Page < 1 || config.Placement.Width <= 0 || config.Placement.Height <= 0 {
		return nil, errors.New("invalid stamp placement: page must be 1 or higher and the size must be positive")
	}
	return &Renderer{
		template:  template,
		locale:    locale,
		location:  location,
		place:     config.Place,
		reason:    config.Reason,
		placement: config.Placement,
	}, nil
}

// Render creates the stamp of the signatory for signing at the given moment.
func (r *Renderer) Render(signatory types.Signatory, at time.Time) (authority.Appearance, error) {
	text, err := r.template.Render(map[string]string{
		"name":         signatory.DisplayName,
		"givenName":    signatory.Attributes.GivenName,
		"familyName":   signatory.Attributes.FamilyName,
		"organization": signatory.Organization,
		"date":         monday.Format(at.In(r.location), dateLayout, r.locale),
		"place":        r.place,
		"reason":       r.reason,
	})
	if err != nil {
		return authority.Appearance{}, fmt.Errorf("could not render stamp: %w", err)
	}
	return authority.Appearance{
		Text:      text,
		Locale:    string(r.locale),
		Place:     r.place,
		Reason:    r.reason,
		Placement: r.placement,
	}, nil
}
