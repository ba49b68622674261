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

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/signing"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const clientTimeout = 10 * time.Second

// FlagSet defines the set of flags that sets the signing engine configuration
func FlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("signing", pflag.ContinueOnError)
	defs := signing.DefaultConfig()

	flags.Duration("signing.certificate.timeout", defs.Certificate.Timeout, "Maximum duration of a certificate request, after which the request is cancelled.")

	flags.Duration("signing.poll.interval", defs.Poll.Interval, "Time between two status queries of a signing operation.")
	flags.Int("signing.poll.maxattempts", defs.Poll.MaxAttempts, "Number of status queries after which a signing operation with pending documents expires.")
	flags.Int("signing.poll.failuregrace", defs.Poll.FailureGrace, "Number of status queries documents may stay pending after another document of the operation failed.")

	flags.Duration("signing.session.ttl", defs.Session.TTL, "How long a signing session is kept after its last change.")

	flags.String("signing.authority.certificate.url", defs.Authority.Certificate.URL, "Base URL of the certificate authority. "+
		"When no authority URLs are set, simulated authorities are used (not allowed in strict mode).")
	flags.String("signing.authority.challenge.url", defs.Authority.Challenge.URL, "Base URL of the challenge (one-time passcode) authority.")
	flags.String("signing.authority.signing.url", defs.Authority.Signing.URL, "Base URL of the signing authority.")
	flags.String("signing.authority.token", defs.Authority.Token, "Bearer token passed to the authorities.")
	flags.Duration("signing.authority.timeout", defs.Authority.Timeout, "Timeout of a single request to an authority.")
	flags.Float64("signing.authority.ratelimit", defs.Authority.RateLimit, "Maximum number of requests per second to each authority.")

	flags.String("signing.appearance.locale", defs.Appearance.Locale, "Locale of the date on the signature stamp, e.g. nl_NL.")
	flags.String("signing.appearance.timezone", defs.Appearance.Timezone, "Timezone of the date on the signature stamp, e.g. Europe/Amsterdam.")
	flags.String("signing.appearance.place", defs.Appearance.Place, "Place of signing printed on the signature stamp.")
	flags.String("signing.appearance.reason", defs.Appearance.Reason, "Reason of signing printed on the signature stamp.")
	flags.String("signing.appearance.template", defs.Appearance.Template, "Mustache template of the signature stamp text. "+
		"Available variables: name, givenName, familyName, organization, date, place and reason.")
	flags.Int("signing.appearance.placement.page", defs.Appearance.Placement.Page, "Page the signature stamp is placed on, starting at 1.")
	flags.Int("signing.appearance.placement.x", defs.Appearance.Placement.X, "Horizontal position of the signature stamp, in points from the left.")
	flags.Int("signing.appearance.placement.y", defs.Appearance.Placement.Y, "Vertical position of the signature stamp, in points from the bottom.")
	flags.Int("signing.appearance.placement.width", defs.Appearance.Placement.Width, "Width of the signature stamp, in points.")
	flags.Int("signing.appearance.placement.height", defs.Appearance.Placement.Height, "Height of the signature stamp, in points.")

	flags.String("signing.documents.root", defs.Documents.Root, "Directory file:// document locators are resolved in. If not set, file:// locators are not supported.")
	return flags
}

// Cmd contains sub-commands that query a running server.
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signing",
		Short: "Signing session and campaign commands",
	}
	cmd.PersistentFlags().String("address", "http://localhost:8080", "Address of the server's internal HTTP interface.")
	cmd.PersistentFlags().String("token", "", "Bearer token passed to the server.")
	cmd.AddCommand(getCmd("session", "Print the state of a signing session"))
	cmd.AddCommand(getCmd("campaign", "Print the completion state of a campaign"))
	return cmd
}

func getCmd(resource string, description string) *cobra.Command {
	return &cobra.Command{
		Use:   resource + " [ID]",
		Short: description,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, _ := cmd.Flags().GetString("address")
			token, _ := cmd.Flags().GetString("token")
			client := core.CreateHTTPClient(core.ClientConfig{Timeout: clientTimeout, Token: token}, nil)
			requestURL := strings.TrimSuffix(address, "/") + "/internal/signing/v1/" + resource + "/" + url.PathEscape(args[0])
			data, err := get(cmd.Context(), client, requestURL)
			if err != nil {
				return fmt.Errorf("failed to get %s: %w", resource, err)
			}
			var formatted bytes.Buffer
			if err := json.Indent(&formatted, data, "", "  "); err != nil {
				return err
			}
			cmd.Println(formatted.String())
			return nil
		},
	}
}

func get(ctx context.Context, client core.HTTPRequestDoer, requestURL string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	response, err := client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if err := core.TestResponseCode(http.StatusOK, response); err != nil {
		return nil, err
	}
	return io.ReadAll(response.Body)
}
