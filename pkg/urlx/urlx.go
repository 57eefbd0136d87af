// Package urlx builds the redirect links embedded in outbound emails.
package urlx

import (
	"fmt"
	"net/url"
	"strings"
)

// WithParams appends extra query params ("token=abc") to a redirect URL the
// client supplied, taking care of URLs that already carry a query string or
// end in a bare "?".
func WithParams(rawURL, params string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("urlx: parse redirect url: %w", err)
	}
	if !u.IsAbs() {
		return "", fmt.Errorf("urlx: redirect url %q is not absolute", rawURL)
	}

	if u.RawQuery != "" {
		return rawURL + "&" + params, nil
	}
	if strings.HasSuffix(rawURL, "?") {
		return rawURL + params, nil
	}
	return rawURL + "?" + params, nil
}
