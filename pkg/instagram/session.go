package instagram

import (
	"net/url"
	"time"
)

// Session holds the per-run identity established by Bootstrap: discovered
// tokens, the chosen browser fingerprint and the optional proxy. It is
// immutable once bootstrapped; the fingerprint and proxy never change
// mid-scrape so the whole run looks like one continuous browsing session.
//
// A Session may be shared across concurrent scrapes of different usernames:
// all exported fields are read-only and the cookie jar inside the client is
// safe for concurrent use.
type Session struct {
	// AppID is the application identifier discovered from the page source,
	// sent as X-IG-App-ID on API requests.
	AppID string

	// CSRFToken mirrors the csrftoken cookie at bootstrap time.
	CSRFToken string

	// ASBDID is an optional secondary identifier, sent when discovered.
	ASBDID string

	// Fingerprint is the browser profile frozen for this session.
	Fingerprint Fingerprint

	// Proxy is the proxy URL supplied by the caller, nil for direct access.
	Proxy *url.URL

	// CreatedAt records when the bootstrap handshake completed.
	CreatedAt time.Time

	client *Client
}

// Client returns the HTTP client bound to this session. The client owns the
// cookie jar populated during bootstrap.
func (s *Session) Client() *Client {
	return s.client
}
