package instagram

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"

	"igprofile/pkg/errors"
	"igprofile/pkg/logger"
)

// maxBodySize caps how much of a response body is read into memory.
const maxBodySize = 5 << 20

// FetchResult is one complete HTTP exchange: status, final URL after
// redirects, headers and the full body. It is the input to Classify.
type FetchResult struct {
	StatusCode int
	FinalURL   *url.URL
	Header     http.Header
	Body       []byte
}

// Client issues requests with a fixed browser fingerprint and an automatic
// cookie jar. One client serves one session; requests through it are meant
// to be sequential.
type Client struct {
	httpClient  *http.Client
	fingerprint Fingerprint
	logger      logger.Logger
}

// NewClient creates a client for the given fingerprint and optional proxy.
func NewClient(fp Fingerprint, proxy *url.URL, timeout time.Duration, log logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxy != nil {
		transport.Proxy = http.ProxyURL(proxy)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Jar:       jar,
			Transport: transport,
		},
		fingerprint: fp,
		logger:      log,
	}, nil
}

// FetchDocument fetches a top-level HTML page.
func (c *Client) FetchDocument(ctx context.Context, rawURL string) (*FetchResult, error) {
	return c.do(ctx, rawURL, c.fingerprint.DocumentHeaders())
}

// FetchAPI fetches a web API endpoint with the session's discovered tokens.
func (c *Client) FetchAPI(ctx context.Context, rawURL string, sess *Session) (*FetchResult, error) {
	return c.do(ctx, rawURL, c.fingerprint.APIHeaders(sess.AppID, sess.CSRFToken, sess.ASBDID))
}

func (c *Client) do(ctx context.Context, rawURL string, headers http.Header) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &errors.Error{
			Signal:  errors.SignalConnectionError,
			Message: "failed to create request: " + err.Error(),
		}
	}
	req.Header = headers

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		// Context cancellation surfaces as-is so callers can distinguish
		// a deliberate stop from a flaky connection.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.WarnWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errors.Error{
			Signal:  errors.SignalConnectionError,
			Message: "network error: " + err.Error(),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &errors.Error{
			Signal:     errors.SignalConnectionError,
			Message:    "failed to read response body: " + err.Error(),
			StatusCode: resp.StatusCode,
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return &FetchResult{
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// CookieValue returns the named cookie currently held for the given URL, or
// an empty string.
func (c *Client) CookieValue(u *url.URL, name string) string {
	for _, cookie := range c.httpClient.Jar.Cookies(u) {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}
