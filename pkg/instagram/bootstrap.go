package instagram

import (
	"context"
	stderrors "errors"
	"math/rand"
	"net/url"
	"regexp"
	"time"

	"igprofile/pkg/errors"
	"igprofile/pkg/logger"
	"igprofile/pkg/retry"
)

// Token discovery patterns, matched against the homepage source.
var (
	appIDPattern    = regexp.MustCompile(`"X-IG-App-ID":"(\d+)"`)
	appIDAltPattern = regexp.MustCompile(`\{"APP_ID":"(\d+)"`)
	asbdIDPattern   = regexp.MustCompile(`"X-ASBD-ID":"(\d+)"`)
)

// fallbackASBDID is used only when discovery of the optional secondary id
// fails. The primary tokens are never substituted: a session without them
// is unusable.
const fallbackASBDID = "129477"

// BootstrapOptions configures the session handshake.
type BootstrapOptions struct {
	// Proxy is an optional proxy URL, frozen into the session.
	Proxy *url.URL

	// Fingerprint pins a browser profile by name. Empty selects one
	// uniformly at random.
	Fingerprint string

	// Timeout is the per-request HTTP timeout. Zero means 30s.
	Timeout time.Duration

	// BaseURL overrides the Instagram base URL, for tests.
	BaseURL string

	// Rand drives fingerprint selection and retry jitter. Nil means a
	// time-seeded source.
	Rand *rand.Rand

	// Retrier handles transient connection failures during the handshake.
	// Nil means the default policy table.
	Retrier *retry.Controller

	Logger logger.Logger
}

// Bootstrap performs the initial handshake: one GET to the site root, token
// extraction from the resulting cookies and page source, and fingerprint
// selection. The returned session is read-only.
//
// Only connection errors are retried here. A block signal on the bootstrap
// response means the session is unusable regardless of retries and fails
// immediately with a BootstrapError.
func Bootstrap(ctx context.Context, opts BootstrapOptions) (*Session, error) {
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}

	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var fp Fingerprint
	if opts.Fingerprint != "" {
		pinned, ok := FingerprintByName(opts.Fingerprint)
		if !ok {
			return nil, &errors.BootstrapError{
				Reason:  errors.BootstrapMissingToken,
				Message: "unknown fingerprint profile: " + opts.Fingerprint,
			}
		}
		fp = pinned
	} else {
		fp = PickFingerprint(rnd)
	}

	base := opts.BaseURL
	if base == "" {
		base = BaseURL
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client, err := NewClient(fp, opts.Proxy, timeout, log)
	if err != nil {
		return nil, err
	}

	retrier := opts.Retrier
	if retrier == nil {
		retrier = retry.NewController(nil, rnd, log)
	}

	log.InfoWithFields("bootstrapping session", map[string]interface{}{
		"fingerprint": fp.Name,
		"proxy":       opts.Proxy != nil,
	})

	var res *FetchResult
	attempt := 0
	for {
		attempt++
		res, err = client.FetchDocument(ctx, base+"/")
		if err == nil {
			break
		}

		var cerr *errors.Error
		if !stderrors.As(err, &cerr) || cerr.Signal != errors.SignalConnectionError {
			return nil, err
		}

		dec := retrier.Next(errors.SignalConnectionError, attempt)
		if dec.Kind != retry.ActionRetry {
			return nil, &errors.Exhausted{Attempts: attempt, Last: cerr}
		}

		log.WarnWithFields("bootstrap request failed, retrying", map[string]interface{}{
			"attempt":  attempt,
			"delay_ms": dec.Delay.Milliseconds(),
			"error":    cerr.Error(),
		})

		if err := retry.Wait(ctx, dec.Delay); err != nil {
			return nil, err
		}
	}

	if cl := Classify(res); cl.Signal != errors.SignalHealthy {
		return nil, &errors.BootstrapError{
			Reason:  errors.BootstrapBlocked,
			Signal:  cl.Signal,
			Message: "bootstrap response classified as " + string(cl.Signal),
		}
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, err
	}

	csrfToken := client.CookieValue(baseURL, "csrftoken")
	appID := firstMatch(res.Body, appIDPattern, appIDAltPattern)

	if csrfToken == "" || appID == "" {
		return nil, &errors.BootstrapError{
			Reason:  errors.BootstrapMissingToken,
			Message: "could not discover csrf token or app id from homepage",
		}
	}

	asbdID := firstMatch(res.Body, asbdIDPattern)
	if asbdID == "" {
		asbdID = fallbackASBDID
	}

	log.InfoWithFields("session bootstrapped", map[string]interface{}{
		"app_id":      appID,
		"fingerprint": fp.Name,
	})

	return &Session{
		AppID:       appID,
		CSRFToken:   csrfToken,
		ASBDID:      asbdID,
		Fingerprint: fp,
		Proxy:       opts.Proxy,
		CreatedAt:   time.Now(),
		client:      client,
	}, nil
}

func firstMatch(body []byte, patterns ...*regexp.Regexp) string {
	for _, p := range patterns {
		if m := p.FindSubmatch(body); m != nil {
			return string(m[1])
		}
	}
	return ""
}
