package instagram

import (
	"bytes"
	"encoding/json"
	"strings"

	"igprofile/pkg/errors"
)

// minHealthyBodyBytes is the threshold below which a response without
// structured fields counts as empty.
const minHealthyBodyBytes = 1000

// snippetLen limits how much raw body is carried in diagnostics.
const snippetLen = 200

// Classification is the outcome of inspecting one response.
type Classification struct {
	Signal     errors.Signal
	StatusCode int
	// Redirect is the redirect target path when a wall was detected that way.
	Redirect string
	// Snippet is the start of the body, kept for diagnostics.
	Snippet string
}

// Err converts a non-healthy classification into a typed error. Returns nil
// for healthy responses.
func (cl Classification) Err() *errors.Error {
	if cl.Signal == errors.SignalHealthy {
		return nil
	}
	msg := "response classified as " + string(cl.Signal)
	if cl.Redirect != "" {
		msg += " (redirected to " + cl.Redirect + ")"
	}
	return &errors.Error{
		Signal:     cl.Signal,
		Message:    msg,
		StatusCode: cl.StatusCode,
		Redirect:   cl.Redirect,
		Snippet:    cl.Snippet,
	}
}

// Classify inspects a response and decides whether it is healthy or one of
// the defensive block signals. It is a pure function of the response.
//
// The checks run in a fixed order: hard status codes first, then redirect
// walls, then structured success markers. Once a structured marker is found
// the response is healthy no matter what the body text says, so a caption
// that happens to mention "please wait" can never be mistaken for a block.
// Content heuristics only apply to responses that carry no structure at all.
func Classify(res *FetchResult) Classification {
	cl := Classification{
		StatusCode: res.StatusCode,
		Snippet:    bodySnippet(res.Body),
	}

	switch res.StatusCode {
	case 429:
		cl.Signal = errors.SignalRateLimited
		return cl
	case 500, 502, 503, 504:
		cl.Signal = errors.SignalServerError
		return cl
	}

	if res.FinalURL != nil {
		path := res.FinalURL.Path
		if strings.Contains(path, "/accounts/login") {
			cl.Signal = errors.SignalLoginWall
			cl.Redirect = path
			return cl
		}
		if strings.Contains(path, "/challenge") {
			cl.Signal = errors.SignalChallengeWall
			cl.Redirect = path
			return cl
		}
	}

	status := apiStatus(res.Body)

	if hasProfileMeta(res.Body) || status == "ok" {
		cl.Signal = errors.SignalHealthy
		return cl
	}

	if len(res.Body) < minHealthyBodyBytes && status == "" {
		cl.Signal = errors.SignalEmptyResponse
		return cl
	}

	lower := strings.ToLower(string(res.Body))
	switch {
	case strings.Contains(lower, "checkpoint_required"),
		strings.Contains(lower, "challenge_required"):
		cl.Signal = errors.SignalChallengeWall
		return cl
	case strings.Contains(lower, "login required"),
		strings.Contains(lower, "login_required"),
		strings.Contains(lower, "rate limit"),
		strings.Contains(lower, "please wait a few minutes"):
		cl.Signal = errors.SignalLoginWall
		return cl
	}

	if status == "fail" {
		cl.Signal = errors.SignalAPIFail
		return cl
	}

	cl.Signal = errors.SignalHealthy
	return cl
}

// hasProfileMeta reports whether the body carries the og meta tags a real
// profile page always has.
func hasProfileMeta(body []byte) bool {
	return bytes.Contains(body, []byte(`property="og:title"`)) &&
		bytes.Contains(body, []byte(`property="og:description"`))
}

// apiStatus extracts the "status" field from a JSON body, empty when the
// body is not JSON or carries no status.
func apiStatus(body []byte) string {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ""
	}
	var probe struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return ""
	}
	return probe.Status
}

func bodySnippet(body []byte) string {
	if len(body) > snippetLen {
		body = body[:snippetLen]
	}
	return string(body)
}
