package instagram

import (
	"math/rand"
	"net/http"
)

// Fingerprint is a frozen browser identity: a user agent and the header set
// a real browser of that kind would send. The chosen fingerprint stays fixed
// for the whole session so pagination looks like one continuous visit.
type Fingerprint struct {
	Name            string
	UserAgent       string
	AcceptLanguage  string
	SecChUA         string
	SecChUAMobile   string
	SecChUAPlatform string
}

// Fingerprint profile names.
const (
	FingerprintChromeWindows  = "chrome_windows"
	FingerprintChromeMac      = "chrome_mac"
	FingerprintFirefoxWindows = "firefox_windows"
	FingerprintSafariMac      = "safari_mac"
	FingerprintEdgeWindows    = "edge_windows"
)

var fingerprints = []Fingerprint{
	{
		Name:            FingerprintChromeWindows,
		UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		AcceptLanguage:  "en-US,en;q=0.9",
		SecChUA:         `"Not_A Brand";v="8", "Chromium";v="120", "Google Chrome";v="120"`,
		SecChUAMobile:   "?0",
		SecChUAPlatform: `"Windows"`,
	},
	{
		Name:            FingerprintChromeMac,
		UserAgent:       "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		AcceptLanguage:  "en-US,en;q=0.9",
		SecChUA:         `"Not_A Brand";v="8", "Chromium";v="120", "Google Chrome";v="120"`,
		SecChUAMobile:   "?0",
		SecChUAPlatform: `"macOS"`,
	},
	{
		// Firefox does not send Sec-CH-UA headers
		Name:           FingerprintFirefoxWindows,
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
		AcceptLanguage: "en-US,en;q=0.5",
	},
	{
		// Neither does Safari
		Name:           FingerprintSafariMac,
		UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
		AcceptLanguage: "en-US,en;q=0.9",
	},
	{
		Name:            FingerprintEdgeWindows,
		UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
		AcceptLanguage:  "en-US,en;q=0.9",
		SecChUA:         `"Not_A Brand";v="8", "Chromium";v="120", "Microsoft Edge";v="120"`,
		SecChUAMobile:   "?0",
		SecChUAPlatform: `"Windows"`,
	},
}

// Fingerprints returns all known browser profiles.
func Fingerprints() []Fingerprint {
	out := make([]Fingerprint, len(fingerprints))
	copy(out, fingerprints)
	return out
}

// FingerprintByName looks up a profile by its name.
func FingerprintByName(name string) (Fingerprint, bool) {
	for _, fp := range fingerprints {
		if fp.Name == name {
			return fp, true
		}
	}
	return Fingerprint{}, false
}

// PickFingerprint selects one profile uniformly at random. The random source
// is injectable so tests can fix the selection.
func PickFingerprint(r *rand.Rand) Fingerprint {
	return fingerprints[r.Intn(len(fingerprints))]
}

// DocumentHeaders returns the headers for a top-level page navigation.
func (f Fingerprint) DocumentHeaders() http.Header {
	h := http.Header{}
	h.Set("User-Agent", f.UserAgent)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	h.Set("Accept-Language", f.AcceptLanguage)
	// Accept-Encoding is left to the transport so gzip stays transparent
	h.Set("Cache-Control", "no-cache")
	h.Set("Pragma", "no-cache")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Sec-Fetch-User", "?1")
	h.Set("Upgrade-Insecure-Requests", "1")
	f.addClientHints(h)
	return h
}

// APIHeaders returns the headers for an AJAX call against the web API.
func (f Fingerprint) APIHeaders(appID, csrfToken, asbdID string) http.Header {
	h := http.Header{}
	h.Set("User-Agent", f.UserAgent)
	h.Set("Accept", "*/*")
	h.Set("Accept-Language", f.AcceptLanguage)
	h.Set("X-Requested-With", "XMLHttpRequest")
	h.Set("X-IG-App-ID", appID)
	h.Set("X-CSRFToken", csrfToken)
	h.Set("Sec-Fetch-Dest", "empty")
	h.Set("Sec-Fetch-Mode", "cors")
	h.Set("Sec-Fetch-Site", "same-origin")
	h.Set("Referer", BaseURL+"/")
	if asbdID != "" {
		h.Set("X-ASBD-ID", asbdID)
	}
	f.addClientHints(h)
	return h
}

func (f Fingerprint) addClientHints(h http.Header) {
	if f.SecChUA == "" {
		return
	}
	h.Set("Sec-CH-UA", f.SecChUA)
	h.Set("Sec-CH-UA-Mobile", f.SecChUAMobile)
	h.Set("Sec-CH-UA-Platform", f.SecChUAPlatform)
}
