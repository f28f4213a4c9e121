package instagram

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintByName(t *testing.T) {
	fp, ok := FingerprintByName(FingerprintFirefoxWindows)
	require.True(t, ok)
	assert.Contains(t, fp.UserAgent, "Firefox")

	_, ok = FingerprintByName("netscape_navigator")
	assert.False(t, ok)
}

func TestPickFingerprintCoversAllProfiles(t *testing.T) {
	rnd := rand.New(rand.NewSource(99))

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		seen[PickFingerprint(rnd).Name] = true
	}

	assert.Len(t, seen, len(Fingerprints()))
}

func TestDocumentHeaders(t *testing.T) {
	fp, _ := FingerprintByName(FingerprintChromeWindows)
	h := fp.DocumentHeaders()

	assert.Equal(t, fp.UserAgent, h.Get("User-Agent"))
	assert.Equal(t, "document", h.Get("Sec-Fetch-Dest"))
	assert.Equal(t, "navigate", h.Get("Sec-Fetch-Mode"))
	assert.NotEmpty(t, h.Get("Sec-CH-UA"))
	// The transport negotiates encoding itself.
	assert.Empty(t, h.Get("Accept-Encoding"))
}

func TestDocumentHeadersFirefoxOmitsClientHints(t *testing.T) {
	fp, _ := FingerprintByName(FingerprintFirefoxWindows)
	h := fp.DocumentHeaders()

	assert.Empty(t, h.Get("Sec-CH-UA"))
	assert.Empty(t, h.Get("Sec-CH-UA-Platform"))
}

func TestAPIHeaders(t *testing.T) {
	fp, _ := FingerprintByName(FingerprintChromeMac)
	h := fp.APIHeaders("936619743392459", "csrf-value", "129477")

	assert.Equal(t, "936619743392459", h.Get("X-IG-App-ID"))
	assert.Equal(t, "csrf-value", h.Get("X-CSRFToken"))
	assert.Equal(t, "129477", h.Get("X-ASBD-ID"))
	assert.Equal(t, "XMLHttpRequest", h.Get("X-Requested-With"))
	assert.Equal(t, "cors", h.Get("Sec-Fetch-Mode"))
}

func TestAPIHeadersOmitEmptyASBD(t *testing.T) {
	fp, _ := FingerprintByName(FingerprintChromeMac)
	h := fp.APIHeaders("936619743392459", "csrf-value", "")

	assert.Empty(t, h.Get("X-ASBD-ID"))
}
