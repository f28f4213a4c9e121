package instagram

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igprofile/pkg/errors"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

// profileHTML builds a body with the og meta tags real profile pages carry,
// padded past the empty-response threshold.
func profileHTML(extra string) []byte {
	var b strings.Builder
	b.WriteString(`<html><head>`)
	b.WriteString(`<meta property="og:title" content="Test User (@testuser)" />`)
	b.WriteString(`<meta property="og:description" content="100 Followers, 50 Following, 10 Posts" />`)
	b.WriteString(`</head><body>`)
	b.WriteString(extra)
	b.WriteString(strings.Repeat("<div>content</div>", 100))
	b.WriteString(`</body></html>`)
	return []byte(b.String())
}

func TestClassifyStatusCodes(t *testing.T) {
	tests := []struct {
		status int
		want   errors.Signal
	}{
		{429, errors.SignalRateLimited},
		{500, errors.SignalServerError},
		{502, errors.SignalServerError},
		{503, errors.SignalServerError},
		{504, errors.SignalServerError},
	}

	for _, test := range tests {
		cl := Classify(&FetchResult{
			StatusCode: test.status,
			FinalURL:   mustURL(t, "https://www.instagram.com/testuser/"),
			Body:       profileHTML(""),
		})
		assert.Equal(t, test.want, cl.Signal, "status %d", test.status)
		assert.Equal(t, test.status, cl.StatusCode)
	}
}

func TestClassifyRedirectWalls(t *testing.T) {
	cl := Classify(&FetchResult{
		StatusCode: 200,
		FinalURL:   mustURL(t, "https://www.instagram.com/accounts/login/?next=%2Ftestuser%2F"),
		Body:       []byte(strings.Repeat("login page ", 200)),
	})
	assert.Equal(t, errors.SignalLoginWall, cl.Signal)
	assert.Equal(t, "/accounts/login/", cl.Redirect)

	cl = Classify(&FetchResult{
		StatusCode: 200,
		FinalURL:   mustURL(t, "https://www.instagram.com/challenge/"),
		Body:       []byte(strings.Repeat("challenge ", 200)),
	})
	assert.Equal(t, errors.SignalChallengeWall, cl.Signal)
	assert.Equal(t, "/challenge/", cl.Redirect)
}

func TestClassifyRedirectBeatsContent(t *testing.T) {
	// A login redirect is a wall even when the landing page happens to carry
	// og meta tags of its own.
	cl := Classify(&FetchResult{
		StatusCode: 200,
		FinalURL:   mustURL(t, "https://www.instagram.com/accounts/login/"),
		Body:       profileHTML(""),
	})
	assert.Equal(t, errors.SignalLoginWall, cl.Signal)
}

func TestClassifyHealthyProfilePage(t *testing.T) {
	cl := Classify(&FetchResult{
		StatusCode: 200,
		FinalURL:   mustURL(t, "https://www.instagram.com/testuser/"),
		Body:       profileHTML(""),
	})
	assert.Equal(t, errors.SignalHealthy, cl.Signal)
	assert.Nil(t, cl.Err())
}

func TestClassifyCaptionMentioningBlockPhrases(t *testing.T) {
	// Post captions regularly contain phrases like "please wait a few
	// minutes". Structured success markers must win over text heuristics.
	cl := Classify(&FetchResult{
		StatusCode: 200,
		FinalURL:   mustURL(t, "https://www.instagram.com/testuser/"),
		Body:       profileHTML("please wait a few minutes before reading my rate limit post"),
	})
	assert.Equal(t, errors.SignalHealthy, cl.Signal)

	body := `{"status": "ok", "items": [{"caption": {"text": "login required to see my heart, rate limit on my love"}}]}`
	cl = Classify(&FetchResult{
		StatusCode: 200,
		FinalURL:   mustURL(t, "https://www.instagram.com/api/v1/feed/user/testuser/username/"),
		Body:       []byte(body),
	})
	assert.Equal(t, errors.SignalHealthy, cl.Signal)
}

func TestClassifyEmptyResponse(t *testing.T) {
	cl := Classify(&FetchResult{
		StatusCode: 200,
		FinalURL:   mustURL(t, "https://www.instagram.com/testuser/"),
		Body:       []byte("<html></html>"),
	})
	assert.Equal(t, errors.SignalEmptyResponse, cl.Signal)

	cl = Classify(&FetchResult{
		StatusCode: 200,
		FinalURL:   mustURL(t, "https://www.instagram.com/testuser/"),
		Body:       nil,
	})
	assert.Equal(t, errors.SignalEmptyResponse, cl.Signal)
}

func TestClassifyBlockPhrases(t *testing.T) {
	pad := strings.Repeat("x", minHealthyBodyBytes)

	tests := []struct {
		name string
		body string
		want errors.Signal
	}{
		{"login required", "<html>Login required to continue</html>" + pad, errors.SignalLoginWall},
		{"rate limit", "<html>rate limit exceeded</html>" + pad, errors.SignalLoginWall},
		{"please wait", "<html>Please wait a few minutes before you try again.</html>" + pad, errors.SignalLoginWall},
		{"checkpoint", "<html>checkpoint_required</html>" + pad, errors.SignalChallengeWall},
		{"challenge", "<html>challenge_required</html>" + pad, errors.SignalChallengeWall},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cl := Classify(&FetchResult{
				StatusCode: 200,
				FinalURL:   mustURL(t, "https://www.instagram.com/testuser/"),
				Body:       []byte(test.body),
			})
			assert.Equal(t, test.want, cl.Signal)
		})
	}
}

func TestClassifyAPIFail(t *testing.T) {
	cl := Classify(&FetchResult{
		StatusCode: 200,
		FinalURL:   mustURL(t, "https://www.instagram.com/api/v1/feed/user/testuser/username/"),
		Body:       []byte(`{"status": "fail", "message": "unknown error"}`),
	})
	assert.Equal(t, errors.SignalAPIFail, cl.Signal)
}

func TestClassifyAPIFailWithWallMessage(t *testing.T) {
	// A structured failure naming login_required is the wall itself, not a
	// transient API hiccup.
	cl := Classify(&FetchResult{
		StatusCode: 200,
		FinalURL:   mustURL(t, "https://www.instagram.com/api/v1/feed/user/testuser/username/"),
		Body:       []byte(`{"status": "fail", "message": "login_required"}`),
	})
	assert.Equal(t, errors.SignalLoginWall, cl.Signal)
}

func TestClassifyLargePlainBodyIsHealthy(t *testing.T) {
	cl := Classify(&FetchResult{
		StatusCode: 200,
		FinalURL:   mustURL(t, "https://www.instagram.com/testuser/"),
		Body:       []byte(strings.Repeat("<p>ordinary markup</p>", 100)),
	})
	assert.Equal(t, errors.SignalHealthy, cl.Signal)
}

func TestClassificationErr(t *testing.T) {
	cl := Classification{
		Signal:     errors.SignalLoginWall,
		StatusCode: 200,
		Redirect:   "/accounts/login/",
		Snippet:    "<html>",
	}

	err := cl.Err()
	require.NotNil(t, err)
	assert.Equal(t, errors.SignalLoginWall, err.Signal)
	assert.Equal(t, 200, err.StatusCode)
	assert.Equal(t, "/accounts/login/", err.Redirect)
	assert.Contains(t, err.Error(), "login")
}

func TestSnippetTruncation(t *testing.T) {
	cl := Classify(&FetchResult{
		StatusCode: 429,
		Body:       []byte(strings.Repeat("a", snippetLen*3)),
	})
	assert.Len(t, cl.Snippet, snippetLen)
}
