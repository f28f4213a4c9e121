package instagram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetProfileURL(t *testing.T) {
	assert.Equal(t, "https://www.instagram.com/testuser/", GetProfileURL(BaseURL, "testuser"))
	assert.Equal(t, "http://127.0.0.1:9999/testuser/", GetProfileURL("http://127.0.0.1:9999", "testuser"))
}

func TestGetFeedURL(t *testing.T) {
	first := GetFeedURL(BaseURL, "testuser", "", 12)
	assert.Equal(t, "https://www.instagram.com/api/v1/feed/user/testuser/username/?count=12", first)

	next := GetFeedURL(BaseURL, "testuser", "cursor_abc", 12)
	assert.Contains(t, next, "max_id=cursor_abc")
	assert.Contains(t, next, "count=12")

	// A non-positive count falls back to the page size the web client uses.
	fallback := GetFeedURL(BaseURL, "testuser", "", 0)
	assert.Contains(t, fallback, "count=12")
}

func TestGetPostURL(t *testing.T) {
	assert.Equal(t, "https://www.instagram.com/p/Cabc123/", GetPostURL("Cabc123"))
	assert.Equal(t, "", GetPostURL(""))
}

func TestIsValidUsername(t *testing.T) {
	valid := []string{"testuser", "test.user", "test_user", "user123", "a", "A.B_c9"}
	for _, username := range valid {
		assert.True(t, IsValidUsername(username), "expected %q to be valid", username)
	}

	invalid := []string{"", "user name", "user@name", "user-name", "user/name", strings.Repeat("a", 31)}
	for _, username := range invalid {
		assert.False(t, IsValidUsername(username), "expected %q to be invalid", username)
	}
}

func TestSanitizeUsername(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"@testuser", "testuser"},
		{"testuser/", "testuser"},
		{"testuser  ", "testuser"},
		{"@testuser/ ", "testuser"},
		{"testuser", "testuser"},
		{"", ""},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, SanitizeUsername(test.input))
	}
}
