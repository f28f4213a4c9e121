package instagram

import (
	"fmt"
	"net/url"
)

const (
	// BaseURL is the base URL for Instagram
	BaseURL = "https://www.instagram.com"

	// FeedEndpoint is the endpoint pattern for the paginated user feed
	FeedEndpoint = "/api/v1/feed/user"

	// DefaultPageSize is the number of posts the feed returns per page
	DefaultPageSize = 12
)

// GetProfileURL constructs the URL for a user's public profile page
func GetProfileURL(base, username string) string {
	return fmt.Sprintf("%s/%s/", base, username)
}

// GetFeedURL constructs the feed API URL with the pagination cursor.
// An empty maxID means the first page.
func GetFeedURL(base, username, maxID string, count int) string {
	if count <= 0 {
		count = DefaultPageSize
	}

	params := url.Values{}
	params.Set("count", fmt.Sprintf("%d", count))
	if maxID != "" {
		params.Set("max_id", maxID)
	}

	return fmt.Sprintf("%s%s/%s/username/?%s", base, FeedEndpoint, username, params.Encode())
}

// GetPostURL constructs the permalink for a post
func GetPostURL(shortcode string) string {
	if shortcode == "" {
		return ""
	}
	return fmt.Sprintf("%s/p/%s/", BaseURL, shortcode)
}

// IsValidUsername checks if a username is valid according to Instagram rules
func IsValidUsername(username string) bool {
	if username == "" || len(username) > 30 {
		return false
	}

	// Instagram usernames can only contain letters, numbers, periods, and underscores
	for _, char := range username {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '.' || char == '_') {
			return false
		}
	}

	return true
}

// SanitizeUsername removes any invalid characters from a username
func SanitizeUsername(username string) string {
	if username == "" {
		return ""
	}

	// Remove @ symbol if present at the beginning
	if username[0] == '@' {
		username = username[1:]
	}

	// Remove any trailing slashes or spaces
	for len(username) > 0 && (username[len(username)-1] == '/' || username[len(username)-1] == ' ') {
		username = username[:len(username)-1]
	}

	return username
}
