package instagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProfilePage = `<!DOCTYPE html>
<html>
<head>
<meta property="og:title" content="Cristiano Ronaldo (@cristiano) &#x2022; Instagram photos and videos" />
<meta property="og:description" content="650M Followers, 617 Following, 3,932 Posts - SIUUUbscribe to my Youtube Channel! See Instagram photos and videos from Cristiano Ronaldo (@cristiano)" />
<meta property="og:image" content="https://scontent.cdninstagram.com/v/t51.2885-19/pic.jpg" />
</head>
<body></body>
</html>`

func TestParseProfile(t *testing.T) {
	profile, err := ParseProfile([]byte(sampleProfilePage))
	require.NoError(t, err)

	assert.Equal(t, "cristiano", profile.Username)
	assert.Equal(t, "Cristiano Ronaldo", profile.FullName)
	assert.Equal(t, int64(650_000_000), profile.FollowerCount)
	assert.Equal(t, int64(617), profile.FollowingCount)
	assert.Equal(t, int64(3932), profile.PostsCount)
	assert.Equal(t, "SIUUUbscribe to my Youtube Channel!", profile.Biography)
	assert.Equal(t, "https://scontent.cdninstagram.com/v/t51.2885-19/pic.jpg", profile.ProfilePicURL)
	assert.False(t, profile.ScrapedAt.IsZero())

	// Fields that need an authenticated session keep fixed defaults.
	assert.Nil(t, profile.CategoryName)
	assert.Nil(t, profile.ExternalURL)
	assert.False(t, profile.IsVerified)
}

func TestParseProfileMissingFieldsDegrade(t *testing.T) {
	page := `<html><head>
<meta property="og:title" content="Some User (@some.user_99)" />
<meta property="og:description" content="nothing countable here" />
</head></html>`

	profile, err := ParseProfile([]byte(page))
	require.NoError(t, err)

	assert.Equal(t, "some.user_99", profile.Username)
	assert.Equal(t, "Some User", profile.FullName)
	assert.Zero(t, profile.FollowerCount)
	assert.Zero(t, profile.FollowingCount)
	assert.Zero(t, profile.PostsCount)
	assert.Empty(t, profile.Biography)
}

func TestParseProfileNoMetaTags(t *testing.T) {
	_, err := ParseProfile([]byte(`<html><head><title>Instagram</title></head></html>`))
	require.Error(t, err)
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"0", 0},
		{"617", 617},
		{"3,932", 3932},
		{"1.5K", 1500},
		{"31K", 31_000},
		{"2.3M", 2_300_000},
		{"650M", 650_000_000},
		{"1B", 1_000_000_000},
		{"1.2B", 1_200_000_000},
		{"", 0},
		{"garbage", 0},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			assert.Equal(t, test.expected, ParseCount(test.input))
		})
	}
}
