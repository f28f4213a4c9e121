package instagram

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"igprofile/pkg/errors"
	"igprofile/pkg/models"
)

// Meta tag content patterns. og:title carries "Full Name (@username)",
// og:description carries the follower/following/post counts and a bio tail.
var (
	titlePattern     = regexp.MustCompile(`^(.*?)\s*\(@([A-Za-z0-9._]+)\)`)
	followersPattern = regexp.MustCompile(`(?i)([\d.,]+[KMB]?)\s*Followers`)
	followingPattern = regexp.MustCompile(`(?i)([\d.,]+[KMB]?)\s*Following`)
	postsPattern     = regexp.MustCompile(`(?i)([\d.,]+[KMB]?)\s*Posts`)
	bioPattern       = regexp.MustCompile(`Posts\s*[-–]\s*(.+?)(?:$|\s*See Instagram)`)
)

// ParseProfile extracts a profile from the og meta tags of a profile page.
// Individual missing fields degrade to zero values; only a page with no
// usable meta tags at all is an error. Fields that need authentication keep
// their fixed defaults.
func ParseProfile(body []byte) (*models.Profile, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &errors.Error{
			Signal:  errors.SignalEmptyResponse,
			Message: "failed to parse profile HTML: " + err.Error(),
		}
	}

	title := metaContent(doc, "og:title")
	desc := metaContent(doc, "og:description")
	image := metaContent(doc, "og:image")

	if title == "" && desc == "" {
		return nil, &errors.Error{
			Signal:  errors.SignalEmptyResponse,
			Message: "profile page carries no og meta tags",
		}
	}

	profile := &models.Profile{
		ProfilePicURL: image,
		ScrapedAt:     time.Now().UTC(),
	}

	if m := titlePattern.FindStringSubmatch(title); m != nil {
		profile.FullName = strings.TrimSpace(m[1])
		profile.Username = m[2]
	}

	if m := followersPattern.FindStringSubmatch(desc); m != nil {
		profile.FollowerCount = ParseCount(m[1])
	}
	if m := followingPattern.FindStringSubmatch(desc); m != nil {
		profile.FollowingCount = ParseCount(m[1])
	}
	if m := postsPattern.FindStringSubmatch(desc); m != nil {
		profile.PostsCount = ParseCount(m[1])
	}
	if m := bioPattern.FindStringSubmatch(desc); m != nil {
		profile.Biography = strings.TrimSpace(m[1])
	}

	return profile, nil
}

func metaContent(doc *goquery.Document, property string) string {
	content, _ := doc.Find(`meta[property="` + property + `"]`).Attr("content")
	return content
}

// ParseCount parses human-readable counts like "276M", "31.5K" or "1,234"
// into integers. K, M and B multiply by 1e3, 1e6 and 1e9.
func ParseCount(s string) int64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}

	multipliers := map[byte]float64{'K': 1e3, 'M': 1e6, 'B': 1e9}

	last := s[len(s)-1]
	if mult, ok := multipliers[last]; ok {
		value, err := strconv.ParseFloat(s[:len(s)-1], 64)
		if err != nil {
			return 0
		}
		return int64(value * mult)
	}

	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return value
}
