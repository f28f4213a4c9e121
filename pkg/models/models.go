package models

import "time"

// Location is a place tag attached to a post.
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Profile holds public profile data extracted from the HTML meta tags.
// Fields unavailable without authentication keep their fixed defaults:
// IsVerified is always false, CategoryName and ExternalURL always nil.
type Profile struct {
	UserID         string    `json:"user_id"`
	Username       string    `json:"username"`
	FullName       string    `json:"full_name"`
	Biography      string    `json:"biography"`
	FollowerCount  int64     `json:"follower_count"`
	FollowingCount int64     `json:"following_count"`
	PostsCount     int64     `json:"posts_count"`
	ProfilePicURL  string    `json:"profile_pic_url"`
	IsVerified     bool      `json:"is_verified"`
	IsPrivate      bool      `json:"is_private"`
	CategoryName   *string   `json:"category_name"`
	ExternalURL    *string   `json:"external_url"`
	ScrapedAt      time.Time `json:"scraped_at"`
}

// Post holds one normalized feed item.
type Post struct {
	ID            string    `json:"id"`
	Shortcode     string    `json:"shortcode"`
	Caption       string    `json:"caption"`
	LikeCount     int64     `json:"like_count"`
	CommentCount  int64     `json:"comment_count"`
	ViewCount     int64     `json:"view_count,omitempty"`
	Timestamp     int64     `json:"timestamp"`
	TakenAt       time.Time `json:"taken_at"`
	MediaType     string    `json:"media_type"`
	IsVideo       bool      `json:"is_video"`
	VideoDuration float64   `json:"video_duration,omitempty"`
	MediaURLs     []string  `json:"media_urls"`
	ThumbnailURL  string    `json:"thumbnail_url"`
	Location      *Location `json:"location,omitempty"`
	// Permalink is computed from the shortcode, never fetched.
	Permalink     string    `json:"permalink"`
	OwnerUsername string    `json:"owner_username"`
	OwnerID       string    `json:"owner_id"`
	ScrapedAt     time.Time `json:"scraped_at"`
}

// ScrapeResult is the complete outcome of one scrape run. A result with a
// non-empty HaltSignal is a partial success: everything gathered before the
// halting condition is present and valid.
type ScrapeResult struct {
	Profile     *Profile  `json:"profile"`
	Posts       []Post    `json:"posts"`
	TotalPosts  int       `json:"total_posts_scraped"`
	HasMore     bool      `json:"has_more_posts"`
	HaltSignal  string    `json:"halt_signal,omitempty"`
	CompletedAt time.Time `json:"scrape_completed_at"`
	Errors      []string  `json:"errors,omitempty"`
}
