package instagram

import "encoding/json"

// FeedResponse is the top-level response from the user feed API
type FeedResponse struct {
	Items         []FeedItem `json:"items"`
	NextMaxID     string     `json:"next_max_id"`
	MoreAvailable bool       `json:"more_available"`
	Status        string     `json:"status"`
	Message       string     `json:"message"`
	User          *FeedUser  `json:"user"`
}

// FeedUser identifies the feed owner
type FeedUser struct {
	PK       json.Number `json:"pk"`
	Username string      `json:"username"`
}

// FeedItem is one media item in the feed response
type FeedItem struct {
	PK            json.Number    `json:"pk"`
	ID            string         `json:"id"`
	Code          string         `json:"code"`
	Caption       *Caption       `json:"caption"`
	LikeCount     int64          `json:"like_count"`
	CommentCount  int64          `json:"comment_count"`
	PlayCount     int64          `json:"play_count"`
	ViewCount     int64          `json:"view_count"`
	TakenAt       int64          `json:"taken_at"`
	MediaType     int            `json:"media_type"`
	ProductType   string         `json:"product_type"`
	VideoDuration float64        `json:"video_duration"`
	ImageVersions *ImageVersions `json:"image_versions2"`
	VideoVersions []VideoVersion `json:"video_versions"`
	CarouselMedia []FeedItem     `json:"carousel_media"`
	Location      *FeedLocation  `json:"location"`
	User          *FeedUser      `json:"user"`
}

// Caption wraps the post caption text
type Caption struct {
	Text string `json:"text"`
}

// ImageVersions holds the available image renditions
type ImageVersions struct {
	Candidates []MediaCandidate `json:"candidates"`
}

// MediaCandidate is one rendition of an image
type MediaCandidate struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// VideoVersion is one rendition of a video
type VideoVersion struct {
	URL string `json:"url"`
}

// FeedLocation is the raw location payload on a feed item
type FeedLocation struct {
	PK   json.Number `json:"pk"`
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
	Slug string      `json:"slug"`
}

// Media type codes used by the feed API
const (
	mediaTypeImage    = 1
	mediaTypeVideo    = 2
	mediaTypeCarousel = 8
)
