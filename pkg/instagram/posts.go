package instagram

import (
	"time"

	"igprofile/pkg/models"
)

// ParseFeedResponse normalizes one feed API page. It returns the posts, the
// cursor for the next page and whether more pages are available. A malformed
// item degrades to whatever fields it carries; it never fails the page.
func ParseFeedResponse(res *FeedResponse, ownerUsername string) ([]models.Post, string, bool) {
	posts := make([]models.Post, 0, len(res.Items))
	for _, item := range res.Items {
		posts = append(posts, ParseFeedItem(item, ownerUsername))
	}
	return posts, res.NextMaxID, res.MoreAvailable
}

// ParseFeedItem normalizes a single feed item into a Post.
func ParseFeedItem(item FeedItem, ownerUsername string) models.Post {
	post := models.Post{
		ID:            item.PK.String(),
		Shortcode:     item.Code,
		LikeCount:     item.LikeCount,
		CommentCount:  item.CommentCount,
		Timestamp:     item.TakenAt,
		VideoDuration: item.VideoDuration,
		OwnerUsername: ownerUsername,
		ScrapedAt:     time.Now().UTC(),
	}

	if post.ID == "" {
		post.ID = item.ID
	}
	if item.TakenAt > 0 {
		post.TakenAt = time.Unix(item.TakenAt, 0).UTC()
	}

	if item.Caption != nil {
		post.Caption = item.Caption.Text
	}

	post.ViewCount = item.PlayCount
	if post.ViewCount == 0 {
		post.ViewCount = item.ViewCount
	}

	switch item.MediaType {
	case mediaTypeCarousel:
		post.MediaType = "carousel"
	case mediaTypeVideo:
		post.IsVideo = true
		if item.ProductType == "clips" {
			post.MediaType = "reel"
		} else {
			post.MediaType = "video"
		}
	default:
		post.MediaType = "image"
	}

	post.MediaURLs = extractMediaURLs(item)

	if item.ImageVersions != nil && len(item.ImageVersions.Candidates) > 0 {
		post.ThumbnailURL = item.ImageVersions.Candidates[0].URL
	}

	if item.Location != nil {
		id := item.Location.PK.String()
		if id == "" {
			id = item.Location.ID.String()
		}
		post.Location = &models.Location{
			ID:   id,
			Name: item.Location.Name,
			Slug: item.Location.Slug,
		}
	}

	if item.User != nil {
		post.OwnerID = item.User.PK.String()
		if post.OwnerUsername == "" {
			post.OwnerUsername = item.User.Username
		}
	}

	// Computed, never fetched
	post.Permalink = GetPostURL(post.Shortcode)

	return post
}

// extractMediaURLs collects the primary media URL of the item and, for
// carousels, of every child.
func extractMediaURLs(item FeedItem) []string {
	var urls []string

	if item.ImageVersions != nil && len(item.ImageVersions.Candidates) > 0 {
		urls = append(urls, item.ImageVersions.Candidates[0].URL)
	}
	if len(item.VideoVersions) > 0 {
		urls = append(urls, item.VideoVersions[0].URL)
	}

	for _, child := range item.CarouselMedia {
		if child.ImageVersions != nil && len(child.ImageVersions.Candidates) > 0 {
			urls = append(urls, child.ImageVersions.Candidates[0].URL)
		}
		if len(child.VideoVersions) > 0 {
			urls = append(urls, child.VideoVersions[0].URL)
		}
	}

	return urls
}
