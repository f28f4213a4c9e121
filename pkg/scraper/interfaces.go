package scraper

import (
	"context"

	"igprofile/pkg/instagram"
)

// Client defines the HTTP operations the engine needs. *instagram.Client
// satisfies it; tests substitute their own.
type Client interface {
	FetchDocument(ctx context.Context, url string) (*instagram.FetchResult, error)
	FetchAPI(ctx context.Context, url string, sess *instagram.Session) (*instagram.FetchResult, error)
}
