package scraper

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"igprofile/pkg/checkpoint"
	"igprofile/pkg/config"
	"igprofile/pkg/errors"
	"igprofile/pkg/instagram"
	"igprofile/pkg/logger"
	"igprofile/pkg/models"
	"igprofile/pkg/ratelimit"
	"igprofile/pkg/retry"
	"igprofile/pkg/ui"
)

// Engine drives one scrape run: a profile fetch followed by the cursor-led
// feed pagination loop, every attempt routed through classification and the
// retry controller.
//
// Requests are strictly sequential; an Engine serves one scrape at a time.
// Independent scrapes of different usernames may share the Session but need
// their own Engine.
type Engine struct {
	// BaseURL is the site root requests are built against. Defaults to
	// instagram.BaseURL.
	BaseURL string

	session  *instagram.Session
	client   Client
	retrier  *retry.Controller
	bucket   ratelimit.Limiter
	pacer    *ratelimit.Pacer
	tracker  *ui.StatusTracker
	ckpts    *checkpoint.Manager
	pageSize int
	logger   logger.Logger
}

// Options controls one scrape run.
type Options struct {
	// MaxPosts limits the total posts returned (0 = all). The final page is
	// truncated to hit the limit exactly.
	MaxPosts int

	// StopBefore is a unix timestamp bound for incremental runs: the scrape
	// stops at the first post taken at or before it, relying on the feed's
	// newest-first ordering.
	StopBefore int64

	// Cursor resumes pagination from a previously saved opaque token.
	// Empty means the first page.
	Cursor string

	// Seen pre-seeds the de-duplication set with post ids accumulated by an
	// earlier run, keeping resumed scrapes idempotent.
	Seen map[string]bool
}

// New creates an engine for the given bootstrapped session.
func New(sess *instagram.Session, cfg *config.Config, log logger.Logger) *Engine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &Engine{
		BaseURL:  instagram.BaseURL,
		session:  sess,
		client:   sess.Client(),
		retrier:  retry.NewController(&cfg.Retry, nil, log),
		bucket:   ratelimit.NewTokenBucket(cfg.Delay.RequestsPerMinute, time.Minute),
		pacer:    ratelimit.NewPacer(cfg.Delay.Min, cfg.Delay.Max, nil),
		pageSize: cfg.Pagination.PageSize,
		logger:   log,
	}
}

// SetRetrier replaces the retry controller, for deterministic tests.
func (e *Engine) SetRetrier(r *retry.Controller) {
	e.retrier = r
}

// SetTracker attaches a progress tracker.
func (e *Engine) SetTracker(t *ui.StatusTracker) {
	e.tracker = t
}

// SetCheckpoints attaches a checkpoint manager; when set, the cursor and the
// seen-post set are saved after every completed page.
func (e *Engine) SetCheckpoints(m *checkpoint.Manager) {
	e.ckpts = m
}

// Scrape fetches the profile and then pages through the feed until the feed
// is exhausted or a limit is hit.
//
// Outcomes:
//   - (result, nil): full success, or partial success when retries were
//     exhausted mid-pagination; result.HaltSignal names what stopped it.
//   - (result, ctx error): cancelled mid-run; the posts gathered so far are
//     intact in result.
//   - (nil, error): nothing usable. Block signals on the profile fetch or
//     anywhere in pagination abort the whole run.
func (e *Engine) Scrape(ctx context.Context, username string, opts Options) (*models.ScrapeResult, error) {
	username = instagram.SanitizeUsername(username)
	if !instagram.IsValidUsername(username) {
		return nil, fmt.Errorf("invalid username: %q", username)
	}

	log := e.logger.WithField("username", username)
	log.Info("starting scrape")

	res, err := e.fetchWithRetry(ctx, instagram.GetProfileURL(e.BaseURL, username), false)
	if err != nil {
		return nil, err
	}

	profile, err := instagram.ParseProfile(res.Body)
	if err != nil {
		return nil, err
	}
	if profile.Username == "" {
		profile.Username = username
	}

	log.InfoWithFields("profile scraped", map[string]interface{}{
		"followers": profile.FollowerCount,
		"posts":     profile.PostsCount,
	})

	result := &models.ScrapeResult{Profile: profile}
	defer func() {
		result.TotalPosts = len(result.Posts)
		result.CompletedAt = time.Now().UTC()
	}()

	seen := opts.Seen
	if seen == nil {
		seen = make(map[string]bool)
	}

	cursor := opts.Cursor
	more := true
	stopped := false

	for more && !stopped {
		if opts.MaxPosts > 0 && len(result.Posts) >= opts.MaxPosts {
			break
		}

		feedURL := instagram.GetFeedURL(e.BaseURL, username, cursor, e.pageSize)
		res, err := e.fetchWithRetry(ctx, feedURL, true)
		if err != nil {
			if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
				// Cancellation keeps the accumulator intact.
				result.HasMore = more
				return result, err
			}

			var exhausted *errors.Exhausted
			if stderrors.As(err, &exhausted) {
				// Partial success: keep what we have and report what
				// stopped us.
				log.WarnWithFields("pagination halted, returning partial result", map[string]interface{}{
					"signal": string(exhausted.Last.Signal),
					"posts":  len(result.Posts),
				})
				result.HaltSignal = string(exhausted.Last.Signal)
				result.HasMore = true
				result.Errors = append(result.Errors, exhausted.Error())
				return result, nil
			}

			// Block signals and anything unclassified abort the run;
			// the caller decides what to do with nothing.
			return nil, err
		}

		var feed instagram.FeedResponse
		if err := json.Unmarshal(res.Body, &feed); err != nil {
			log.WarnWithFields("feed page is not valid JSON, halting", map[string]interface{}{
				"error": err.Error(),
			})
			result.HaltSignal = string(errors.SignalAPIFail)
			result.HasMore = true
			result.Errors = append(result.Errors, "malformed feed payload: "+err.Error())
			return result, nil
		}

		if result.Profile.UserID == "" && feed.User != nil {
			result.Profile.UserID = feed.User.PK.String()
		}

		posts, nextCursor, moreAvailable := instagram.ParseFeedResponse(&feed, username)

		added := 0
		for _, post := range posts {
			if opts.StopBefore > 0 && post.Timestamp <= opts.StopBefore {
				// Incremental bound reached; the rest of the page is older.
				stopped = true
				break
			}
			if post.ID == "" || seen[post.ID] {
				continue
			}
			seen[post.ID] = true
			result.Posts = append(result.Posts, post)
			added++
			if opts.MaxPosts > 0 && len(result.Posts) >= opts.MaxPosts {
				stopped = true
				break
			}
		}

		if e.tracker != nil {
			e.tracker.RecordPage(added)
		}

		cursor = nextCursor
		more = moreAvailable && nextCursor != ""

		log.DebugWithFields("feed page processed", map[string]interface{}{
			"added": added,
			"total": len(result.Posts),
			"more":  more,
		})

		e.saveCheckpoint(username, result, cursor, seen)
	}

	result.HasMore = more
	log.InfoWithFields("scrape finished", map[string]interface{}{
		"posts":    len(result.Posts),
		"has_more": result.HasMore,
	})

	return result, nil
}

// fetchWithRetry issues one logical request, looping the same URL through
// the classifier and retry controller until it is healthy or the controller
// ends the attempt sequence.
func (e *Engine) fetchWithRetry(ctx context.Context, url string, api bool) (*instagram.FetchResult, error) {
	attempt := 0
	for {
		attempt++

		if err := e.pace(ctx); err != nil {
			return nil, err
		}

		var res *instagram.FetchResult
		var err error
		if api {
			res, err = e.client.FetchAPI(ctx, url, e.session)
		} else {
			res, err = e.client.FetchDocument(ctx, url)
		}

		var classified *errors.Error
		if err != nil {
			if !stderrors.As(err, &classified) {
				// Context cancellation and programming errors pass through.
				return nil, err
			}
		} else {
			cl := instagram.Classify(res)
			if cl.Signal == errors.SignalHealthy {
				return res, nil
			}
			classified = cl.Err()
		}

		decision := e.retrier.Next(classified.Signal, attempt)
		switch decision.Kind {
		case retry.ActionRetry:
			e.logger.WarnWithFields("request failed, retrying", map[string]interface{}{
				"url":      url,
				"signal":   string(classified.Signal),
				"attempt":  attempt,
				"delay_ms": decision.Delay.Milliseconds(),
			})
			if err := retry.Wait(ctx, decision.Delay); err != nil {
				return nil, err
			}
		case retry.ActionGiveUp:
			return nil, &errors.Exhausted{Attempts: attempt, Last: classified}
		default:
			return nil, classified
		}
	}
}

// pace applies the randomized inter-request delay and the rate cap.
func (e *Engine) pace(ctx context.Context) error {
	if err := e.pacer.Pause(ctx); err != nil {
		return err
	}
	return e.bucket.Wait(ctx)
}

func (e *Engine) saveCheckpoint(username string, result *models.ScrapeResult, cursor string, seen map[string]bool) {
	if e.ckpts == nil {
		return
	}

	var newest int64
	for _, p := range result.Posts {
		if p.Timestamp > newest {
			newest = p.Timestamp
		}
	}

	cp := &checkpoint.Checkpoint{
		Username:        username,
		UserID:          result.Profile.UserID,
		EndCursor:       cursor,
		SeenPosts:       seen,
		NewestTimestamp: newest,
		TotalScraped:    len(result.Posts),
		Version:         1,
	}
	if err := e.ckpts.Save(cp); err != nil {
		e.logger.WithError(err).Warn("failed to save checkpoint")
	}
}
