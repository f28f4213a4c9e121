package main

import (
	stderrors "errors"
	"fmt"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"igprofile/pkg/checkpoint"
	"igprofile/pkg/errors"
	"igprofile/pkg/instagram"
	"igprofile/pkg/logger"
	"igprofile/pkg/scraper"
	"igprofile/pkg/storage"
	"igprofile/pkg/ui"
)

var (
	// Scrape command flags
	maxPosts    int
	outputPath  string
	proxyURL    string
	sinceStamp  string
	resumeRun   bool
	fingerprint string
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <username>",
	Short: "Scrape a public profile and its posts",
	Long: `Scrape a public Instagram profile and its post feed.

The run bootstraps its own anonymous session, fetches the profile from the
page meta tags, then pages through the feed API until the feed is exhausted
or --max-posts is reached. If rate limits exhaust the retries mid-run, the
posts gathered so far are still written as a partial result.`,
	Example: `  # Scrape everything public on a profile
  igprofile scrape natgeo

  # First 50 posts, written to a file
  igprofile scrape natgeo --max-posts 50 --output natgeo.json

  # Through a proxy, with debug logging
  igprofile scrape natgeo --proxy socks5://127.0.0.1:9050 -v

  # Incremental: only posts newer than a timestamp
  igprofile scrape natgeo --since 2024-06-01T00:00:00Z

  # Continue where the last run stopped
  igprofile scrape natgeo --resume`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().IntVar(&maxPosts, "max-posts", 0, "maximum number of posts to fetch (0 = all)")
	scrapeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file for the JSON result (default: stdout)")
	scrapeCmd.Flags().StringVar(&proxyURL, "proxy", "", "proxy URL, fixed for the whole run")
	scrapeCmd.Flags().StringVar(&sinceStamp, "since", "", "only posts newer than this RFC3339 timestamp")
	scrapeCmd.Flags().BoolVar(&resumeRun, "resume", false, "resume from the last saved cursor")
	scrapeCmd.Flags().StringVar(&fingerprint, "fingerprint", "", "pin a browser fingerprint profile (default: random)")
}

func runScrape(cmd *cobra.Command, args []string) error {
	log := logger.GetLogger()
	username := instagram.SanitizeUsername(args[0])

	if !instagram.IsValidUsername(username) {
		return fmt.Errorf("invalid username: %q", args[0])
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var proxy *url.URL
	if proxyURL == "" {
		proxyURL = cfg.HTTP.Proxy
	}
	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err != nil {
			return fmt.Errorf("invalid proxy URL: %w", err)
		}
		proxy = parsed
	}

	opts := scraper.Options{MaxPosts: maxPosts}
	if opts.MaxPosts == 0 {
		opts.MaxPosts = cfg.Pagination.MaxPosts
	}

	if sinceStamp != "" {
		since, err := time.Parse(time.RFC3339, sinceStamp)
		if err != nil {
			return fmt.Errorf("invalid --since timestamp: %w", err)
		}
		opts.StopBefore = since.Unix()
	}

	ckpts, err := checkpoint.NewManager(username)
	if err != nil {
		return fmt.Errorf("failed to set up checkpointing: %w", err)
	}
	if resumeRun {
		cp, err := ckpts.Load()
		if err != nil {
			return fmt.Errorf("failed to load checkpoint: %w", err)
		}
		if cp != nil {
			opts.Cursor = cp.EndCursor
			opts.Seen = cp.SeenPosts
			ui.PrintInfo("resume", fmt.Sprintf("continuing from cursor after %d posts", cp.TotalScraped))
		}
	}

	if fingerprint == "" {
		fingerprint = cfg.HTTP.Fingerprint
	}

	sess, err := instagram.Bootstrap(ctx, instagram.BootstrapOptions{
		Proxy:       proxy,
		Fingerprint: fingerprint,
		Timeout:     cfg.HTTP.Timeout,
		Logger:      log,
	})
	if err != nil {
		var bootErr *errors.BootstrapError
		if stderrors.As(err, &bootErr) && bootErr.Reason == errors.BootstrapBlocked {
			ui.PrintError(fmt.Sprintf("blocked during bootstrap: %s", bootErr.Signal))
		} else {
			ui.PrintError("session bootstrap failed")
		}
		return err
	}

	engine := scraper.New(sess, cfg, log)
	engine.SetTracker(ui.NewStatusTracker())
	engine.SetCheckpoints(ckpts)

	result, scrapeErr := engine.Scrape(ctx, username, opts)

	// A result with a profile counts as success, even when pagination was
	// halted early or the run was cancelled; the caller still gets data.
	if result == nil || result.Profile == nil {
		if scrapeErr == nil {
			scrapeErr = fmt.Errorf("no data retrieved")
		}
		reportHalt(scrapeErr)
		return scrapeErr
	}

	if result.HaltSignal != "" {
		ui.PrintInfo("partial result", fmt.Sprintf("halted by %s after %d posts", result.HaltSignal, result.TotalPosts))
	} else if scrapeErr != nil {
		ui.PrintInfo("interrupted", fmt.Sprintf("%d posts gathered before cancellation", result.TotalPosts))
	} else {
		ui.PrintSuccess(fmt.Sprintf("scraped %s: %d posts", result.Profile.Username, result.TotalPosts))
	}

	writer := storage.NewWriter(outputPath, cfg.Output.Pretty)
	if outputPath == "" && cfg.Output.Path != "" {
		writer = storage.NewWriter(cfg.Output.Path, cfg.Output.Pretty)
	}
	if err := writer.Write(result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	return nil
}

// reportHalt names the block signal that stopped the run, so an operator can
// decide whether to switch proxy or fingerprint and rerun.
func reportHalt(err error) {
	var blockErr *errors.Error
	if stderrors.As(err, &blockErr) {
		ui.PrintError(fmt.Sprintf("scrape halted by %s (status %d)", blockErr.Signal, blockErr.StatusCode))
		return
	}

	var exhausted *errors.Exhausted
	if stderrors.As(err, &exhausted) {
		ui.PrintError(fmt.Sprintf("retries exhausted: %s", exhausted.Last.Signal))
		return
	}

	ui.PrintError(err.Error())
}
