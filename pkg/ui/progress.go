package ui

import (
	"fmt"
	"os"
	"sync"
	"time"
)

var quietMode bool

// SetQuietMode suppresses all status output
func SetQuietMode(quiet bool) {
	quietMode = quiet
}

// StatusTracker keeps track of scrape progress
type StatusTracker struct {
	mu        sync.Mutex
	startTime time.Time
	pages     int
	posts     int
}

// NewStatusTracker creates a new status tracker
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{startTime: time.Now()}
}

// RecordPage records one completed feed page
func (t *StatusTracker) RecordPage(posts int) {
	t.mu.Lock()
	t.pages++
	t.posts += posts
	pages, total := t.pages, t.posts
	elapsed := time.Since(t.startTime).Round(time.Second)
	t.mu.Unlock()

	if quietMode {
		return
	}
	fmt.Fprintf(os.Stderr, "\033[36m[page %d]\033[0m %d posts collected (%s elapsed)\n",
		pages, total, elapsed)
}

// Totals returns the pages and posts recorded so far
func (t *StatusTracker) Totals() (pages, posts int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pages, t.posts
}

// PrintSuccess prints a green status line
func PrintSuccess(msg string) {
	if quietMode {
		return
	}
	fmt.Fprintf(os.Stderr, "\033[32m✓\033[0m %s\n", msg)
}

// PrintError prints a red status line
func PrintError(msg string) {
	if quietMode {
		return
	}
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", msg)
}

// PrintInfo prints a labeled status line
func PrintInfo(label, msg string) {
	if quietMode {
		return
	}
	fmt.Fprintf(os.Stderr, "\033[36m%s:\033[0m %s\n", label, msg)
}
