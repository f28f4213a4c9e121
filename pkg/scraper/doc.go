// Package scraper contains the pagination engine that orchestrates a full
// profile scrape: session-bound profile fetch, cursor-driven feed pagination,
// block classification and per-class retries, de-duplication, and partial
// results when a run is stopped mid-way.
package scraper
