// Package retry implements the backoff controller for classified scrape
// failures.
//
// Each failure class carries its own schedule: rate limits back off from 10s,
// server errors from 2s, connection errors get three attempts. Every computed
// delay is jittered by a uniform factor in [0.75, 1.25]. Login and challenge
// walls are never retried; they abort the run because the session itself is
// compromised.
package retry
