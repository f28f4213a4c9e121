// Package ratelimit provides request pacing for the scraper: a token bucket
// capping requests per minute and a randomized inter-request pacer. Both
// waits are context-aware so cancellation aborts them promptly.
package ratelimit
