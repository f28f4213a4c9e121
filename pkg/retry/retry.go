package retry

import (
	"math/rand"
	"sync"
	"time"

	"igprofile/pkg/config"
	"igprofile/pkg/errors"
	"igprofile/pkg/logger"
)

// ActionKind is what the controller tells the caller to do after a failure.
type ActionKind int

const (
	// ActionRetry means wait for Decision.Delay and reissue the same request.
	ActionRetry ActionKind = iota
	// ActionGiveUp means attempts are exhausted for this logical request.
	// Mid-pagination this ends the scrape as a partial success.
	ActionGiveUp
	// ActionAbort means the session itself is compromised. The whole scrape
	// fails; retrying would only deepen the block.
	ActionAbort
)

func (k ActionKind) String() string {
	switch k {
	case ActionRetry:
		return "retry"
	case ActionGiveUp:
		return "give_up"
	default:
		return "abort"
	}
}

// Decision is the controller's verdict for one failed attempt.
type Decision struct {
	Kind  ActionKind
	Delay time.Duration
}

// Policy is the retry schedule for one failure class.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
}

// apiFailPolicy grants the single transient retry an api_fail gets before
// it is treated as give-up.
var apiFailPolicy = Policy{
	MaxAttempts: 2,
	BaseDelay:   2 * time.Second,
	MaxDelay:    300 * time.Second,
	Multiplier:  2.0,
}

// Controller decides, per failure class, whether a failed request should be
// retried and after what delay. Policies are immutable after construction.
type Controller struct {
	policies map[errors.Signal]Policy
	logger   logger.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewController builds a controller from the retry section of the config.
// A nil config uses the default policy table. The random source drives the
// jitter and is injectable for deterministic tests.
func NewController(cfg *config.RetryConfig, rnd *rand.Rand, log logger.Logger) *Controller {
	if cfg == nil {
		cfg = &config.DefaultConfig().Retry
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if log == nil {
		log = logger.GetLogger()
	}

	toPolicy := func(p config.PolicyConfig) Policy {
		return Policy{
			MaxAttempts: p.MaxAttempts,
			BaseDelay:   p.BaseDelay,
			MaxDelay:    p.MaxDelay,
			Multiplier:  p.Multiplier,
		}
	}

	connection := toPolicy(cfg.Connection)

	return &Controller{
		policies: map[errors.Signal]Policy{
			errors.SignalRateLimited:     toPolicy(cfg.RateLimit),
			errors.SignalServerError:     toPolicy(cfg.ServerError),
			errors.SignalConnectionError: connection,
			// Thin bodies behave like flaky connections: same schedule.
			errors.SignalEmptyResponse: connection,
			errors.SignalAPIFail:       apiFailPolicy,
		},
		logger: log,
		rnd:    rnd,
	}
}

// Next decides what to do after the given attempt (1-based) failed with the
// given signal. Block signals always abort. A retryable class whose attempts
// are spent gives up.
func (c *Controller) Next(signal errors.Signal, attempt int) Decision {
	if errors.IsBlock(signal) {
		c.logger.WarnWithFields("block signal, aborting", map[string]interface{}{
			"signal": string(signal),
		})
		return Decision{Kind: ActionAbort}
	}

	policy, ok := c.policies[signal]
	if !ok {
		// Unknown classes are treated like blocks: stop before making
		// things worse.
		return Decision{Kind: ActionAbort}
	}

	if attempt >= policy.MaxAttempts {
		c.logger.WarnWithFields("retry attempts exhausted", map[string]interface{}{
			"signal":   string(signal),
			"attempts": attempt,
		})
		return Decision{Kind: ActionGiveUp}
	}

	return Decision{Kind: ActionRetry, Delay: c.delay(policy, attempt)}
}

// Policy returns the schedule for a failure class, for introspection.
func (c *Controller) Policy(signal errors.Signal) (Policy, bool) {
	p, ok := c.policies[signal]
	return p, ok
}

func (c *Controller) delay(policy Policy, attempt int) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	backoff := ExponentialBackoff{
		BaseDelay:  policy.BaseDelay,
		MaxDelay:   policy.MaxDelay,
		Multiplier: policy.Multiplier,
		Rand:       c.rnd,
	}
	return backoff.NextDelay(attempt)
}
