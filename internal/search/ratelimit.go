package search

import (
	"context"
	"fmt"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// RateState is the outcome of a rate-limit check.
type RateState int

const (
	// RateReady means requests remain in the search bucket.
	RateReady RateState = iota
	// RateWait means the bucket is empty until RateStatus.Wait has passed.
	RateWait
	// RateUnknown means the quota could not be read within the retry budget.
	RateUnknown
)

func (s RateState) String() string {
	switch s {
	case RateReady:
		return "ready"
	case RateWait:
		return "wait"
	default:
		return "unknown"
	}
}

// RateStatus is a rate-limit decision for the search resource.
type RateStatus struct {
	State     RateState
	Wait      time.Duration
	Remaining int
	Reset     time.Time
}

// Bucket is one resource entry of GET /rate_limit.
type Bucket struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Used      int   `json:"used"`
	Reset     int64 `json:"reset"`
}

func (b Bucket) ResetTime() time.Time {
	return time.Unix(b.Reset, 0)
}

type rateLimitResponse struct {
	Resources struct {
		Search Bucket `json:"search"`
	} `json:"resources"`
}

// RateLimiter reads the search quota before each data fetch.
type RateLimiter struct {
	session  *Session
	attempts int
	delay    time.Duration
	clock    func() time.Time
	sleep    func(time.Duration)
	logger   zerolog.Logger
}

func NewRateLimiter(session *Session, attempts int, delay time.Duration, clock func() time.Time, sleep func(time.Duration), logger zerolog.Logger) *RateLimiter {
	if clock == nil {
		clock = time.Now
	}
	if sleep == nil {
		sleep = time.Sleep
	}
	return &RateLimiter{
		session:  session,
		attempts: max(attempts, 1),
		delay:    max(delay, 0),
		clock:    clock,
		sleep:    sleep,
		logger:   logger,
	}
}

// Check queries the quota and decides whether the next search request may go
// out now. Failures never surface as errors: they become RateUnknown.
func (l *RateLimiter) Check(ctx context.Context) RateStatus {
	bucket, err := l.Snapshot(ctx)
	if err != nil {
		l.logger.Warn().Err(err).Int("attempts", l.attempts).Msg("cannot check rate limits")
		return RateStatus{State: RateUnknown}
	}

	status := l.evaluate(bucket)
	switch status.State {
	case RateWait:
		l.logger.Warn().
			Dur("wait", status.Wait).
			Time("reset", status.Reset).
			Msgf("search rate limit exceeded, waiting %d seconds", int(status.Wait/time.Second))
	default:
		l.logger.Info().Int("remaining", status.Remaining).Msg("search requests remaining")
	}
	return status
}

func (l *RateLimiter) evaluate(b Bucket) RateStatus {
	status := RateStatus{Remaining: b.Remaining, Reset: b.ResetTime()}
	if b.Remaining > 0 {
		status.State = RateReady
		return status
	}

	// One extra second so the request lands after the reset, never below 1s.
	wait := time.Duration(b.Reset-l.clock().Unix()+1) * time.Second
	status.State = RateWait
	status.Wait = max(wait, time.Second)
	return status
}

// Snapshot returns the search bucket. A transport failure is retried after
// the configured delay, a non-200 answer right away, up to the configured
// attempt count.
func (l *RateLimiter) Snapshot(ctx context.Context) (Bucket, error) {
	var (
		bucket    Bucket
		immediate bool
	)

	op := func() error {
		immediate = false
		resp, err := l.session.Get(ctx, l.session.URL("/rate_limit"), nil)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			l.logger.Info().Err(err).Msg("rate limit request failed")
			return err
		}
		if resp.Status != fhttp.StatusOK {
			l.logger.Info().Int("status", resp.Status).Msg("rate limit request rejected")
			immediate = true
			return fmt.Errorf("rate limit status %d", resp.Status)
		}

		var payload rateLimitResponse
		if err := resp.Decode(&payload); err != nil {
			return fmt.Errorf("decode rate limit: %w", err)
		}
		bucket = payload.Resources.Search
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(l.delay), uint64(l.attempts-1)),
		ctx,
	)
	timer := &sleepTimer{sleep: func(d time.Duration) {
		if !immediate {
			l.sleep(d)
		}
	}}
	if err := backoff.RetryNotifyWithTimer(op, policy, nil, timer); err != nil {
		return Bucket{}, err
	}
	return bucket, nil
}

// sleepTimer is a backoff.Timer that blocks in sleep and then fires at once.
type sleepTimer struct {
	sleep func(time.Duration)
	c     chan time.Time
}

func (t *sleepTimer) Start(d time.Duration) {
	if d > 0 {
		t.sleep(d)
	}
	t.c = make(chan time.Time, 1)
	t.c <- time.Now()
}

func (t *sleepTimer) Stop() {}

func (t *sleepTimer) C() <-chan time.Time {
	return t.c
}
