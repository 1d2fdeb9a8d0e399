package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ErrRateLimitUnknown is returned when the quota could not be read and the
// extractor is configured to fail closed.
var ErrRateLimitUnknown = errors.New("search rate limit unknown")

// Extraction is the outcome of one data fetch.
type Extraction struct {
	URL    string
	Status int
	Body   []byte
}

// Code is 0 for a 2xx response and the HTTP status otherwise.
func (e Extraction) Code() int {
	if e.Status >= 200 && e.Status < 300 {
		return 0
	}
	return e.Status
}

// Extractor fetches one URL after consulting the rate limiter.
type Extractor struct {
	session  *Session
	limiter  *RateLimiter
	sleep    func(time.Duration)
	failOpen bool
	logger   zerolog.Logger
}

func NewExtractor(session *Session, limiter *RateLimiter, sleep func(time.Duration), failOpen bool, logger zerolog.Logger) *Extractor {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Extractor{
		session:  session,
		limiter:  limiter,
		sleep:    sleep,
		failOpen: failOpen,
		logger:   logger,
	}
}

func (e *Extractor) Extract(ctx context.Context, target string) (Extraction, error) {
	return e.ExtractWith(ctx, target, nil)
}

// ExtractWith is Extract with extra request headers. Rate-limit waits block
// until done; transport errors are returned without retry.
func (e *Extractor) ExtractWith(ctx context.Context, target string, headers map[string]string) (Extraction, error) {
	status := e.limiter.Check(ctx)
	switch status.State {
	case RateWait:
		e.sleep(status.Wait)
	case RateUnknown:
		if !e.failOpen {
			return Extraction{URL: target}, ErrRateLimitUnknown
		}
		e.logger.Warn().Str("url", target).Msg("rate limit unknown, proceeding")
	}

	resp, err := e.session.Get(ctx, target, headers)
	if err != nil {
		return Extraction{URL: target}, fmt.Errorf("fetch %s: %w", target, err)
	}

	ext := Extraction{URL: target, Status: resp.Status, Body: resp.Body}
	if code := ext.Code(); code != 0 {
		logStatus(e.logger, code, resp.Body)
		return ext, nil
	}

	event := e.logger.Info().Str("url", target)
	if compact, ok := compactJSON(resp.Body); ok {
		event = event.RawJSON("data", compact)
	} else {
		event = event.Str("data", truncateBody(resp.Body))
	}
	event.Msg("extracted data")
	return ext, nil
}

func compactJSON(body []byte) ([]byte, bool) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}
