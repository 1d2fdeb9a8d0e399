package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jimezsa/ghsearch/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

var ErrInvalidOption = errors.New("invalid search option")

const maxPerPage = 100

// Settings carries the tunables read from config.
type Settings struct {
	BaseURL          string
	PerPage          int
	RateLimitRetries int
	RetryDelay       time.Duration
	CommitDelay      time.Duration
	FailOpen         bool
}

func DefaultSettings() Settings {
	return Settings{
		BaseURL:          DefaultBaseURL,
		PerPage:          maxPerPage,
		RateLimitRetries: 2,
		RetryDelay:       5 * time.Second,
		CommitDelay:      5 * time.Second,
		FailOpen:         true,
	}
}

type Option func(*Client)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithClock replaces time.Now for rate-limit arithmetic.
func WithClock(clock func() time.Time) Option {
	return func(c *Client) { c.clock = clock }
}

// WithSleep replaces time.Sleep for rate-limit waits, the delay between
// rate-limit retries and commit pacing.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Client) { c.sleep = sleep }
}

// Client drives the search endpoints. One request is in flight at a time.
type Client struct {
	settings  Settings
	session   *Session
	limiter   *RateLimiter
	pages     *Enumerator
	extractor *Extractor
	logger    zerolog.Logger
	clock     func() time.Time
	sleep     func(time.Duration)
}

func New(doer Doer, tokens oauth2.TokenSource, settings Settings, opts ...Option) *Client {
	c := &Client{
		settings: settings,
		logger:   zerolog.Nop(),
		clock:    time.Now,
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.settings.PerPage <= 0 {
		c.settings.PerPage = maxPerPage
	}

	c.session = NewSession(doer, settings.BaseURL, tokens)
	c.limiter = NewRateLimiter(c.session, settings.RateLimitRetries, settings.RetryDelay, c.clock, c.sleep,
		c.logger.With().Str("component", "ratelimit").Logger())
	c.pages = NewEnumerator(c.session, c.logger.With().Str("component", "pages").Logger())
	c.extractor = NewExtractor(c.session, c.limiter, c.sleep, settings.FailOpen,
		c.logger.With().Str("component", "extract").Logger())
	return c
}

// RateLimit returns the current search bucket.
func (c *Client) RateLimit(ctx context.Context) (Bucket, error) {
	return c.limiter.Snapshot(ctx)
}

// Result summarises one paginated search.
type Result struct {
	Kind        string
	Query       string
	URL         string
	Pages       int
	Fetched     int
	AbortStatus int
	Items       []models.Item
}

func (r *Result) Aborted() bool {
	return r != nil && r.AbortStatus != 0
}

type pageDecoder func(body []byte) ([]models.Item, error)

// paginate fetches every page of base in order and stops at the first failed
// page. pause runs after each fetch whatever its outcome.
func (c *Client) paginate(ctx context.Context, result *Result, perPage int, pause time.Duration, decode pageDecoder) (*Result, error) {
	logger := c.logger.With().Str("kind", result.Kind).Str("query", result.Query).Logger()

	urls, err := c.pages.Pages(ctx, result.URL, perPage)
	if err != nil {
		return result, fmt.Errorf("%s search: %w", result.Kind, err)
	}
	result.Pages = len(urls)

	for _, target := range urls {
		ext, err := c.extractor.Extract(ctx, target)
		if err != nil {
			return result, fmt.Errorf("%s search: %w", result.Kind, err)
		}
		if pause > 0 {
			c.sleep(pause)
		}
		if code := ext.Code(); code != 0 {
			result.AbortStatus = code
			logger.Error().Int("code", code).Str("url", target).Msg("search stopped early, check logs")
			return result, nil
		}

		result.Fetched++
		items, err := decode(ext.Body)
		if err != nil {
			logger.Warn().Err(err).Str("url", target).Msg("could not decode page items")
			continue
		}
		result.Items = append(result.Items, items...)
	}

	logger.Info().Int("pages", result.Fetched).Int("items", len(result.Items)).Msg("search finished")
	return result, nil
}

func (c *Client) perPage(value int) int {
	if value <= 0 {
		value = c.settings.PerPage
	}
	if value > maxPerPage {
		c.logger.Warn().Int("per_page", value).Msgf("per_page capped at %d", maxPerPage)
		value = maxPerPage
	}
	return value
}

func searchURL(baseURL, endpoint string, q *Query, sort, order string, perPage int) string {
	var b strings.Builder
	b.WriteString(baseURL)
	b.WriteString("/search/")
	b.WriteString(endpoint)
	b.WriteString("?q=")
	b.WriteString(q.String())
	if sort != "" {
		b.WriteString("&sort=")
		b.WriteString(escapeTerm(sort))
	}
	if order != "" {
		b.WriteString("&order=")
		b.WriteString(escapeTerm(order))
	}
	fmt.Fprintf(&b, "&per_page=%d", perPage)
	return b.String()
}

func oneOf(name, value string, allowed ...string) error {
	for _, candidate := range allowed {
		if value == candidate {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (want one of %s)", ErrInvalidOption, name, value, strings.Join(allowed, ", "))
}

func requiredKeyword() error {
	return fmt.Errorf("%w: keyword is required", ErrInvalidOption)
}
