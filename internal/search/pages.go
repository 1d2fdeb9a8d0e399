package search

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
)

// PageCount returns total/perPage + 1. When total divides evenly the last
// page is empty; GitHub answers it with an empty items list.
func PageCount(total, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return max(total, 0)/perPage + 1
}

// PageURLs appends &page=i to base for i in 1..count.
func PageURLs(base string, count int) []string {
	urls := make([]string, 0, max(count, 0))
	for i := 1; i <= count; i++ {
		urls = append(urls, base+"&page="+strconv.Itoa(i))
	}
	return urls
}

// Enumerator turns a search URL into the list of page URLs to fetch.
type Enumerator struct {
	session *Session
	logger  zerolog.Logger
}

func NewEnumerator(session *Session, logger zerolog.Logger) *Enumerator {
	return &Enumerator{session: session, logger: logger}
}

// Pages reads total_count from base and returns one URL per page. A failed
// status yields an empty slice and a nil error: nothing to fetch.
func (e *Enumerator) Pages(ctx context.Context, base string, perPage int) ([]string, error) {
	resp, err := e.session.Get(ctx, base, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		logStatus(e.logger, resp.Status, resp.Body)
		return []string{}, nil
	}

	var payload struct {
		TotalCount int `json:"total_count"`
	}
	if err := resp.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode total_count: %w", err)
	}

	count := PageCount(payload.TotalCount, perPage)
	e.logger.Info().
		Int("total_count", payload.TotalCount).
		Int("pages", count).
		Msgf("search has %d pages", count)

	return PageURLs(base, count), nil
}
