package search

import (
	"context"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageCount(t *testing.T) {
	cases := []struct {
		total, perPage, want int
	}{
		{250, 100, 3},
		// Exact division requests one trailing empty page.
		{100, 100, 2},
		{0, 100, 1},
		{9, 10, 1},
		{10, 10, 2},
		{1001, 10, 101},
		{5, 0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PageCount(tc.total, tc.perPage), "PageCount(%d, %d)", tc.total, tc.perPage)
	}
}

func TestPageURLs(t *testing.T) {
	base := "https://api.test/search/repositories?q=x&per_page=100"
	got := PageURLs(base, 3)
	assert.Equal(t, []string{base + "&page=1", base + "&page=2", base + "&page=3"}, got)
	assert.Empty(t, PageURLs(base, 0))
}

func TestEnumeratorPages(t *testing.T) {
	env := newTestEnv(t, testSettings(), func(req *fhttp.Request) (*fhttp.Response, error) {
		return respond(200, `{"total_count":250,"incomplete_results":false,"items":[]}`), nil
	})

	base := testBaseURL + "/search/repositories?q=x&per_page=100"
	urls, err := env.client.pages.Pages(context.Background(), base, 100)
	require.NoError(t, err)
	require.Len(t, urls, 3)
	assert.Equal(t, base+"&page=1", urls[0])
	assert.Equal(t, base+"&page=3", urls[2])
	assert.Equal(t, []string{"/search/repositories?q=x&per_page=100"}, env.doer.requests)
}

func TestEnumeratorFailureReturnsEmpty(t *testing.T) {
	env := newTestEnv(t, testSettings(), func(req *fhttp.Request) (*fhttp.Response, error) {
		return respond(401, `{"message":"Bad credentials"}`), nil
	})

	urls, err := env.client.pages.Pages(context.Background(), testBaseURL+"/search/commits?q=x", 10)
	require.NoError(t, err)
	assert.NotNil(t, urls)
	assert.Empty(t, urls)
	assert.Contains(t, env.logs.String(), `"category":"unauthorized"`)
	assert.Contains(t, env.logs.String(), "Bad credentials")
}

func TestEnumeratorTransportError(t *testing.T) {
	env := newTestEnv(t, testSettings(), func(req *fhttp.Request) (*fhttp.Response, error) {
		return nil, errTransport
	})

	_, err := env.client.pages.Pages(context.Background(), testBaseURL+"/search/commits?q=x", 10)
	require.ErrorIs(t, err, errTransport)
}
