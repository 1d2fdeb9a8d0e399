package search

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// route dispatches rate-limit checks to rate and everything else to data.
func route(rate, data func(req *fhttp.Request) (*fhttp.Response, error)) func(req *fhttp.Request) (*fhttp.Response, error) {
	return func(req *fhttp.Request) (*fhttp.Response, error) {
		if req.URL.Path == "/rate_limit" {
			return rate(req)
		}
		return data(req)
	}
}

func readyRate(req *fhttp.Request) (*fhttp.Response, error) {
	return respond(200, rateLimitBody(10, testNow.Add(time.Minute).Unix())), nil
}

func TestExtractSleepsWhenQuotaExhausted(t *testing.T) {
	reset := testNow.Add(30 * time.Second).Unix()
	env := newTestEnv(t, testSettings(), route(
		func(req *fhttp.Request) (*fhttp.Response, error) {
			return respond(200, rateLimitBody(0, reset)), nil
		},
		func(req *fhttp.Request) (*fhttp.Response, error) {
			return respond(200, `{"ok":true}`), nil
		},
	))

	ext, err := env.client.extractor.Extract(context.Background(), testBaseURL+"/data")
	require.NoError(t, err)
	assert.Equal(t, 0, ext.Code())
	assert.Equal(t, []time.Duration{31 * time.Second}, env.sleeps.calls)
	assert.Equal(t, []string{"/rate_limit", "/data"}, env.doer.requests)
}

func TestExtractLogsSuccess(t *testing.T) {
	env := newTestEnv(t, testSettings(), route(readyRate, func(req *fhttp.Request) (*fhttp.Response, error) {
		return respond(200, `{"total_count":1}`), nil
	}))

	ext, err := env.client.extractor.Extract(context.Background(), testBaseURL+"/data")
	require.NoError(t, err)
	assert.Equal(t, 200, ext.Status)
	assert.Empty(t, env.sleeps.calls)

	logs := env.logs.String()
	assert.Contains(t, logs, `"message":"extracted data"`)
	assert.Contains(t, logs, `"data":{"total_count":1}`)
}

func TestExtractLogsCompactDataAtInfo(t *testing.T) {
	var logs bytes.Buffer
	doer := &fakeDoer{handle: route(readyRate, func(req *fhttp.Request) (*fhttp.Response, error) {
		return respond(200, "{\n  \"total_count\": 1,\n  \"items\": []\n}"), nil
	})}
	settings := testSettings()
	settings.BaseURL = testBaseURL
	client := New(doer,
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "secret"}),
		settings,
		WithLogger(zerolog.New(&logs).Level(zerolog.InfoLevel)),
		WithClock(func() time.Time { return testNow }),
		WithSleep(func(time.Duration) {}),
	)

	_, err := client.extractor.Extract(context.Background(), testBaseURL+"/data")
	require.NoError(t, err)

	var line string
	for _, l := range strings.Split(logs.String(), "\n") {
		if strings.Contains(l, `"message":"extracted data"`) {
			line = l
		}
	}
	require.NotEmpty(t, line, logs.String())
	assert.Contains(t, line, `"level":"info"`)
	assert.Contains(t, line, `"data":{"total_count":1,"items":[]}`)
}

func TestExtractFailureReturnsStatusCode(t *testing.T) {
	env := newTestEnv(t, testSettings(), route(readyRate, func(req *fhttp.Request) (*fhttp.Response, error) {
		return respond(500, `{"message":"Server Error"}`), nil
	}))

	ext, err := env.client.extractor.Extract(context.Background(), testBaseURL+"/data")
	require.NoError(t, err)
	assert.Equal(t, 500, ext.Code())
	assert.Contains(t, env.logs.String(), `"category":"server_error"`)
	assert.NotContains(t, env.logs.String(), "extracted data")
}

func TestExtractUnknownRateFailOpen(t *testing.T) {
	env := newTestEnv(t, testSettings(), route(
		func(req *fhttp.Request) (*fhttp.Response, error) { return nil, errTransport },
		func(req *fhttp.Request) (*fhttp.Response, error) { return respond(200, `[]`), nil },
	))

	ext, err := env.client.extractor.Extract(context.Background(), testBaseURL+"/data")
	require.NoError(t, err)
	assert.Equal(t, 0, ext.Code())
	assert.Equal(t, 1, env.doer.count("/data"))
	assert.Contains(t, env.logs.String(), "rate limit unknown, proceeding")
}

func TestExtractUnknownRateFailClosed(t *testing.T) {
	settings := testSettings()
	settings.FailOpen = false
	env := newTestEnv(t, settings, route(
		func(req *fhttp.Request) (*fhttp.Response, error) { return respond(503, `unavailable`), nil },
		func(req *fhttp.Request) (*fhttp.Response, error) { return respond(200, `[]`), nil },
	))

	_, err := env.client.extractor.Extract(context.Background(), testBaseURL+"/data")
	require.ErrorIs(t, err, ErrRateLimitUnknown)
	assert.Zero(t, env.doer.count("/data"))
}

func TestExtractTransportErrorNotRetried(t *testing.T) {
	env := newTestEnv(t, testSettings(), route(readyRate, func(req *fhttp.Request) (*fhttp.Response, error) {
		return nil, errTransport
	}))

	_, err := env.client.extractor.Extract(context.Background(), testBaseURL+"/data")
	require.ErrorIs(t, err, errTransport)
	assert.Equal(t, 1, env.doer.count("/data"))
}

func TestExtractWithOverridesAccept(t *testing.T) {
	env := newTestEnv(t, testSettings(), route(readyRate, func(req *fhttp.Request) (*fhttp.Response, error) {
		return respond(200, "# title"), nil
	}))

	ext, err := env.client.extractor.ExtractWith(context.Background(), testBaseURL+"/data",
		map[string]string{"Accept": "application/vnd.github.raw"})
	require.NoError(t, err)
	assert.Equal(t, "# title", string(ext.Body))
	assert.Equal(t, "application/vnd.github+json", env.doer.accept[0])
	assert.Equal(t, "application/vnd.github.raw", env.doer.accept[1])
	// Non-JSON bodies are logged as strings.
	assert.True(t, strings.Contains(env.logs.String(), `"data":"# title"`))
}
