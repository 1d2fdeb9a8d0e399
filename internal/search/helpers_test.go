package search

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const testBaseURL = "https://api.test"

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// fakeDoer answers requests from a handler and records every request URI.
type fakeDoer struct {
	handle   func(req *fhttp.Request) (*fhttp.Response, error)
	requests []string
	auth     []string
	accept   []string
}

func (f *fakeDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	f.requests = append(f.requests, req.URL.RequestURI())
	f.auth = append(f.auth, req.Header.Get("Authorization"))
	f.accept = append(f.accept, req.Header.Get("Accept"))
	return f.handle(req)
}

func (f *fakeDoer) count(prefix string) int {
	n := 0
	for _, r := range f.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func respond(status int, body string) *fhttp.Response {
	return &fhttp.Response{
		StatusCode: status,
		Header:     fhttp.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func rateLimitBody(remaining int, reset int64) string {
	return fmt.Sprintf(`{"resources":{"core":{"limit":5000,"remaining":4999,"used":1,"reset":%d},"search":{"limit":30,"remaining":%d,"used":%d,"reset":%d}}}`,
		reset, remaining, 30-remaining, reset)
}

var errTransport = errors.New("connection reset by peer")

type sleepRecorder struct {
	calls []time.Duration
}

func (s *sleepRecorder) sleep(d time.Duration) {
	s.calls = append(s.calls, d)
}

type testEnv struct {
	doer   *fakeDoer
	sleeps *sleepRecorder
	logs   *bytes.Buffer
	client *Client
}

func newTestEnv(t *testing.T, settings Settings, handle func(req *fhttp.Request) (*fhttp.Response, error)) *testEnv {
	t.Helper()
	env := &testEnv{
		doer:   &fakeDoer{handle: handle},
		sleeps: &sleepRecorder{},
		logs:   &bytes.Buffer{},
	}
	settings.BaseURL = testBaseURL
	logger := zerolog.New(env.logs).Level(zerolog.DebugLevel)
	env.client = New(env.doer,
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "secret", TokenType: "Bearer"}),
		settings,
		WithLogger(logger),
		WithClock(func() time.Time { return testNow }),
		WithSleep(env.sleeps.sleep),
	)
	return env
}

func testSettings() Settings {
	s := DefaultSettings()
	s.RetryDelay = 0
	return s
}
