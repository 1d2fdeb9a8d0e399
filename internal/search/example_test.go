package search

import (
	"context"
	"fmt"
	"strings"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExample(t *testing.T) {
	settings := testSettings()
	settings.CommitDelay = 0
	env := newTestEnv(t, settings, route(readyRate, func(req *fhttp.Request) (*fhttp.Response, error) {
		switch {
		case req.URL.Path == "/user":
			return respond(200, `{"login":"octocat"}`), nil
		case req.URL.Path == "/search/repositories":
			// The repository search stops on its first page.
			if strings.Contains(req.URL.RawQuery, "&page=") {
				return respond(500, `boom`), nil
			}
			return respond(200, fmt.Sprintf(repoItems, 30)), nil
		case req.URL.Path == "/search/commits":
			return respond(200, fmt.Sprintf(commitItems, 5)), nil
		default:
			return respond(200, `{"name":"README.md","path":"README.md","type":"file","encoding":"base64","content":"aGk="}`), nil
		}
	}))

	report, err := env.client.RunExample(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Authenticated)
	assert.Equal(t, 500, report.Repositories.AbortStatus)
	assert.Equal(t, 1, report.Commits.Fetched)
	require.NotNil(t, report.Contents.Content)
	assert.Equal(t, "hi", report.Contents.Content.Content)

	assert.Equal(t, "/user", env.doer.requests[0])
	assert.Equal(t, "/search/repositories?q=django-blog+language:python+fork:only+is:public&sort=stars&order=asc&per_page=10",
		env.doer.requests[1])
	assert.Equal(t, 1, env.doer.count("/repos/zakirovtech/zakirovtech/contents/README.md"))
}

func TestRunExampleStopsWhenUnauthenticated(t *testing.T) {
	env := newTestEnv(t, testSettings(), func(req *fhttp.Request) (*fhttp.Response, error) {
		return respond(401, `{"message":"Bad credentials"}`), nil
	})

	report, err := env.client.RunExample(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Authenticated)
	assert.Nil(t, report.Repositories)
	assert.Equal(t, []string{"/user"}, env.doer.requests)
}
