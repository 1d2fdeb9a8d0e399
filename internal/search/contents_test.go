package search

import (
	"context"
	"encoding/base64"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentsURL(t *testing.T) {
	got := ContentsURL("https://api.test", ContentOptions{Owner: "octo", Repo: "app", Path: "docs/read me.md", Ref: "v1.0"})
	assert.Equal(t, "https://api.test/repos/octo/app/contents/docs/read%20me.md?ref=v1.0", got)

	got = ContentsURL("https://api.test", ContentOptions{Owner: "octo", Repo: "app"})
	assert.Equal(t, "https://api.test/repos/octo/app/contents/", got)
}

func TestFetchContentsDecodesBase64(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("# Hello\nworld\n"))
	body := `{"name":"README.md","path":"README.md","type":"file","sha":"f00","size":14,"encoding":"base64",
	  "content":"` + encoded[:8] + `\n` + encoded[8:] + `","html_url":"https://github.com/octo/app/blob/main/README.md"}`
	env := newTestEnv(t, testSettings(), route(readyRate, func(req *fhttp.Request) (*fhttp.Response, error) {
		return respond(200, body), nil
	}))

	result, err := env.client.FetchContents(context.Background(), ContentOptions{Owner: "octo", Repo: "app", Path: "/README.md"})
	require.NoError(t, err)
	require.NotNil(t, result.Content)
	assert.Equal(t, "# Hello\nworld\n", result.Content.Content)
	assert.Equal(t, "file", result.Content.Type)
	assert.Equal(t, "f00", result.Content.SHA)
	assert.Equal(t, 14, result.Content.Size)
	assert.Equal(t, []string{"/rate_limit", "/repos/octo/app/contents/README.md"}, env.doer.requests)
	assert.Equal(t, "application/vnd.github+json", env.doer.accept[1])
}

func TestFetchContentsDirectoryListing(t *testing.T) {
	body := `[{"name":"a.go","path":"pkg/a.go","type":"file","size":10},{"name":"sub","path":"pkg/sub","type":"dir","size":0}]`
	env := newTestEnv(t, testSettings(), route(readyRate, func(req *fhttp.Request) (*fhttp.Response, error) {
		return respond(200, body), nil
	}))

	result, err := env.client.FetchContents(context.Background(), ContentOptions{Owner: "octo", Repo: "app", Path: "pkg", Ref: "dev"})
	require.NoError(t, err)
	assert.Equal(t, "dir", result.Content.Type)
	require.Len(t, result.Content.Entries, 2)
	assert.Equal(t, "pkg/sub", result.Content.Entries[1].Path)
	assert.Equal(t, "/repos/octo/app/contents/pkg?ref=dev", env.doer.requests[1])
}

func TestFetchContentsRaw(t *testing.T) {
	env := newTestEnv(t, testSettings(), route(readyRate, func(req *fhttp.Request) (*fhttp.Response, error) {
		return respond(200, "plain text"), nil
	}))

	result, err := env.client.FetchContents(context.Background(), ContentOptions{Owner: "octo", Repo: "app", Path: "a.txt", Media: MediaRaw})
	require.NoError(t, err)
	assert.Equal(t, "plain text", result.Content.Content)
	assert.Equal(t, 10, result.Content.Size)
	assert.Equal(t, "application/vnd.github.raw", env.doer.accept[1])
}

func TestFetchContentsHTML(t *testing.T) {
	body := `<div id="readme"><article class="markdown-body">
<h1>Title</h1>
<p>Some <strong>bold</strong>
text.</p>
<ul><li><p>nested item</p></li><li>second</li></ul>
</article></div>`
	env := newTestEnv(t, testSettings(), route(readyRate, func(req *fhttp.Request) (*fhttp.Response, error) {
		return respond(200, body), nil
	}))

	result, err := env.client.FetchContents(context.Background(), ContentOptions{Owner: "octo", Repo: "app", Path: "README.md", Media: MediaHTML})
	require.NoError(t, err)
	assert.Equal(t, "Title\nSome bold text.\nnested item\nsecond", result.Content.Content)
	assert.Equal(t, "application/vnd.github.html", env.doer.accept[1])
}

func TestFetchContentsNotFound(t *testing.T) {
	env := newTestEnv(t, testSettings(), route(readyRate, func(req *fhttp.Request) (*fhttp.Response, error) {
		return respond(404, `{"message":"Not Found"}`), nil
	}))

	result, err := env.client.FetchContents(context.Background(), ContentOptions{Owner: "octo", Repo: "app", Path: "missing"})
	require.NoError(t, err)
	assert.Equal(t, 404, result.AbortStatus)
	assert.Nil(t, result.Content)
	assert.Contains(t, env.logs.String(), "request failed with status 404")
}

func TestFetchContentsInvalidOptions(t *testing.T) {
	env := newTestEnv(t, testSettings(), nil)

	_, err := env.client.FetchContents(context.Background(), ContentOptions{Repo: "app"})
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = env.client.FetchContents(context.Background(), ContentOptions{Owner: "o", Repo: "app", Media: "pdf"})
	assert.ErrorIs(t, err, ErrInvalidOption)
}
