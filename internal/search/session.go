package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the public GitHub REST endpoint.
const DefaultBaseURL = "https://api.github.com"

// Doer sends one HTTP request. network.Client satisfies it.
type Doer interface {
	Do(req *fhttp.Request) (*fhttp.Response, error)
}

// Response is a fully read HTTP response. Non-2xx statuses are not errors.
type Response struct {
	URL    string
	Status int
	Header fhttp.Header
	Body   []byte
}

func (r *Response) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Session issues authorised GETs against one API root.
type Session struct {
	doer    Doer
	baseURL string
	tokens  oauth2.TokenSource
	headers map[string]string
}

func NewSession(doer Doer, baseURL string, tokens oauth2.TokenSource) *Session {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Session{
		doer:    doer,
		baseURL: baseURL,
		tokens:  tokens,
		headers: map[string]string{
			"Accept":               "application/vnd.github+json",
			"X-GitHub-Api-Version": "2022-11-28",
		},
	}
}

// URL joins path onto the session's API root.
func (s *Session) URL(path string) string {
	return s.baseURL + path
}

// Get sends a GET to target. headers override the session defaults.
func (s *Session) Get(ctx context.Context, target string, headers map[string]string) (*Response, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for key, value := range s.headers {
		req.Header.Set(key, value)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if s.tokens != nil {
		tok, err := s.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("token: %w", err)
		}
		req.Header.Set("Authorization", tok.Type()+" "+tok.AccessToken)
	}

	resp, err := s.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Response{
		URL:    target,
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   body,
	}, nil
}
