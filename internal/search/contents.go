package search

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/ghsearch/internal/models"
)

const (
	MediaJSON = "json"
	MediaRaw  = "raw"
	MediaHTML = "html"
)

var mediaTypes = map[string]string{
	MediaJSON: "application/vnd.github+json",
	MediaRaw:  "application/vnd.github.raw",
	MediaHTML: "application/vnd.github.html",
}

// ContentOptions address one path in a repository.
type ContentOptions struct {
	Owner string
	Repo  string
	Path  string
	Ref   string
	Media string
}

// ContentResult is the outcome of FetchContents. Content is nil when the
// request failed.
type ContentResult struct {
	URL         string
	AbortStatus int
	Content     *models.FileContent
}

func (o *ContentOptions) normalize() error {
	o.Owner = strings.TrimSpace(o.Owner)
	o.Repo = strings.TrimSpace(o.Repo)
	o.Path = strings.Trim(strings.TrimSpace(o.Path), "/")
	if o.Owner == "" || o.Repo == "" {
		return fmt.Errorf("%w: owner and repo are required", ErrInvalidOption)
	}
	if o.Media == "" {
		o.Media = MediaJSON
	}
	if _, ok := mediaTypes[o.Media]; !ok {
		return fmt.Errorf("%w: media %q (want json, raw or html)", ErrInvalidOption, o.Media)
	}
	return nil
}

// ContentsURL builds /repos/{owner}/{repo}/contents/{path}[?ref=].
func ContentsURL(baseURL string, opts ContentOptions) string {
	segments := strings.Split(opts.Path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	target := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		baseURL, url.PathEscape(opts.Owner), url.PathEscape(opts.Repo), strings.Join(segments, "/"))
	if ref := strings.TrimSpace(opts.Ref); ref != "" {
		target += "?ref=" + url.QueryEscape(ref)
	}
	return target
}

// FetchContents fetches a single file or directory listing through the data
// extractor.
func (c *Client) FetchContents(ctx context.Context, opts ContentOptions) (*ContentResult, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	result := &ContentResult{URL: ContentsURL(c.session.URL(""), opts)}
	ext, err := c.extractor.ExtractWith(ctx, result.URL, map[string]string{"Accept": mediaTypes[opts.Media]})
	if err != nil {
		return result, fmt.Errorf("contents: %w", err)
	}
	if code := ext.Code(); code != 0 {
		result.AbortStatus = code
		return result, nil
	}

	content := &models.FileContent{Owner: opts.Owner, Repo: opts.Repo, Path: opts.Path}
	switch opts.Media {
	case MediaRaw:
		content.Type = "file"
		content.Size = len(ext.Body)
		content.Content = string(ext.Body)
	case MediaHTML:
		text, err := htmlText(ext.Body)
		if err != nil {
			return result, fmt.Errorf("contents: parse html: %w", err)
		}
		content.Type = "file"
		content.Content = text
	default:
		if err := decodeContent(ext.Body, content); err != nil {
			return result, fmt.Errorf("contents: %w", err)
		}
	}

	c.logger.Info().
		Str("path", content.Path).
		Str("type", content.Type).
		Int("size", content.Size).
		Msg("fetched contents")
	result.Content = content
	return result, nil
}

type contentResponse struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Type     string `json:"type"`
	SHA      string `json:"sha"`
	Size     int    `json:"size"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
	HTMLURL  string `json:"html_url"`
}

func decodeContent(body []byte, out *models.FileContent) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []contentResponse
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return fmt.Errorf("decode listing: %w", err)
		}
		out.Type = "dir"
		for _, e := range entries {
			out.Entries = append(out.Entries, models.ContentEntry{Name: e.Name, Path: e.Path, Type: e.Type, Size: e.Size})
		}
		return nil
	}

	var file contentResponse
	if err := json.Unmarshal(trimmed, &file); err != nil {
		return fmt.Errorf("decode file: %w", err)
	}
	out.Name = file.Name
	out.Path = file.Path
	out.Type = file.Type
	out.SHA = file.SHA
	out.Size = file.Size
	out.HTMLURL = file.HTMLURL

	switch file.Encoding {
	case "base64":
		data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
		if err != nil {
			return fmt.Errorf("decode content: %w", err)
		}
		out.Content = string(data)
	default:
		// Files over 1MB come back with encoding "none" and no content.
		out.Content = file.Content
	}
	return nil
}

const htmlBlocks = "h1, h2, h3, h4, h5, h6, p, li, pre, td"

// htmlText reduces GitHub-rendered markup to one line per block element.
func htmlText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	var lines []string
	doc.Find(htmlBlocks).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(htmlBlocks).Length() > 0 {
			return
		}
		if line := strings.Join(strings.Fields(s.Text()), " "); line != "" {
			lines = append(lines, line)
		}
	})
	if len(lines) == 0 {
		return strings.Join(strings.Fields(doc.Text()), " "), nil
	}
	return strings.Join(lines, "\n"), nil
}
