package search

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jimezsa/ghsearch/internal/models"
)

// DefaultCommitKeyword is used when a commit search has no keyword.
const DefaultCommitKeyword = "Initial"

var CommitSorts = []string{"author-date", "committer-date"}

type CommitOptions struct {
	Keyword   string
	User      string
	Author    string
	Committer string
	Repo      string
	Fork      string
	Sort      string
	Order     string
	PerPage   int
}

func (o *CommitOptions) normalize() error {
	o.Keyword = strings.TrimSpace(o.Keyword)
	if o.Keyword == "" {
		o.Keyword = DefaultCommitKeyword
	}
	if o.Order == "" {
		o.Order = "asc"
	}
	if o.Sort != "" {
		if err := oneOf("sort", o.Sort, CommitSorts...); err != nil {
			return err
		}
	}
	if o.Fork != "" {
		if err := oneOf("fork", o.Fork, ForkModes...); err != nil {
			return err
		}
	}
	return oneOf("order", o.Order, Orders...)
}

// CommitQuery builds the q value: keyword, user, repo, author, committer, fork.
func CommitQuery(opts CommitOptions) *Query {
	return NewQuery(opts.Keyword).
		Add("user", opts.User).
		Add("repo", opts.Repo).
		Add("author", opts.Author).
		Add("committer", opts.Committer).
		Add("fork", opts.Fork)
}

// SearchCommits pages through /search/commits. Every page fetch is followed
// by the configured commit delay to stay under the secondary rate limit.
func (c *Client) SearchCommits(ctx context.Context, opts CommitOptions) (*Result, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}
	perPage := c.perPage(opts.PerPage)
	query := CommitQuery(opts)

	result := &Result{
		Kind:  models.KindCommit,
		Query: query.String(),
		URL:   searchURL(c.session.URL(""), "commits", query, opts.Sort, opts.Order, perPage),
	}
	return c.paginate(ctx, result, perPage, c.settings.CommitDelay, decodeCommits)
}

type commitPage struct {
	Items []struct {
		SHA     string `json:"sha"`
		HTMLURL string `json:"html_url"`
		Commit  struct {
			Message string `json:"message"`
			Author  struct {
				Name string    `json:"name"`
				Date time.Time `json:"date"`
			} `json:"author"`
			Committer struct {
				Date time.Time `json:"date"`
			} `json:"committer"`
		} `json:"commit"`
		Author *struct {
			Login string `json:"login"`
		} `json:"author"`
		Repository struct {
			FullName string `json:"full_name"`
		} `json:"repository"`
	} `json:"items"`
}

func decodeCommits(body []byte) ([]models.Item, error) {
	var page commitPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, err
	}
	items := make([]models.Item, 0, len(page.Items))
	for _, cm := range page.Items {
		author := cm.Commit.Author.Name
		if cm.Author != nil && cm.Author.Login != "" {
			author = cm.Author.Login
		}
		updated := cm.Commit.Committer.Date
		if updated.IsZero() {
			updated = cm.Commit.Author.Date
		}
		items = append(items, models.Item{
			ID:        cm.SHA,
			Kind:      models.KindCommit,
			Title:     firstLine(cm.Commit.Message),
			Owner:     author,
			URL:       cm.HTMLURL,
			Summary:   cm.Repository.FullName,
			UpdatedAt: updated,
		})
	}
	return items, nil
}

func firstLine(value string) string {
	value = strings.TrimSpace(value)
	if i := strings.IndexByte(value, '\n'); i >= 0 {
		value = value[:i]
	}
	return strings.TrimSpace(value)
}
