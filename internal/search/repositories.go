package search

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jimezsa/ghsearch/internal/models"
)

var (
	RepositorySorts = []string{"stars", "forks", "help-wanted-issues", "updated"}
	Orders          = []string{"asc", "desc"}
	ForkModes       = []string{"true", "false", "only"}
)

// RepositoryOptions are the inputs of a repository search. Empty filters are
// left out of the query.
type RepositoryOptions struct {
	Keyword  string
	User     string
	Language string
	Fork     string
	Sort     string
	Order    string
	PerPage  int
}

func (o *RepositoryOptions) normalize() error {
	o.Keyword = strings.TrimSpace(o.Keyword)
	if o.Keyword == "" {
		return requiredKeyword()
	}
	if o.Sort == "" {
		o.Sort = "stars"
	}
	if o.Order == "" {
		o.Order = "asc"
	}
	if o.Fork == "" {
		o.Fork = "false"
	}
	if err := oneOf("sort", o.Sort, RepositorySorts...); err != nil {
		return err
	}
	if err := oneOf("order", o.Order, Orders...); err != nil {
		return err
	}
	return oneOf("fork", o.Fork, ForkModes...)
}

// RepositoryQuery builds the q value: keyword, user, language, fork, then
// is:public.
func RepositoryQuery(opts RepositoryOptions) *Query {
	return NewQuery(opts.Keyword).
		Add("user", opts.User).
		Add("language", opts.Language).
		Add("fork", opts.Fork).
		Add("is", "public")
}

// SearchRepositories pages through /search/repositories.
func (c *Client) SearchRepositories(ctx context.Context, opts RepositoryOptions) (*Result, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}
	perPage := c.perPage(opts.PerPage)
	query := RepositoryQuery(opts)

	result := &Result{
		Kind:  models.KindRepository,
		Query: query.String(),
		URL:   searchURL(c.session.URL(""), "repositories", query, opts.Sort, opts.Order, perPage),
	}
	return c.paginate(ctx, result, perPage, 0, decodeRepositories)
}

type repositoryPage struct {
	Items []struct {
		FullName    string    `json:"full_name"`
		Name        string    `json:"name"`
		HTMLURL     string    `json:"html_url"`
		Description string    `json:"description"`
		Language    string    `json:"language"`
		Stars       int       `json:"stargazers_count"`
		Forks       int       `json:"forks_count"`
		Fork        bool      `json:"fork"`
		UpdatedAt   time.Time `json:"updated_at"`
		Owner       struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"items"`
}

func decodeRepositories(body []byte) ([]models.Item, error) {
	var page repositoryPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, err
	}
	items := make([]models.Item, 0, len(page.Items))
	for _, r := range page.Items {
		items = append(items, models.Item{
			ID:        r.FullName,
			Kind:      models.KindRepository,
			Title:     r.Name,
			Owner:     r.Owner.Login,
			URL:       r.HTMLURL,
			Summary:   strings.TrimSpace(r.Description),
			Language:  r.Language,
			Stars:     r.Stars,
			Forks:     r.Forks,
			Fork:      r.Fork,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return items, nil
}
