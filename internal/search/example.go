package search

import "context"

// ExampleReport collects what RunExample did.
type ExampleReport struct {
	Authenticated bool
	Repositories  *Result
	Commits       *Result
	Contents      *ContentResult
}

// Example parameters of the demo run.
var (
	ExampleRepositories = RepositoryOptions{Keyword: "django-blog", Language: "python", Fork: "only", PerPage: 10}
	ExampleCommits      = CommitOptions{Keyword: DefaultCommitKeyword, PerPage: 10}
	ExampleContents     = ContentOptions{Owner: "zakirovtech", Repo: "zakirovtech", Path: "README.md"}
)

// RunExample authenticates, then runs a repository search, a commit search
// and a contents fetch in sequence. A search that stops early does not stop
// the next step; a failed authentication skips all of them.
func (c *Client) RunExample(ctx context.Context) (*ExampleReport, error) {
	report := &ExampleReport{}

	ok, err := c.Authenticate(ctx)
	if err != nil {
		return report, err
	}
	report.Authenticated = ok
	if !ok {
		return report, nil
	}

	if report.Repositories, err = c.SearchRepositories(ctx, ExampleRepositories); err != nil {
		return report, err
	}
	if report.Commits, err = c.SearchCommits(ctx, ExampleCommits); err != nil {
		return report, err
	}
	if report.Contents, err = c.FetchContents(ctx, ExampleContents); err != nil {
		return report, err
	}
	return report, nil
}
