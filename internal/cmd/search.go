package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jimezsa/ghsearch/internal/models"
	"github.com/jimezsa/ghsearch/internal/search"
)

type ReposCmd struct {
	Keyword  string `arg:"" help:"Search keyword."`
	User     string `help:"Only repositories owned by this user or organisation."`
	Language string `help:"Only repositories in this language."`
	Fork     string `help:"Fork filter: true, false, only." enum:"true,false,only" default:"false"`
	Sort     string `help:"Sort by stars, forks, help-wanted-issues or updated." enum:"stars,forks,help-wanted-issues,updated" default:"stars"`
	Order    string `help:"Sort order." enum:"asc,desc" default:"asc"`
	PerPage  int    `help:"Results per page, 1-100 (default: config per_page)."`
	OutputOptions
}

func (r *ReposCmd) Run(ctx *Context) error {
	return runSearch(ctx, r.OutputOptions, func(client *search.Client) (*search.Result, error) {
		return client.SearchRepositories(ctx.context(), search.RepositoryOptions{
			Keyword:  r.Keyword,
			User:     r.User,
			Language: r.Language,
			Fork:     r.Fork,
			Sort:     r.Sort,
			Order:    r.Order,
			PerPage:  r.PerPage,
		})
	})
}

type CommitsCmd struct {
	Keyword   string `arg:"" optional:"" help:"Search keyword (default: Initial)."`
	User      string `help:"Only commits in repositories of this user."`
	Author    string `help:"Only commits authored by this login."`
	Committer string `help:"Only commits committed by this login."`
	Repo      string `help:"Only commits in this owner/repo."`
	Fork      string `help:"Fork filter: true, false, only." enum:",true,false,only" default:""`
	Sort      string `help:"Sort by author-date or committer-date." enum:",author-date,committer-date" default:""`
	Order     string `help:"Sort order." enum:"asc,desc" default:"asc"`
	PerPage   int    `help:"Results per page, 1-100 (default: config per_page)."`
	OutputOptions
}

func (c *CommitsCmd) Run(ctx *Context) error {
	return runSearch(ctx, c.OutputOptions, func(client *search.Client) (*search.Result, error) {
		return client.SearchCommits(ctx.context(), search.CommitOptions{
			Keyword:   c.Keyword,
			User:      c.User,
			Author:    c.Author,
			Committer: c.Committer,
			Repo:      c.Repo,
			Fork:      c.Fork,
			Sort:      c.Sort,
			Order:     c.Order,
			PerPage:   c.PerPage,
		})
	})
}

func runSearch(ctx *Context, opts OutputOptions, run func(*search.Client) (*search.Result, error)) error {
	if err := opts.validate(); err != nil {
		return err
	}

	client, err := ctx.searchClient(opts.Proxies)
	if err != nil {
		return err
	}

	result, err := run(client)
	if err != nil {
		return err
	}

	fresh, err := emitItems(ctx, opts, result.Items)
	if err != nil {
		return err
	}

	printSearchSummary(ctx, result, len(fresh), strings.TrimSpace(opts.Seen) != "")
	reportSearchStop(ctx, result)
	return nil
}

func reportSearchStop(ctx *Context, result *search.Result) {
	if ctx == nil || ctx.UI == nil {
		return
	}
	if !ctx.Verbose || !result.Aborted() {
		return
	}

	ctx.UI.Warnf("%s search stopped at page %d/%d: %s",
		result.Kind, result.Fetched+1, result.Pages, search.Classify(result.AbortStatus).Message)
	ctx.UI.Warnf("  query: %s", result.Query)
}

func printSearchSummary(ctx *Context, result *search.Result, fresh int, withSeen bool) {
	if ctx == nil || ctx.Err == nil {
		return
	}
	_, _ = fmt.Fprintln(ctx.Err, formatSearchSummary(result, fresh, withSeen))
}

func formatSearchSummary(result *search.Result, fresh int, withSeen bool) string {
	parts := []string{
		"summary:",
		"kind=" + result.Kind,
		fmt.Sprintf("pages=%d/%d", result.Fetched, result.Pages),
		fmt.Sprintf("items=%d", len(result.Items)),
	}
	if withSeen {
		parts = append(parts, fmt.Sprintf("new_items=%d", fresh))
	}
	if result.Aborted() {
		parts = append(parts, fmt.Sprintf("stopped=%d", result.AbortStatus))
	}
	return strings.Join(parts, " ")
}

type ContentsCmd struct {
	Owner   string `arg:"" help:"Repository owner."`
	Repo    string `arg:"" help:"Repository name."`
	Path    string `arg:"" optional:"" help:"Path inside the repository (default: root)."`
	Ref     string `help:"Branch, tag or commit (default: the default branch)."`
	Media   string `help:"Response media: json (decoded), raw or html (rendered, reduced to text)." enum:"json,raw,html" default:"json"`
	Output  string `name:"output" short:"o" help:"Write the content to a file."`
	Proxies string `help:"Comma-separated proxy URLs."`
}

func (c *ContentsCmd) Run(ctx *Context) error {
	client, err := ctx.searchClient(c.Proxies)
	if err != nil {
		return err
	}

	result, err := client.FetchContents(ctx.context(), search.ContentOptions{
		Owner: c.Owner,
		Repo:  c.Repo,
		Path:  c.Path,
		Ref:   c.Ref,
		Media: c.Media,
	})
	if err != nil {
		return err
	}
	if result.Content == nil {
		ctx.UI.Warnf("contents unavailable (status %d), check logs", result.AbortStatus)
		return nil
	}
	return writeContent(ctx, c.Output, result.Content)
}

func writeContent(ctx *Context, outputPath string, content *models.FileContent) error {
	if strings.TrimSpace(outputPath) != "" {
		if content.Type == "dir" {
			return fmt.Errorf("%s is a directory", content.Path)
		}
		return os.WriteFile(outputPath, []byte(content.Content), 0o644)
	}

	if ctx.JSONOutput {
		return writeJSON(ctx.Out, content)
	}
	if content.Type == "dir" {
		for _, entry := range content.Entries {
			if _, err := fmt.Fprintf(ctx.Out, "%s\t%d\t%s\n", entry.Type, entry.Size, entry.Path); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := fmt.Fprint(ctx.Out, content.Content)
	if err == nil && !strings.HasSuffix(content.Content, "\n") {
		_, err = fmt.Fprintln(ctx.Out)
	}
	return err
}

type ExampleCmd struct {
	Proxies string `help:"Comma-separated proxy URLs."`
}

func (e *ExampleCmd) Run(ctx *Context) error {
	client, err := ctx.searchClient(e.Proxies)
	if err != nil {
		return err
	}

	report, err := client.RunExample(ctx.context())
	if err != nil {
		return err
	}
	if !report.Authenticated {
		ctx.UI.Warnf("authentication failed, nothing searched")
		return nil
	}
	for _, result := range []*search.Result{report.Repositories, report.Commits} {
		if result != nil {
			printSearchSummary(ctx, result, 0, false)
			reportSearchStop(ctx, result)
		}
	}
	if report.Contents != nil && report.Contents.Content != nil {
		ctx.UI.Infof("fetched %s (%d bytes)", report.Contents.URL, len(report.Contents.Content.Content))
	}
	return nil
}
