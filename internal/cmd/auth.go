package cmd

import (
	"fmt"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/ghsearch/internal/search"
)

type AuthCmd struct {
	Proxies string `help:"Comma-separated proxy URLs."`
}

func (a *AuthCmd) Run(ctx *Context) error {
	client, err := ctx.searchClient(a.Proxies)
	if err != nil {
		return err
	}

	login, status, err := client.User(ctx.context())
	if err != nil {
		return err
	}
	if status != fhttp.StatusOK {
		return fmt.Errorf("authentication failed: %s", search.Classify(status).Message)
	}
	ctx.UI.Successf("Authenticated as %s", login)
	return nil
}

type RateLimitCmd struct {
	Proxies string `help:"Comma-separated proxy URLs."`
}

type rateLimitView struct {
	Resource  string    `json:"resource"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Used      int       `json:"used"`
	Reset     time.Time `json:"reset"`
}

func (r *RateLimitCmd) Run(ctx *Context) error {
	client, err := ctx.searchClient(r.Proxies)
	if err != nil {
		return err
	}

	bucket, err := client.RateLimit(ctx.context())
	if err != nil {
		return fmt.Errorf("read rate limit: %w", err)
	}

	view := rateLimitView{
		Resource:  "search",
		Limit:     bucket.Limit,
		Remaining: bucket.Remaining,
		Used:      bucket.Used,
		Reset:     bucket.ResetTime().UTC(),
	}
	switch {
	case ctx.JSONOutput:
		return writeJSON(ctx.Out, view)
	case ctx.PlainText:
		_, err := fmt.Fprintf(ctx.Out, "%s\t%d\t%d\t%d\t%s\n",
			view.Resource, view.Limit, view.Remaining, view.Used, view.Reset.Format(time.RFC3339))
		return err
	default:
		ctx.UI.Infof("search: %d/%d remaining, resets at %s",
			view.Remaining, view.Limit, view.Reset.Local().Format(time.Kitchen))
		return nil
	}
}
