package cmd

import (
	"fmt"
	"strings"

	"github.com/jimezsa/ghsearch/internal/config"
)

type ConfigCmd struct {
	Init InitConfigCmd `cmd:"" help:"Write default config and proxies files."`
	Path PathConfigCmd `cmd:"" help:"Print config directory."`
	Show ShowConfigCmd `cmd:"" help:"Print the effective configuration."`
}

type InitConfigCmd struct{}

type PathConfigCmd struct{}

type ShowConfigCmd struct{}

func (c *InitConfigCmd) Run(ctx *Context) error {
	paths, err := config.Init()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		ctx.UI.Infof("Config already initialized at %s", ctx.ConfigDir)
		return nil
	}
	ctx.UI.Successf("Created: %s", strings.Join(paths, ", "))
	return nil
}

func (c *PathConfigCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintln(ctx.Out, ctx.ConfigDir)
	return err
}

func (c *ShowConfigCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	if ctx.StrictRateLimit {
		cfg.FailOpen = false
	}
	if ctx.JSONOutput {
		return writeJSON(ctx.Out, cfg)
	}
	rows := [][2]string{
		{"base_url", cfg.BaseURL},
		{"per_page", fmt.Sprint(cfg.PerPage)},
		{"rate_limit_retries", fmt.Sprint(cfg.RateLimitRetries)},
		{"retry_delay", cfg.RetryDelay().String()},
		{"commit_delay", cfg.CommitDelay().String()},
		{"timeout", cfg.Timeout().String()},
		{"fail_open", fmt.Sprint(cfg.FailOpen)},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(ctx.Out, "%s\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return nil
}
