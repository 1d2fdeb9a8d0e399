package cmd

import (
	"context"
	"io"
	"time"

	"github.com/jimezsa/ghsearch/internal/config"
	"github.com/jimezsa/ghsearch/internal/search"
	"github.com/jimezsa/ghsearch/internal/ui"
	"github.com/rs/zerolog"
)

type Context struct {
	Ctx             context.Context
	Out             io.Writer
	Err             io.Writer
	UI              *ui.UI
	Config          config.Config
	ConfigDir       string
	Logger          zerolog.Logger
	Verbose         bool
	JSONOutput      bool
	PlainText       bool
	StrictRateLimit bool
	Version         string

	// Doer and Sleep replace the network transport and time.Sleep when set.
	Doer  search.Doer
	Sleep func(time.Duration)
}

func (c *Context) context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}
