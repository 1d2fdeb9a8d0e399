package cmd

import (
	"strings"
	"time"

	"github.com/jimezsa/ghsearch/internal/config"
	"github.com/jimezsa/ghsearch/internal/network"
	"github.com/jimezsa/ghsearch/internal/search"
)

const proxyBanDuration = 10 * time.Minute

// Settings maps the loaded config onto client settings. strict turns off
// fail-open rate-limit handling.
func Settings(cfg config.Config, strict bool) search.Settings {
	return search.Settings{
		BaseURL:          cfg.BaseURL,
		PerPage:          cfg.PerPage,
		RateLimitRetries: cfg.RateLimitRetries,
		RetryDelay:       cfg.RetryDelay(),
		CommitDelay:      cfg.CommitDelay(),
		FailOpen:         cfg.FailOpen && !strict,
	}
}

func userAgent(version string) string {
	fields := strings.Fields(version)
	if len(fields) == 0 {
		return "ghsearch"
	}
	return "ghsearch/" + fields[0]
}

func (c *Context) searchClient(proxies string) (*search.Client, error) {
	tokens, err := config.TokenSource()
	if err != nil {
		return nil, err
	}

	doer := c.Doer
	if doer == nil {
		transport, err := newTransport(c, proxies)
		if err != nil {
			return nil, err
		}
		doer = transport
	}

	opts := []search.Option{search.WithLogger(c.Logger)}
	if c.Sleep != nil {
		opts = append(opts, search.WithSleep(c.Sleep))
	}
	return search.New(doer, tokens, Settings(c.Config, c.StrictRateLimit), opts...), nil
}

func newTransport(ctx *Context, proxyFlag string) (*network.Client, error) {
	proxies, err := config.LoadProxies(proxyFlag)
	if err != nil {
		return nil, err
	}

	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, proxyBanDuration)
		if err != nil {
			return nil, err
		}
		ctx.Logger.Debug().Int("proxies", rotator.Len()).Msg("proxy rotation enabled")
	}

	return network.NewClient(rotator, network.Options{
		Timeout:   ctx.Config.Timeout(),
		UserAgent: userAgent(ctx.Version),
	})
}
