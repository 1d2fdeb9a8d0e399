package cmd

import "github.com/alecthomas/kong"

type CLI struct {
	Color           string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto" env:"GHSEARCH_COLOR"`
	JSON            bool   `help:"JSON output to stdout; disables colors." env:"GHSEARCH_JSON"`
	Plain           bool   `help:"TSV output to stdout; disables colors."`
	Verbose         bool   `help:"Enable debug logging (response bodies)." env:"GHSEARCH_VERBOSE"`
	LogFormat       string `help:"Log format on stderr: console or json." enum:"console,json" default:"console" env:"GHSEARCH_LOG_FORMAT"`
	Config          string `help:"Path to config file (default: user config dir)." type:"path"`
	StrictRateLimit bool   `help:"Abort instead of proceeding when the rate limit cannot be read."`

	VersionFlag kong.VersionFlag `name:"version" help:"Print version."`

	Version   VersionCmd   `cmd:"" help:"Print version."`
	ConfigCmd ConfigCmd    `cmd:"" name:"config" help:"Manage configuration."`
	Auth      AuthCmd      `cmd:"" help:"Check the GitHub token."`
	RateLimit RateLimitCmd `cmd:"" name:"rate-limit" help:"Show the search rate limit."`
	Repos     ReposCmd     `cmd:"" help:"Search repositories."`
	Commits   CommitsCmd   `cmd:"" help:"Search commits."`
	Contents  ContentsCmd  `cmd:"" help:"Fetch a file or directory from a repository."`
	Example   ExampleCmd   `cmd:"" help:"Run the demo flow: auth, repository search, commit search, contents."`
	Seen      SeenCmd      `cmd:"" help:"Seen items utilities."`
	Proxies   ProxiesCmd   `cmd:"" help:"Proxy utilities."`
}

func NewCLI() *CLI {
	return &CLI{}
}
