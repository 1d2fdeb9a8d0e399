package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/jimezsa/ghsearch/internal/cmd"
	"github.com/jimezsa/ghsearch/internal/config"
	"github.com/jimezsa/ghsearch/internal/ui"
	"github.com/joho/godotenv"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	// A .env file in the working directory may carry GITHUB_API_TOKEN.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	cli := cmd.NewCLI()
	versionString := buildVersion()

	parser, err := kong.New(cli,
		kong.Name("ghsearch"),
		kong.Description("Search GitHub repositories and commits within the API rate limit."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": versionString},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		fallbackUI := ui.New(os.Stdout, os.Stderr, ui.NormalizeColorMode(os.Getenv("GHSEARCH_COLOR")), false)
		fallbackUI.Errorf("%v", err)
		os.Exit(1)
	}

	colorMode := ui.NormalizeColorMode(cli.Color)
	disableColor := cli.JSON || cli.Plain
	userInterface := ui.New(os.Stdout, os.Stderr, colorMode, disableColor)

	cfg, err := loadConfig(cli.Config)
	if err != nil {
		userInterface.Errorf("load config: %v", err)
		os.Exit(1)
	}

	configDir, err := config.ConfigDir()
	if err != nil {
		userInterface.Errorf("%v", err)
		os.Exit(1)
	}

	logColor := colorMode != ui.ColorNever && ui.IsTTY(userInterface.ErrOutput)
	logger := ui.NewLogger(os.Stderr, ui.NormalizeLogFormat(cli.LogFormat), cli.Verbose, logColor, uuid.NewString())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runCtx := &cmd.Context{
		Ctx:             ctx,
		Out:             os.Stdout,
		Err:             os.Stderr,
		UI:              userInterface,
		Config:          cfg,
		ConfigDir:       configDir,
		Logger:          logger,
		Verbose:         cli.Verbose,
		JSONOutput:      cli.JSON,
		PlainText:       cli.Plain,
		StrictRateLimit: cli.StrictRateLimit,
		Version:         versionString,
	}

	if err := kctx.Run(runCtx); err != nil {
		userInterface.Errorf("%v", err)
		stop()
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if strings.TrimSpace(path) != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func buildVersion() string {
	if commit == "" && date == "" {
		return version
	}
	if commit == "" {
		return fmt.Sprintf("%s (%s)", version, date)
	}
	if date == "" {
		return fmt.Sprintf("%s (%s)", version, commit)
	}
	return fmt.Sprintf("%s (%s, %s)", version, commit, date)
}
