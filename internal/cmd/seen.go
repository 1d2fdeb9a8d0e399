package cmd

import (
	"fmt"

	"github.com/jimezsa/ghsearch/internal/seen"
)

type SeenCmd struct {
	Diff   SeenDiffCmd   `cmd:"" help:"Write unseen items (A-B) to JSON."`
	Update SeenUpdateCmd `cmd:"" help:"Merge new items into seen history JSON."`
}

type SeenDiffCmd struct {
	New   string `name:"new" required:"" help:"Path to new items JSON file (A)."`
	Seen  string `name:"seen" required:"" help:"Path to seen items JSON file (B). Missing file is treated as empty."`
	Out   string `name:"out" required:"" help:"Output path for unseen items JSON file (C)."`
	Stats bool   `name:"stats" help:"Print comparison stats."`
}

type SeenUpdateCmd struct {
	Seen  string `name:"seen" required:"" help:"Path to seen items JSON file (B). Missing file is treated as empty."`
	Input string `name:"input" required:"" help:"Path to input items JSON file to merge into seen history."`
	Out   string `name:"out" help:"Output path for updated seen items JSON (default: --seen)."`
	Stats bool   `name:"stats" help:"Print merge stats."`
}

func (c *SeenDiffCmd) Run(ctx *Context) error {
	fresh, err := seen.ReadItems(c.New)
	if err != nil {
		return fmt.Errorf("read --new: %w", err)
	}
	history, err := seen.ReadItemsAllowMissing(c.Seen)
	if err != nil {
		return fmt.Errorf("read --seen: %w", err)
	}

	unseen, stats := seen.Diff(fresh, history)
	if err := seen.WriteItems(c.Out, unseen); err != nil {
		return fmt.Errorf("write --out: %w", err)
	}

	if !c.Stats {
		return nil
	}
	_, err = fmt.Fprintf(ctx.Out, "total_new=%d total_seen=%d invalid_skipped=%d unseen_emitted=%d\n",
		stats.TotalNew, stats.TotalSeen, stats.InvalidSkipped(), stats.Unseen)
	return err
}

func (c *SeenUpdateCmd) Run(ctx *Context) error {
	history, err := seen.ReadItemsAllowMissing(c.Seen)
	if err != nil {
		return fmt.Errorf("read --seen: %w", err)
	}
	input, err := seen.ReadItems(c.Input)
	if err != nil {
		return fmt.Errorf("read --input: %w", err)
	}

	out := c.Out
	if out == "" {
		out = c.Seen
	}
	merged, stats := seen.Merge(history, input)
	if err := seen.WriteItems(out, merged); err != nil {
		return fmt.Errorf("write --out: %w", err)
	}

	if !c.Stats {
		return nil
	}
	_, err = fmt.Fprintf(ctx.Out, "total_seen=%d total_input=%d invalid_skipped=%d added=%d total_out=%d\n",
		stats.TotalSeen, stats.TotalInput, stats.InvalidSkipped(), stats.Added, stats.TotalOut)
	return err
}
