package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jimezsa/ghsearch/internal/export"
	"github.com/jimezsa/ghsearch/internal/models"
	"github.com/jimezsa/ghsearch/internal/seen"
	"github.com/jimezsa/ghsearch/internal/ui"
	"github.com/muesli/termenv"
)

// OutputOptions control what a search writes besides its logs. Nothing is
// written unless a format, an output file or a global output mode is set.
type OutputOptions struct {
	Format     string `help:"Output format: table, csv, tsv, json, md." enum:",table,csv,tsv,json,md" default:""`
	Links      string `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Output     string `name:"output" short:"o" help:"Write items to a file."`
	Proxies    string `help:"Comma-separated proxy URLs."`
	Seen       string `help:"Path to seen items JSON file."`
	NewOnly    bool   `help:"Output only unseen items (requires --seen)."`
	SeenUpdate bool   `help:"Merge unseen items into the --seen file after the search (requires --seen)."`
}

func (o OutputOptions) validate() error {
	hasSeen := strings.TrimSpace(o.Seen) != ""
	if o.NewOnly && !hasSeen {
		return fmt.Errorf("--new-only requires --seen")
	}
	if o.SeenUpdate && !hasSeen {
		return fmt.Errorf("--seen-update requires --seen")
	}
	if hasSeen && pathsEqual(o.Output, o.Seen) {
		return fmt.Errorf("--output path must differ from --seen")
	}
	return nil
}

func (o OutputOptions) requested(ctx *Context) bool {
	return o.Format != "" || strings.TrimSpace(o.Output) != "" || ctx.JSONOutput || ctx.PlainText
}

// emitItems applies the seen history, writes the requested output and
// returns the items counted as new.
func emitItems(ctx *Context, opts OutputOptions, items []models.Item) ([]models.Item, error) {
	fresh := items
	if strings.TrimSpace(opts.Seen) != "" {
		history, err := seen.ReadItemsAllowMissing(opts.Seen)
		if err != nil {
			return nil, fmt.Errorf("read --seen: %w", err)
		}
		fresh, _ = seen.Diff(items, history)
	}

	if opts.requested(ctx) {
		out := items
		if opts.NewOnly {
			out = fresh
		}
		if err := writeItems(ctx, opts, out); err != nil {
			return nil, err
		}
	}

	if opts.SeenUpdate {
		if err := updateSeenHistory(opts.Seen, fresh); err != nil {
			return nil, err
		}
	}
	return fresh, nil
}

func writeItems(ctx *Context, opts OutputOptions, items []models.Item) error {
	outputPath := strings.TrimSpace(opts.Output)
	format, err := resolveFormat(ctx, opts, outputPath)
	if err != nil {
		return err
	}

	writer := ctx.Out
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled
	hyperlinks := colorEnabled && isTTY(writer)
	linkStyle := export.LinkStyleShort
	if strings.EqualFold(opts.Links, string(export.LinkStyleFull)) {
		linkStyle = export.LinkStyleFull
	}
	return export.WriteItems(writer, items, format, export.WriteOptions{
		ColorEnabled: colorEnabled && outputPath == "",
		Hyperlinks:   hyperlinks,
		LinkStyle:    linkStyle,
	})
}

func resolveFormat(ctx *Context, opts OutputOptions, outputPath string) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if opts.Format != "" {
		return export.ParseFormat(opts.Format)
	}
	if outputPath != "" {
		switch strings.ToLower(filepath.Ext(outputPath)) {
		case ".json":
			return export.FormatJSON, nil
		case ".md":
			return export.FormatMarkdown, nil
		case ".tsv":
			return export.FormatTSV, nil
		default:
			return export.FormatCSV, nil
		}
	}
	if isTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func updateSeenHistory(seenPath string, input []models.Item) error {
	history, err := seen.ReadItemsAllowMissing(seenPath)
	if err != nil {
		return fmt.Errorf("read --seen: %w", err)
	}

	merged, _ := seen.Merge(history, input)
	if err := seen.WriteItems(seenPath, merged); err != nil {
		return fmt.Errorf("write --seen: %w", err)
	}
	return nil
}

func pathsEqual(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil {
		return absA == absB
	}
	return filepath.Clean(a) == filepath.Clean(b)
}

func isTTY(out io.Writer) bool {
	return ui.IsTTY(termenv.NewOutput(out))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
