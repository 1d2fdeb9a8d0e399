package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jimezsa/ghsearch/internal/models"
	"github.com/jimezsa/ghsearch/internal/ui"
	"github.com/muesli/termenv"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "tsv":
		return FormatTSV, nil
	case "table", "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

// WriteItems renders search hits in the requested format.
func WriteItems(w io.Writer, items []models.Item, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, items)
	case FormatCSV:
		return writeCSV(w, items, ',')
	case FormatTSV:
		return writeCSV(w, items, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, items)
	default:
		return writeTable(w, items, opts)
	}
}

func writeJSON(w io.Writer, items []models.Item) error {
	if items == nil {
		items = []models.Item{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

var csvHeader = []string{
	"kind",
	"id",
	"title",
	"owner",
	"url",
	"summary",
	"language",
	"stars",
	"forks",
	"fork",
	"updated_at",
}

func csvRow(item models.Item) []string {
	return []string{
		item.Kind,
		item.ID,
		item.Title,
		item.Owner,
		item.URL,
		item.Summary,
		item.Language,
		strconv.Itoa(item.Stars),
		strconv.Itoa(item.Forks),
		strconv.FormatBool(item.Fork),
		formatTime(item.UpdatedAt),
	}
}

func writeCSV(w io.Writer, items []models.Item, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, item := range items {
		if err := writer.Write(csvRow(item)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, items []models.Item, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "kind\tid\ttitle\tdetail\turl")
	output := termenv.NewOutput(w)
	for _, item := range items {
		fmt.Fprintln(tw, strings.Join(tableRow(item, output, opts), "\t"))
	}
	return tw.Flush()
}

func tableRow(item models.Item, output *termenv.Output, opts WriteOptions) []string {
	link := safe(item.URL)
	display := "-"
	if link != "" {
		display = link
		if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
			display = shortURLLabel(link)
		}
		display = ui.ColorizeLink(output, opts.ColorEnabled, display)
		if opts.Hyperlinks {
			display = hyperlink(link, display)
		}
	}
	id := safe(item.ID)
	if item.Kind == models.KindCommit && len(id) > 7 {
		id = id[:7]
	}
	return []string{safe(item.Kind), id, truncate(safe(item.Title), 60), detail(item), display}
}

// detail is the one-column summary shown in tables.
func detail(item models.Item) string {
	if item.Kind == models.KindCommit {
		return strings.TrimSpace(safe(item.Owner) + " " + safe(item.Summary))
	}
	parts := []string{fmt.Sprintf("★%d", item.Stars)}
	if item.Language != "" {
		parts = append(parts, item.Language)
	}
	if item.Fork {
		parts = append(parts, "fork")
	}
	return strings.Join(parts, " ")
}

func writeMarkdown(w io.Writer, items []models.Item) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	for _, item := range items {
		urlLine := "  URL: -"
		if link := safe(item.URL); link != "" {
			urlLine = fmt.Sprintf("  URL: [Open on GitHub](<%s>)", link)
		}
		lines := []string{
			fmt.Sprintf("- **%s** (%s %s)", safe(item.Title), safe(item.Kind), safe(item.ID)),
			fmt.Sprintf("  Owner: %s", safe(item.Owner)),
			urlLine,
		}
		if item.Summary != "" {
			lines = append(lines, fmt.Sprintf("  Summary: %s", safe(item.Summary)))
		}
		if item.Kind == models.KindRepository {
			lines = append(lines, fmt.Sprintf("  Stars: %d, forks: %d", item.Stars, item.Forks))
			if item.Language != "" {
				lines = append(lines, fmt.Sprintf("  Language: %s", safe(item.Language)))
			}
		}
		if !item.UpdatedAt.IsZero() {
			lines = append(lines, fmt.Sprintf("  Updated: %s", formatTime(item.UpdatedAt)))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func truncate(value string, n int) string {
	runes := []rune(value)
	if len(runes) <= n {
		return value
	}
	return string(runes[:n-3]) + "..."
}

func hyperlink(link string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + link + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil && parsed.Host != "" {
		label = strings.TrimPrefix(parsed.Host, "www.") + parsed.Path
	}
	if label == "" {
		label = raw
	}
	return truncate(label, maxLen)
}
