package seen

import (
	"strings"

	"github.com/jimezsa/ghsearch/internal/models"
)

const keySeparator = "::"

// DiffStats captures stats for A-B unseen filtering.
type DiffStats struct {
	TotalNew    int
	TotalSeen   int
	InvalidNew  int
	InvalidSeen int
	Unseen      int
}

func (s DiffStats) InvalidSkipped() int {
	return s.InvalidNew + s.InvalidSeen
}

// MergeStats captures stats for seen history updates.
type MergeStats struct {
	TotalSeen    int
	TotalInput   int
	InvalidSeen  int
	InvalidInput int
	Added        int
	TotalOut     int
}

func (s MergeStats) InvalidSkipped() int {
	return s.InvalidSeen + s.InvalidInput
}

// Normalize lowercases value and collapses whitespace.
func Normalize(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), " ")
}

// Key identifies an item by kind and ID. GitHub treats repository names
// case-insensitively, so both parts are normalised.
func Key(item models.Item) (string, bool) {
	kind := Normalize(item.Kind)
	id := Normalize(item.ID)
	if kind == "" || id == "" {
		return "", false
	}
	return kind + keySeparator + id, true
}

// Diff returns the items of fresh whose keys are not in history. Duplicates
// within fresh are emitted once.
func Diff(fresh []models.Item, history []models.Item) ([]models.Item, DiffStats) {
	stats := DiffStats{TotalNew: len(fresh), TotalSeen: len(history)}

	known := make(map[string]struct{}, len(history))
	for _, item := range history {
		key, ok := Key(item)
		if !ok {
			stats.InvalidSeen++
			continue
		}
		known[key] = struct{}{}
	}

	emitted := make(map[string]struct{}, len(fresh))
	unseen := make([]models.Item, 0, len(fresh))
	for _, item := range fresh {
		key, ok := Key(item)
		if !ok {
			stats.InvalidNew++
			continue
		}
		if _, dup := emitted[key]; dup {
			continue
		}
		emitted[key] = struct{}{}
		if _, exists := known[key]; exists {
			continue
		}
		unseen = append(unseen, item)
	}

	stats.Unseen = len(unseen)
	return unseen, stats
}

// Merge appends unseen input items to history. Existing entries win
// collisions; invalid history entries are kept, invalid input is dropped.
func Merge(history []models.Item, input []models.Item) ([]models.Item, MergeStats) {
	stats := MergeStats{TotalSeen: len(history), TotalInput: len(input)}

	keys := make(map[string]struct{}, len(history)+len(input))
	out := make([]models.Item, 0, len(history)+len(input))

	for _, item := range history {
		key, ok := Key(item)
		if !ok {
			stats.InvalidSeen++
			out = append(out, item)
			continue
		}
		if _, exists := keys[key]; exists {
			continue
		}
		keys[key] = struct{}{}
		out = append(out, item)
	}

	for _, item := range input {
		key, ok := Key(item)
		if !ok {
			stats.InvalidInput++
			continue
		}
		if _, exists := keys[key]; exists {
			continue
		}
		keys[key] = struct{}{}
		out = append(out, item)
		stats.Added++
	}

	stats.TotalOut = len(out)
	return out, stats
}
