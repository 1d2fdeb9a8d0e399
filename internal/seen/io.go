package seen

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jimezsa/ghsearch/internal/models"
)

// ReadItems reads a JSON array of items from path.
func ReadItems(path string) ([]models.Item, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []models.Item{}, nil
	}

	var items []models.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

// ReadItemsAllowMissing treats a missing file as an empty history.
func ReadItemsAllowMissing(path string) ([]models.Item, error) {
	items, err := ReadItems(path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Item{}, nil
	}
	return items, err
}

func WriteItems(path string, items []models.Item) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is required")
	}
	if items == nil {
		items = []models.Item{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
