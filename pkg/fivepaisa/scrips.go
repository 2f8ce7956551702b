package fivepaisa

import (
	"encoding/csv"
	"fmt"
	"os"
)

// LoadScripMap reads a two-column CSV of symbol,scrip-code pairs and
// installs it as the client's lookup table. The history endpoint only
// accepts numeric scrip codes, so the map must be loaded before Fetch.
func (c *Client) LoadScripMap(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open scrip map: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // source files sometimes carry trailing columns

	records, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("parse scrip map %s: %w", path, err)
	}

	scrips := make(map[string]string, len(records))
	for i, row := range records {
		if len(row) < 2 {
			return fmt.Errorf("parse scrip map %s: row %d has %d columns, want 2", path, i+1, len(row))
		}
		scrips[row[0]] = row[1]
	}

	c.scrips = scrips
	return nil
}
