package resstock

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// Upgrade is one retrofit scenario from the static upgrades lookup file.
type Upgrade struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// LoadUpgrades reads the upgrades lookup JSON (a map of upgrade id to display
// name) and returns the upgrades sorted by id. The file is static reference
// data and is never written by the pipeline.
func LoadUpgrades(path string) ([]Upgrade, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read upgrades lookup: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse upgrades lookup: %w", err)
	}

	upgrades := make([]Upgrade, 0, len(raw))
	for k, name := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("upgrade id %q is not numeric", k)
		}
		upgrades = append(upgrades, Upgrade{ID: id, Name: name})
	}
	sort.Slice(upgrades, func(i, j int) bool { return upgrades[i].ID < upgrades[j].ID })
	return upgrades, nil
}

// UpgradeIDs returns just the ids, in ascending order.
func UpgradeIDs(upgrades []Upgrade) []int {
	ids := make([]int, len(upgrades))
	for i, u := range upgrades {
		ids[i] = u.ID
	}
	return ids
}
