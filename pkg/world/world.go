package world

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Character is an NPC the player can embody for a quest.
// HasPuzzle is not part of the catalog payload; it is resolved
// on demand through the /check-puzzle endpoint.
type Character struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	HasPuzzle   bool   `json:"-"`
}

// Town is a settlement inside a kingdom.
type Town struct {
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	NPCs        map[string]Character `json:"npcs,omitempty"` // Character key → data
}

// Kingdom is a realm inside a world.
type Kingdom struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Towns       map[string]Town `json:"towns,omitempty"` // Town key → data
}

// World is the top of the containment tree. The client never mutates
// the tree; it only navigates it.
type World struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Kingdoms    map[string]Kingdom `json:"kingdoms,omitempty"` // Kingdom key → data
}

// Catalog is the full set of worlds returned by /world-info.
type Catalog struct {
	Worlds map[string]World `json:"worlds"`
}

// ErrEmptyCatalog indicates the backend answered without any worlds.
// Distinct from a decode failure: the response was well-formed JSON
// but carried no catalog.
var ErrEmptyCatalog = fmt.Errorf("world catalog is empty")

// DecodeCatalog parses a /world-info response body. The modern form is
// {"worlds":{...}}; some legacy backends return a bare single world
// object, which is normalized into a one-entry catalog keyed by name.
func DecodeCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse world catalog: %w", err)
	}
	if len(c.Worlds) > 0 {
		return &c, nil
	}

	// Legacy form: a single world at the top level.
	var w World
	if err := json.Unmarshal(data, &w); err == nil && w.Name != "" {
		return &Catalog{Worlds: map[string]World{w.Name: w}}, nil
	}
	return nil, ErrEmptyCatalog
}

// SortedWorlds returns the catalog's worlds ordered by name, for
// deterministic option lists.
func (c *Catalog) SortedWorlds() []World {
	worlds := make([]World, 0, len(c.Worlds))
	for _, w := range c.Worlds {
		worlds = append(worlds, w)
	}
	sort.Slice(worlds, func(i, j int) bool { return worlds[i].Name < worlds[j].Name })
	return worlds
}

// SortedKingdoms returns the world's kingdoms ordered by name.
func (w World) SortedKingdoms() []Kingdom {
	kingdoms := make([]Kingdom, 0, len(w.Kingdoms))
	for _, k := range w.Kingdoms {
		kingdoms = append(kingdoms, k)
	}
	sort.Slice(kingdoms, func(i, j int) bool { return kingdoms[i].Name < kingdoms[j].Name })
	return kingdoms
}

// SortedTowns returns the kingdom's towns ordered by name.
func (k Kingdom) SortedTowns() []Town {
	towns := make([]Town, 0, len(k.Towns))
	for _, t := range k.Towns {
		towns = append(towns, t)
	}
	sort.Slice(towns, func(i, j int) bool { return towns[i].Name < towns[j].Name })
	return towns
}

// SortedCharacters returns the town's characters ordered by name.
func (t Town) SortedCharacters() []Character {
	chars := make([]Character, 0, len(t.NPCs))
	for _, c := range t.NPCs {
		chars = append(chars, c)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i].Name < chars[j].Name })
	return chars
}
