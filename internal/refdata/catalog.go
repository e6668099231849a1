// Package refdata loads the bundled Data Dragon reference documents and
// resolves raw content ids (items, summoner spells, runes) to display names.
package refdata

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/scrimstats/go-scrim-stats/internal/model"
)

//go:embed data/item.json data/summoner.json data/runesReforged.json
var dataFS embed.FS

// Item is the subset of the item document this tool cares about.
type Item struct {
	Name        string
	Description string
	Cost        int
	Tags        []string
}

// Catalog is an immutable id→name lookup service built once at startup and
// passed by reference. Unknown ids resolve to a nil name, never an error, so
// newly released content degrades gracefully.
type Catalog struct {
	version    string
	items      map[string]Item
	spells     map[string]string // summoner spell key → name
	runeStyles map[string]string // style id → name
	runes      map[string]string // rune id → name
}

type itemDoc struct {
	Version string `json:"version"`
	Data    map[string]struct {
		Name      string `json:"name"`
		Plaintext string `json:"plaintext"`
		Gold      struct {
			Total int `json:"total"`
		} `json:"gold"`
		Tags []string `json:"tags"`
	} `json:"data"`
}

type summonerDoc struct {
	Version string `json:"version"`
	Data    map[string]struct {
		Name string `json:"name"`
		Key  string `json:"key"`
	} `json:"data"`
}

type runeStyleDoc struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Slots []struct {
		Runes []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"runes"`
	} `json:"slots"`
}

// NewCatalog decodes the three embedded documents into lookup tables.
func NewCatalog() (*Catalog, error) {
	c := &Catalog{
		items:      make(map[string]Item),
		spells:     make(map[string]string),
		runeStyles: make(map[string]string),
		runes:      make(map[string]string),
	}

	var items itemDoc
	if err := decodeEmbedded("data/item.json", &items); err != nil {
		return nil, err
	}
	c.version = items.Version
	for id, it := range items.Data {
		c.items[id] = Item{
			Name:        it.Name,
			Description: it.Plaintext,
			Cost:        it.Gold.Total,
			Tags:        it.Tags,
		}
	}

	var spells summonerDoc
	if err := decodeEmbedded("data/summoner.json", &spells); err != nil {
		return nil, err
	}
	for _, sp := range spells.Data {
		c.spells[sp.Key] = sp.Name
	}

	var styles []runeStyleDoc
	if err := decodeEmbedded("data/runesReforged.json", &styles); err != nil {
		return nil, err
	}
	for _, style := range styles {
		c.runeStyles[itoa(style.ID)] = style.Name
		for _, slot := range style.Slots {
			for _, r := range slot.Runes {
				c.runes[itoa(r.ID)] = r.Name
			}
		}
	}

	return c, nil
}

func decodeEmbedded(name string, v any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func itoa(n int) string { return fmt.Sprintf("%d", n) }

// Version reports the Data Dragon version of the bundled documents.
func (c *Catalog) Version() string { return c.version }

// Item resolves an item id. Id "0" is an empty slot and resolves to nil.
func (c *Catalog) Item(id string) model.RefValue {
	if id == "0" {
		return model.RefValue{ID: id}
	}
	if it, ok := c.items[id]; ok {
		return model.RefValue{ID: id, Name: &it.Name}
	}
	return model.RefValue{ID: id}
}

// ItemInfo returns the full bundled record for an item id.
func (c *Catalog) ItemInfo(id string) (Item, bool) {
	it, ok := c.items[id]
	return it, ok
}

// SummonerSpell resolves a summoner spell by its numeric key.
func (c *Catalog) SummonerSpell(key string) model.RefValue {
	return c.lookup(c.spells, key)
}

// RuneStyle resolves a rune style (tree) id.
func (c *Catalog) RuneStyle(id string) model.RefValue {
	return c.lookup(c.runeStyles, id)
}

// Rune resolves an individual rune id.
func (c *Catalog) Rune(id string) model.RefValue {
	return c.lookup(c.runes, id)
}

func (c *Catalog) lookup(table map[string]string, id string) model.RefValue {
	if name, ok := table[id]; ok {
		return model.RefValue{ID: id, Name: &name}
	}
	return model.RefValue{ID: id}
}
