package item

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
)

//go:embed data/items.json
var defaultCatalog []byte

// Record is one raw catalog entry. Pointer fields distinguish missing keys.
type Record struct {
	Name        *string `json:"name"`
	Effect      *string `json:"effect"`
	Power       *int    `json:"power"`
	Quantity    *int    `json:"quantity"`
	Level       *int    `json:"level"`
	AttackBonus int     `json:"attack_bonus"`
	Boost       int     `json:"boost"`
}

// FromRecord validates a record and builds an Item from it.
func FromRecord(r Record) (Item, error) {
	if r.Name == nil || strings.TrimSpace(*r.Name) == "" {
		return Item{}, shellerrors.New(shellerrors.CodeDataIntegrity, "item record has no name")
	}
	name := *r.Name
	if r.Effect == nil || r.Power == nil {
		return Item{}, integrity(name, "missing effect or power")
	}
	effect, err := ParseEffect(*r.Effect)
	if err != nil {
		return Item{}, shellerrors.Wrap(shellerrors.CodeDataIntegrity, "item "+name, err)
	}
	it := Item{
		Name:        name,
		Effect:      effect,
		Power:       *r.Power,
		Quantity:    1,
		Level:       1,
		AttackBonus: r.AttackBonus,
		Boost:       r.Boost,
	}
	if r.Quantity != nil {
		it.Quantity = *r.Quantity
	}
	if r.Level != nil {
		it.Level = *r.Level
	}
	if it.Quantity < 0 || it.Level < 1 || it.Power < 0 {
		return Item{}, integrity(name, "negative quantity or power, or level below 1")
	}
	return it, nil
}

// Catalog is an ordered, name-indexed set of item templates.
type Catalog struct {
	items []Item
	index map[string]int
}

// NewCatalog builds a catalog. Later duplicates of a name are ignored.
func NewCatalog(items []Item) *Catalog {
	c := &Catalog{index: make(map[string]int, len(items))}
	for _, it := range items {
		if _, dup := c.index[it.Name]; dup {
			continue
		}
		c.index[it.Name] = len(c.items)
		c.items = append(c.items, it)
	}
	return c
}

// DecodeCatalog reads a JSON array of item records. Malformed records are
// skipped and returned as non-fatal errors; only unreadable input is fatal.
func DecodeCatalog(r io.Reader) (*Catalog, []error, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, nil, shellerrors.Wrap(shellerrors.CodeDataIntegrity, "decode item catalog", err)
	}
	var (
		items   []Item
		skipped []error
	)
	for i, msg := range raw {
		var rec Record
		if err := json.Unmarshal(msg, &rec); err != nil {
			skipped = append(skipped, fmt.Errorf("item record %d: %w",
				i, shellerrors.Wrap(shellerrors.CodeDataIntegrity, "malformed record", err)))
			continue
		}
		it, err := FromRecord(rec)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("item record %d: %w", i, err))
			continue
		}
		items = append(items, it)
	}
	return NewCatalog(items), skipped, nil
}

// DefaultCatalog decodes the embedded item catalog.
func DefaultCatalog() (*Catalog, []error, error) {
	return DecodeCatalog(bytes.NewReader(defaultCatalog))
}

// Len returns the number of templates.
func (c *Catalog) Len() int { return len(c.items) }

// All returns copies of every template in catalog order.
func (c *Catalog) All() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns a copy of the named template.
func (c *Catalog) Get(name string) (Item, bool) {
	i, ok := c.index[name]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// WithinLevel returns copies of templates whose level is within spread of level.
func (c *Catalog) WithinLevel(level, spread int) []Item {
	var out []Item
	for _, it := range c.items {
		d := it.Level - level
		if d >= -spread && d <= spread {
			out = append(out, it)
		}
	}
	return out
}

func integrity(name, msg string) error {
	return shellerrors.WithMetadata(shellerrors.CodeDataIntegrity, "item "+name+": "+msg,
		map[string]string{"item": name})
}
