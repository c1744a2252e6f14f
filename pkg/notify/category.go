package notify

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Priority represents the notification priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Category classifies a notification's purpose and carries the default
// channel set used when a recipient has no explicit preference. Categories
// are immutable once registered and referenced by ID.
type Category struct {
	ID              string   `yaml:"id"`
	Label           string   `yaml:"label"`
	Priority        Priority `yaml:"priority"`
	DefaultChannels Set      `yaml:"-"`
	Active          bool     `yaml:"active"`
}

// DefaultEnabled reports whether the category enables the channel by default.
func (c Category) DefaultEnabled(ch Channel) bool {
	return c.DefaultChannels.Has(ch)
}

// Catalog is a registry of notification categories.
type Catalog struct {
	mu         sync.RWMutex
	categories map[string]Category
}

// NewCatalog creates a catalog pre-populated with the given categories.
func NewCatalog(categories ...Category) (*Catalog, error) {
	c := &Catalog{categories: make(map[string]Category, len(categories))}
	for _, cat := range categories {
		if err := c.Register(cat); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register adds a category to the catalog. Registering the same ID twice is
// an error: categories are immutable once defined.
func (c *Catalog) Register(cat Category) error {
	if cat.ID == "" {
		return fmt.Errorf("%w: empty category id", ErrInvalidCategory)
	}
	switch cat.Priority {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
	case "":
		cat.Priority = PriorityNormal
	default:
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidCategory, cat.Priority)
	}
	for ch := range cat.DefaultChannels {
		if !ch.Valid() {
			return fmt.Errorf("%w: unknown default channel %q", ErrInvalidCategory, ch)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.categories[cat.ID]; exists {
		return fmt.Errorf("%w: %s", ErrCategoryExists, cat.ID)
	}
	c.categories[cat.ID] = cat
	return nil
}

// Get returns the category with the given ID.
func (c *Catalog) Get(id string) (Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cat, ok := c.categories[id]
	if !ok {
		return Category{}, fmt.Errorf("%w: %s", ErrUnknownCategory, id)
	}
	return cat, nil
}

// List returns all registered categories ordered by ID.
func (c *Catalog) List() []Category {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Category, 0, len(c.categories))
	for _, cat := range c.categories {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// catalogFile is the on-disk YAML shape for a category catalog.
type catalogFile struct {
	Categories []struct {
		ID       string    `yaml:"id"`
		Label    string    `yaml:"label"`
		Priority Priority  `yaml:"priority"`
		Channels []Channel `yaml:"channels"`
		Active   *bool     `yaml:"active"`
	} `yaml:"categories"`
}

// LoadCatalog reads a category catalog from YAML. Adding a category is a
// data change, not a schema change. Active defaults to true when omitted.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCategory, err)
	}

	catalog, err := NewCatalog()
	if err != nil {
		return nil, err
	}
	for _, entry := range file.Categories {
		active := true
		if entry.Active != nil {
			active = *entry.Active
		}
		cat := Category{
			ID:              entry.ID,
			Label:           entry.Label,
			Priority:        entry.Priority,
			DefaultChannels: NewSet(entry.Channels...),
			Active:          active,
		}
		if err := catalog.Register(cat); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}
