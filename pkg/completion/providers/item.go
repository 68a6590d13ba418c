package providers

import (
	"sort"
	"strings"
)

// CompletionItem represents a single completion suggestion
type CompletionItem struct {
	Label         string `json:"label"`
	Kind          string `json:"kind"`
	Detail        string `json:"detail,omitempty"`
	Documentation string `json:"documentation,omitempty"`
}

// collector keeps the first item per key whose label starts with prefix,
// ignoring case.
type collector struct {
	prefix string
	seen   map[string]bool
	items  []CompletionItem
}

func newCollector(prefix string) *collector {
	return &collector{prefix: strings.ToLower(prefix), seen: map[string]bool{}}
}

func (c *collector) add(key string, item CompletionItem) bool {
	if c.seen[key] || !strings.HasPrefix(strings.ToLower(item.Label), c.prefix) {
		return false
	}
	c.seen[key] = true
	c.items = append(c.items, item)
	return true
}

func (c *collector) sorted() []CompletionItem {
	sort.SliceStable(c.items, func(i, j int) bool {
		return c.items[i].Label < c.items[j].Label
	})
	return c.items
}
