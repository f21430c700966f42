// Package resource holds the process-wide table of display strings used
// while building charts, such as the label for empty category values.
package resource

import (
	"sort"
	"sync"

	"github.com/dbsmedya/crmchart/internal/types"
)

// Well-known resource keys.
const (
	NoValueLabel = "Chart_NoValueLabel"
	TotalLabel   = "Chart_TotalLabel"
)

var defaults = map[string]string{
	NoValueLabel: "(blank)",
	TotalLabel:   "Total",
}

// Table is a set of resource strings with overrides layered over defaults.
// It is safe for concurrent use.
type Table struct {
	mu        sync.RWMutex
	overrides map[string]string
}

// NewTable creates a table holding only the defaults.
func NewTable() *Table {
	return &Table{overrides: make(map[string]string)}
}

// Default is the process-wide table.
var Default = NewTable()

// Update merges overrides into the table. Later updates win.
func (t *Table) Update(overrides map[string]string) {
	if len(overrides) == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, v := range overrides {
		t.overrides[k] = v
	}
}

// Get returns the string for key: an override, else the default, else the
// key itself.
func (t *Table) Get(key string) string {
	t.mu.RLock()
	v, ok := t.overrides[key]
	t.mu.RUnlock()
	if ok {
		return v
	}
	if v, ok := defaults[key]; ok {
		return v
	}
	return key
}

// Keys returns every key with a value, sorted.
func (t *Table) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	seen := make(map[string]bool, len(defaults)+len(t.overrides))
	for k := range defaults {
		seen[k] = true
	}
	for k := range t.overrides {
		seen[k] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Reset drops all overrides.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.overrides = make(map[string]string)
}

// ParseOverrides decodes serialized overrides: a JSON object of key to
// value. Non-string values are stringified. An empty string yields nil.
func ParseOverrides(raw string) (map[string]string, error) {
	if raw == "" {
		return nil, nil
	}

	var values map[string]interface{}
	if err := types.DecodeJSON([]byte(raw), &values); err != nil {
		return nil, types.NewPayloadError("resource overrides", err)
	}

	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = types.ToString(v)
	}
	return out, nil
}
