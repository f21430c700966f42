package metadata

import (
	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/crmchart/internal/types"
)

// ChartingMetaData is one option value with its display label and color.
type ChartingMetaData struct {
	Label string
	Value float64
	Color string
}

// Key returns the stringified value the option is keyed by.
func (m *ChartingMetaData) Key() string {
	return types.ToString(m.Value)
}

// ChartingAttributeMetaData is the charting view of one attribute: its
// behavior/type and the options keyed by stringified value.
type ChartingAttributeMetaData struct {
	Behavior      string
	AttributeType string
	options       *orderedmap.OrderedMap[string, *ChartingMetaData]
}

// NewChartingAttributeMetaData creates an attribute entry with no options.
func NewChartingAttributeMetaData(behavior, attributeType string) *ChartingAttributeMetaData {
	return &ChartingAttributeMetaData{
		Behavior:      behavior,
		AttributeType: attributeType,
		options:       orderedmap.NewOrderedMap[string, *ChartingMetaData](),
	}
}

// ChartingAttributeFromMetadata converts attribute metadata to its charting view.
func ChartingAttributeFromMetadata(attr *AttributeMetadata) *ChartingAttributeMetaData {
	cam := NewChartingAttributeMetaData(attr.Behavior, attr.AttributeType)
	for _, opt := range attr.Options {
		cam.Add(&ChartingMetaData{Label: opt.Label, Value: opt.Value, Color: opt.Color})
	}
	return cam
}

// Add inserts an option. It returns false and keeps the existing entry when
// the value is already present.
func (c *ChartingAttributeMetaData) Add(md *ChartingMetaData) bool {
	key := md.Key()
	if _, exists := c.options.Get(key); exists {
		return false
	}
	c.options.Set(key, md)
	return true
}

// Get returns the option for a stringified value.
func (c *ChartingAttributeMetaData) Get(value string) (*ChartingMetaData, bool) {
	return c.options.Get(value)
}

// Len returns the number of options.
func (c *ChartingAttributeMetaData) Len() int {
	return c.options.Len()
}

// ordered returns the options in insertion order.
func (c *ChartingAttributeMetaData) ordered() []*ChartingMetaData {
	out := make([]*ChartingMetaData, 0, c.options.Len())
	for el := c.options.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

func (c *ChartingAttributeMetaData) extend(other *ChartingAttributeMetaData) {
	if c.Behavior == "" {
		c.Behavior = other.Behavior
	}
	if c.AttributeType == "" {
		c.AttributeType = other.AttributeType
	}
	for _, md := range other.ordered() {
		c.Add(md)
	}
}

// Aggregator maps entity logical name to attribute display name to the
// attribute's charting metadata. It is filled once per build.
type Aggregator struct {
	entities *orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, *ChartingAttributeMetaData]]
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		entities: orderedmap.NewOrderedMap[string, *orderedmap.OrderedMap[string, *ChartingAttributeMetaData]](),
	}
}

// Insert records meta under (entity, attribute). An existing entry is
// extended with the new options rather than replaced.
func (a *Aggregator) Insert(entity, attribute string, meta *ChartingAttributeMetaData) {
	if meta == nil {
		return
	}
	attrs, ok := a.entities.Get(entity)
	if !ok {
		attrs = orderedmap.NewOrderedMap[string, *ChartingAttributeMetaData]()
		a.entities.Set(entity, attrs)
	}
	if existing, ok := attrs.Get(attribute); ok {
		existing.extend(meta)
		return
	}
	attrs.Set(attribute, meta)
}

// Lookup returns the entry for (entity, attribute); ok is false when the pair
// was never inserted.
func (a *Aggregator) Lookup(entity, attribute string) (*ChartingAttributeMetaData, bool) {
	attrs, ok := a.entities.Get(entity)
	if !ok {
		return nil, false
	}
	return attrs.Get(attribute)
}

// Entities returns the entity names in insertion order.
func (a *Aggregator) Entities() []string {
	out := make([]string, 0, a.entities.Len())
	for el := a.entities.Front(); el != nil; el = el.Next() {
		out = append(out, el.Key)
	}
	return out
}

// Attributes returns the attribute names recorded for entity in insertion order.
func (a *Aggregator) Attributes(entity string) []string {
	attrs, ok := a.entities.Get(entity)
	if !ok {
		return nil
	}
	out := make([]string, 0, attrs.Len())
	for el := attrs.Front(); el != nil; el = el.Next() {
		out = append(out, el.Key)
	}
	return out
}
