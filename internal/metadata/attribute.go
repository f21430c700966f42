package metadata

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/crmchart/internal/types"
)

// OptionMetadata is one option of an option-set style attribute.
type OptionMetadata struct {
	Label string
	Value float64
	Color string
}

// AttributeMetadata describes an attribute of an entity.
type AttributeMetadata struct {
	EntityLogicalName string
	LogicalName       string
	DisplayName       string
	AttributeType     string
	Behavior          string
	Options           []OptionMetadata
}

// Name returns the display name, falling back to the logical name.
func (a *AttributeMetadata) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.LogicalName
}

type optionRow struct {
	Label string      `json:"Label"`
	Value interface{} `json:"Value"`
	Color string      `json:"Color"`
}

type attributeRow struct {
	EntityLogicalName string      `json:"EntityLogicalName"`
	LogicalName       string      `json:"LogicalName"`
	DisplayName       string      `json:"DisplayName"`
	AttributeType     string      `json:"AttributeType"`
	Behavior          string      `json:"Behavior"`
	Options           []optionRow `json:"Options"`
}

// LoadAttributeMetadata materializes attribute metadata from serialized rows.
// An empty string yields no rows.
func LoadAttributeMetadata(raw string) ([]*AttributeMetadata, error) {
	if raw == "" {
		return nil, nil
	}

	var rows []attributeRow
	if err := types.DecodeJSON([]byte(raw), &rows); err != nil {
		return nil, types.NewPayloadError("attribute metadata", err)
	}

	result := make([]*AttributeMetadata, 0, len(rows))
	for i, row := range rows {
		if row.EntityLogicalName == "" || row.LogicalName == "" {
			return nil, types.NewPayloadError("attribute metadata",
				fmt.Errorf("row %d: EntityLogicalName and LogicalName are required", i))
		}
		attr := &AttributeMetadata{
			EntityLogicalName: row.EntityLogicalName,
			LogicalName:       row.LogicalName,
			DisplayName:       row.DisplayName,
			AttributeType:     row.AttributeType,
			Behavior:          row.Behavior,
		}
		for j, opt := range row.Options {
			value, ok := types.ToFloat64(opt.Value)
			if !ok {
				return nil, types.NewPayloadError("attribute metadata",
					fmt.Errorf("row %d option %d: value %v is not numeric", i, j, opt.Value))
			}
			attr.Options = append(attr.Options, OptionMetadata{
				Label: opt.Label,
				Value: value,
				Color: opt.Color,
			})
		}
		result = append(result, attr)
	}
	return result, nil
}

// AttributeMetadataCollection is the attribute metadata known for one entity,
// keyed by attribute logical name.
type AttributeMetadataCollection struct {
	entity string
	attrs  *orderedmap.OrderedMap[string, *AttributeMetadata]
}

// NewAttributeMetadataCollection creates an empty collection for entity.
func NewAttributeMetadataCollection(entity string) *AttributeMetadataCollection {
	return &AttributeMetadataCollection{
		entity: entity,
		attrs:  orderedmap.NewOrderedMap[string, *AttributeMetadata](),
	}
}

// Entity returns the entity logical name the collection belongs to.
func (c *AttributeMetadataCollection) Entity() string {
	return c.entity
}

// Get returns the attribute with the given logical name.
func (c *AttributeMetadataCollection) Get(logicalName string) (*AttributeMetadata, bool) {
	return c.attrs.Get(logicalName)
}

// Len returns the number of attributes.
func (c *AttributeMetadataCollection) Len() int {
	return c.attrs.Len()
}

// All returns the attributes in insertion order.
func (c *AttributeMetadataCollection) All() []*AttributeMetadata {
	out := make([]*AttributeMetadata, 0, c.attrs.Len())
	for el := c.attrs.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// MergeFunc merges attribute metadata into a collection and reports how many
// source rows were applied.
type MergeFunc func(dst *AttributeMetadataCollection, src []*AttributeMetadata) int

// MergeAttributes is the default MergeFunc. Rows for other entities are
// skipped. Merging is additive: an attribute already present keeps its values
// and only gains options and descriptive fields it did not have.
func MergeAttributes(dst *AttributeMetadataCollection, src []*AttributeMetadata) int {
	if dst == nil || len(src) == 0 {
		return 0
	}

	merged := 0
	for _, attr := range src {
		if attr == nil || attr.EntityLogicalName != dst.entity {
			continue
		}
		merged++

		existing, ok := dst.attrs.Get(attr.LogicalName)
		if !ok {
			clone := *attr
			clone.Options = append([]OptionMetadata(nil), attr.Options...)
			dst.attrs.Set(attr.LogicalName, &clone)
			continue
		}

		if existing.DisplayName == "" {
			existing.DisplayName = attr.DisplayName
		}
		if existing.AttributeType == "" {
			existing.AttributeType = attr.AttributeType
		}
		if existing.Behavior == "" {
			existing.Behavior = attr.Behavior
		}
		for _, opt := range attr.Options {
			if !hasOption(existing.Options, opt.Value) {
				existing.Options = append(existing.Options, opt)
			}
		}
	}
	return merged
}

func hasOption(options []OptionMetadata, value float64) bool {
	for _, opt := range options {
		if opt.Value == value {
			return true
		}
	}
	return false
}
