package chart

import (
	"encoding/json"
	"fmt"

	"github.com/dbsmedya/crmchart/internal/query"
	"github.com/dbsmedya/crmchart/internal/record"
	"github.com/dbsmedya/crmchart/internal/resource"
	"github.com/dbsmedya/crmchart/internal/types"
)

// ModelInput is what a ModelBuilder works from.
type ModelInput struct {
	Definition   *query.Decorator
	Records      *record.Collection
	Presentation *Presentation
	Viz          VizMetadata
}

// ModelBuilder turns a resolved data definition and its records into
// view-model info.
type ModelBuilder interface {
	BuildModel(in *ModelInput) (*ModelInfo, error)
}

// DefaultModelBuilder builds one category axis from the first category
// column and one series per measure.
type DefaultModelBuilder struct {
	resources *resource.Table
}

// NewDefaultModelBuilder creates the default builder. A nil table uses the
// process-wide resource table.
func NewDefaultModelBuilder(resources *resource.Table) *DefaultModelBuilder {
	if resources == nil {
		resources = resource.Default
	}
	return &DefaultModelBuilder{resources: resources}
}

type categoryBucket struct {
	label  string
	key    string
	record record.Record
}

// BuildModel implements ModelBuilder.
func (b *DefaultModelBuilder) BuildModel(in *ModelInput) (*ModelInfo, error) {
	d := in.Definition
	columns := d.CategoryColumns()
	if len(columns) == 0 {
		return nil, types.NewPayloadError("data description", fmt.Errorf("chart has no category column"))
	}
	measures := d.Measures()
	if len(measures) == 0 {
		return nil, types.NewPayloadError("data description", fmt.Errorf("chart has no measure"))
	}

	category := columns[0]
	buckets := b.bucketize(in.Records, category.Column())

	p := in.Presentation
	if p == nil {
		p = &Presentation{}
	}

	info := &ModelInfo{
		Title:  in.Viz.Title,
		Colors: p.Colors,
		Legend: p.Legend,
	}
	if info.Title == "" {
		info.Title = p.Title
	}

	categoryName := attributeDisplayName(d, category)
	x := AxisInfo{
		Title:     p.XAxisTitle,
		Entity:    category.EntityName,
		Attribute: categoryName,
	}
	if x.Title == "" {
		x.Title = categoryName
	}
	for _, bk := range buckets {
		x.Categories = append(x.Categories, bk.label)
		x.CategoryKeys = append(x.CategoryKeys, bk.key)
	}
	info.XAxes = []AxisInfo{x}

	for i, m := range measures {
		s := SeriesInfo{
			Name: attributeDisplayName(d, m),
			Type: p.SeriesType(i),
		}
		for _, bk := range buckets {
			raw, _ := bk.record.RawValue(m.Column())
			point := PointInfo{
				Category:    bk.label,
				CategoryKey: bk.key,
				Value:       numericValue(raw),
			}
			if v, ok := bk.record.Get(m.Column()); ok && v != nil {
				point.Label = types.ToString(v)
			}
			s.Points = append(s.Points, point)
		}
		info.Series = append(info.Series, s)
	}

	y := AxisInfo{Title: p.YAxisTitle}
	if y.Title == "" {
		y.Title = info.Series[0].Name
	}
	info.YAxes = []AxisInfo{y}

	return info, nil
}

// bucketize groups records by category value, in order of first appearance.
func (b *DefaultModelBuilder) bucketize(records *record.Collection, column string) []categoryBucket {
	if records == nil {
		return nil
	}
	noValue := b.resources.Get(resource.NoValueLabel)

	var buckets []categoryBucket
	seen := make(map[string]bool)
	for _, r := range records.All() {
		key := ""
		if raw, ok := r.RawValue(column); ok && raw != nil {
			key = types.ToString(raw)
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		label := noValue
		if v, ok := r.Get(column); ok && v != nil {
			if s := types.ToString(v); s != "" {
				label = s
			}
		}
		buckets = append(buckets, categoryBucket{label: label, key: key, record: r})
	}
	return buckets
}

// numericValue keeps numbers as they were decoded and drops anything that is
// not numeric.
func numericValue(v interface{}) interface{} {
	f, ok := types.ToFloat64(v)
	if !ok {
		return nil
	}
	if n, isNumber := v.(json.Number); isNumber {
		return n
	}
	return f
}

// attributeDisplayName returns the display name of a query attribute from
// the merged attribute metadata, falling back to its logical name.
func attributeDisplayName(d *query.Decorator, a query.Attribute) string {
	if pair, ok := d.Pair(a.EntityName); ok {
		if md, ok := pair.Attributes.Get(a.LogicalName); ok {
			return md.Name()
		}
	}
	return a.LogicalName
}
