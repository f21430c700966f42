package query

import (
	"context"
	"fmt"

	"github.com/dbsmedya/crmchart/internal/metadata"
	"github.com/dbsmedya/crmchart/internal/record"
	"github.com/dbsmedya/crmchart/internal/resolve"
	"github.com/dbsmedya/crmchart/internal/types"
)

// MetadataPair associates an entity with the attribute metadata merged for it.
type MetadataPair struct {
	Entity     *metadata.EntityMetadata
	Attributes *metadata.AttributeMetadataCollection
}

// Decorator is the data definition of one chart build: the parsed query plus
// the entity metadata it depends on.
type Decorator struct {
	fetch      *Fetch
	categories []Category
	store      *metadata.Store
	source     metadata.Source
	pairs      map[string]*MetadataPair
}

// NewDecorator builds a decorator from the chart's data description and an
// optional fetch expression. The fetch expression must target the same
// entity; its joins are added to the query.
func NewDecorator(dataDescription, fetchExpression string) (*Decorator, error) {
	f, categories, err := ParseDataDescription(dataDescription)
	if err != nil {
		return nil, types.NewPayloadError("data description", err)
	}

	if fetchExpression != "" {
		extra, err := ParseFetch(fetchExpression)
		if err != nil {
			return nil, types.NewPayloadError("fetch expression", err)
		}
		if extra.EntityName != f.EntityName {
			return nil, types.NewPayloadError("fetch expression",
				fmt.Errorf("entity %q does not match data description entity %q", extra.EntityName, f.EntityName))
		}
		for _, link := range extra.Links {
			if !f.hasLinkAlias(link.Alias) {
				f.Links = append(f.Links, link)
			}
		}
	}

	return &Decorator{
		fetch:      f,
		categories: categories,
		store:      metadata.NewStore(),
		pairs:      make(map[string]*MetadataPair),
	}, nil
}

func (f *Fetch) hasLinkAlias(alias string) bool {
	for _, l := range f.Links {
		if l.Alias == alias {
			return true
		}
	}
	return false
}

// RegisterEntityMetadata makes the build's known entity metadata available.
func (d *Decorator) RegisterEntityMetadata(store *metadata.Store) {
	if store != nil {
		d.store = store
	}
}

// SetSource sets where missing entity metadata is looked up.
func (d *Decorator) SetSource(source metadata.Source) {
	d.source = source
}

// PrimaryEntity returns the logical name of the queried entity.
func (d *Decorator) PrimaryEntity() string {
	return d.fetch.EntityName
}

// EntityNames returns every entity the query references, primary first.
func (d *Decorator) EntityNames() []string {
	names := []string{d.fetch.EntityName}
	seen := map[string]bool{d.fetch.EntityName: true}
	for _, l := range d.fetch.Links {
		if !seen[l.Name] {
			seen[l.Name] = true
			names = append(names, l.Name)
		}
	}
	return names
}

// PendingEntityMetadataRequests returns one lookup per referenced entity the
// store does not know. Without a source the lookups fail as not found.
func (d *Decorator) PendingEntityMetadataRequests() []resolve.Request {
	var requests []resolve.Request
	for _, name := range d.EntityNames() {
		if d.store.Has(name) {
			continue
		}
		requests = append(requests, resolve.NewRequest(name, d.fetcher(name)))
	}
	return requests
}

func (d *Decorator) fetcher(name string) func(ctx context.Context) (*metadata.EntityMetadata, error) {
	source := d.source
	return func(ctx context.Context) (*metadata.EntityMetadata, error) {
		if source == nil {
			return nil, &metadata.NotFoundError{LogicalName: name}
		}
		return source.FetchEntityMetadata(ctx, name)
	}
}

// ApplyResolvedMetadata adds joined lookup results to the store.
func (d *Decorator) ApplyResolvedMetadata(results []*metadata.EntityMetadata) error {
	for _, md := range results {
		d.store.Add(md)
	}
	for _, name := range d.EntityNames() {
		if _, err := d.store.FindByLogicalName(name); err != nil {
			return err
		}
	}
	return nil
}

// SetupAggregationQuery prepares the query for aggregate execution: it turns
// on aggregation when any attribute groups or aggregates, checks aliases,
// fills in implicit category columns and a default order.
func (d *Decorator) SetupAggregationQuery() error {
	f := d.fetch
	for _, a := range f.Attributes {
		if a.GroupBy || a.IsMeasure() {
			f.Aggregate = true
			break
		}
	}

	if f.Aggregate {
		for _, a := range f.Attributes {
			if a.Alias == "" {
				return types.NewPayloadError("data description",
					fmt.Errorf("attribute %q needs an alias in an aggregate query", a.LogicalName))
			}
		}
	}

	groupBy := ""
	var measures []string
	for _, a := range f.Attributes {
		if a.GroupBy && groupBy == "" {
			groupBy = a.Column()
		}
		if a.IsMeasure() {
			measures = append(measures, a.Column())
		}
	}

	if len(d.categories) == 0 && groupBy != "" {
		d.categories = []Category{{Alias: groupBy, Measures: measures}}
	}
	for i := range d.categories {
		cat := &d.categories[i]
		if cat.Alias == "" {
			cat.Alias = groupBy
		}
		if cat.Alias == "" {
			return types.NewPayloadError("data description", fmt.Errorf("category %d has no column", i))
		}
		if _, ok := d.attributeByColumn(cat.Alias); !ok {
			return types.NewPayloadError("data description",
				fmt.Errorf("category column %q is not a query attribute", cat.Alias))
		}
		if len(cat.Measures) == 0 {
			cat.Measures = measures
		}
		for _, m := range cat.Measures {
			if _, ok := d.attributeByColumn(m); !ok {
				return types.NewPayloadError("data description",
					fmt.Errorf("measure %q is not a query attribute", m))
			}
		}
	}

	if len(f.Orders) == 0 && len(d.categories) > 0 {
		f.Orders = []Order{{Alias: d.categories[0].Alias}}
	}

	return nil
}

// IsAggregate reports whether the query aggregates.
func (d *Decorator) IsAggregate() bool {
	return d.fetch.Aggregate
}

func (d *Decorator) attributeByColumn(column string) (Attribute, bool) {
	for _, a := range d.fetch.Attributes {
		if a.Column() == column {
			return a, true
		}
	}
	return Attribute{}, false
}

// Attribute returns the query attribute whose result column is column.
func (d *Decorator) Attribute(column string) (Attribute, bool) {
	return d.attributeByColumn(column)
}

// AttributeDescriptors returns the query's attributes as they are addressed
// in result rows.
func (d *Decorator) AttributeDescriptors() []record.Descriptor {
	out := make([]record.Descriptor, 0, len(d.fetch.Attributes))
	for _, a := range d.fetch.Attributes {
		name := a.LogicalName
		if a.EntityAlias != "" {
			name = a.EntityAlias + "." + a.LogicalName
		}
		out = append(out, record.Descriptor{LogicalName: name, Alias: a.Alias})
	}
	return out
}

// CategoryColumns returns the attributes used as category columns, in
// category order and without duplicates.
func (d *Decorator) CategoryColumns() []Attribute {
	var out []Attribute
	seen := make(map[string]bool)
	for _, c := range d.categories {
		if seen[c.Alias] {
			continue
		}
		if a, ok := d.attributeByColumn(c.Alias); ok {
			seen[c.Alias] = true
			out = append(out, a)
		}
	}
	return out
}

// Measures returns the measure attributes across all categories, without
// duplicates.
func (d *Decorator) Measures() []Attribute {
	var out []Attribute
	seen := make(map[string]bool)
	for _, c := range d.categories {
		for _, m := range c.Measures {
			if seen[m] {
				continue
			}
			if a, ok := d.attributeByColumn(m); ok {
				seen[m] = true
				out = append(out, a)
			}
		}
	}
	return out
}

// MetadataPairs returns one pair per referenced entity with known metadata.
// Pairs are created once per decorator, so merged attributes persist.
func (d *Decorator) MetadataPairs() []*MetadataPair {
	var out []*MetadataPair
	for _, name := range d.EntityNames() {
		if pair, ok := d.Pair(name); ok {
			out = append(out, pair)
		}
	}
	return out
}

// Pair returns the metadata pair for entity.
func (d *Decorator) Pair(entity string) (*MetadataPair, bool) {
	if pair, ok := d.pairs[entity]; ok {
		return pair, true
	}
	md, err := d.store.FindByLogicalName(entity)
	if err != nil {
		return nil, false
	}
	pair := &MetadataPair{
		Entity:     md,
		Attributes: metadata.NewAttributeMetadataCollection(entity),
	}
	d.pairs[entity] = pair
	return pair, true
}
