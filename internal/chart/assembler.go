package chart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dbsmedya/crmchart/internal/chartconfig"
	"github.com/dbsmedya/crmchart/internal/logger"
	"github.com/dbsmedya/crmchart/internal/metadata"
	"github.com/dbsmedya/crmchart/internal/query"
	"github.com/dbsmedya/crmchart/internal/record"
	"github.com/dbsmedya/crmchart/internal/resolve"
	"github.com/dbsmedya/crmchart/internal/resource"
)

// Assembler runs chart builds. Builds share no mutable state apart from the
// resource table, so one assembler can serve many builds.
type Assembler struct {
	resources *resource.Table
	source    metadata.Source
	builder   ModelBuilder
	merge     metadata.MergeFunc
	logger    *logger.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithSource sets where entity metadata missing from a request is looked up.
func WithSource(source metadata.Source) Option {
	return func(a *Assembler) { a.source = source }
}

// WithModelBuilder replaces the default model builder.
func WithModelBuilder(builder ModelBuilder) Option {
	return func(a *Assembler) { a.builder = builder }
}

// WithMergeFunc replaces the attribute metadata merge.
func WithMergeFunc(merge metadata.MergeFunc) Option {
	return func(a *Assembler) { a.merge = merge }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(a *Assembler) { a.logger = log }
}

// NewAssembler creates an assembler writing overrides into resources.
func NewAssembler(resources *resource.Table, opts ...Option) (*Assembler, error) {
	if resources == nil {
		return nil, fmt.Errorf("resource table is nil")
	}

	a := &Assembler{
		resources: resources,
		merge:     metadata.MergeAttributes,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.NewNop()
	}
	if a.builder == nil {
		a.builder = NewDefaultModelBuilder(resources)
	}
	if a.merge == nil {
		a.merge = metadata.MergeAttributes
	}
	return a, nil
}

// Build turns a request into a finished chart config. Any failure ends the
// build; no partial config is returned.
func (a *Assembler) Build(ctx context.Context, req *Request) (*chartconfig.Config, error) {
	if req == nil {
		return nil, fmt.Errorf("request is nil")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	buildID := uuid.NewString()
	log := a.logger.WithBuild(buildID).WithChart(req.Chart.Name)
	start := time.Now()
	log.Debugw("Chart build started")

	overrides, err := resource.ParseOverrides(req.ResourceOverrides)
	if err != nil {
		return nil, err
	}
	a.resources.Update(overrides)

	attributes, err := metadata.LoadAttributeMetadata(req.AttributeMetadata)
	if err != nil {
		return nil, err
	}

	entities, err := metadata.LoadEntityMetadata(req.EntityMetadata)
	if err != nil {
		return nil, err
	}
	store := metadata.NewStore()
	store.Load(entities)

	def, err := query.NewDecorator(req.Chart.DataDescription, req.FetchXML)
	if err != nil {
		return nil, err
	}
	view := ViewMetadata{EntityLogicalName: def.PrimaryEntity()}
	viz := VizMetadata{EntityLogicalName: def.PrimaryEntity(), Title: req.Chart.Name}

	def.RegisterEntityMetadata(store)
	def.SetSource(a.source)

	if err := resolve.NewCoordinator(log).Resolve(ctx, def); err != nil {
		return nil, fmt.Errorf("chart %q: %w", req.Chart.Name, err)
	}

	cfg, err := a.assemble(def, attributes, req, viz, log)
	if err != nil {
		return nil, fmt.Errorf("chart %q: %w", req.Chart.Name, err)
	}

	chartconfig.PostProcess(cfg)

	log.WithEntity(view.EntityLogicalName).Infow("Chart build completed",
		"series", len(cfg.Series),
		"duration", time.Since(start),
	)
	return cfg, nil
}

// assemble runs the steps that follow metadata resolution.
func (a *Assembler) assemble(def *query.Decorator, attributes []*metadata.AttributeMetadata, req *Request, viz VizMetadata, log *logger.Logger) (*chartconfig.Config, error) {
	if err := def.SetupAggregationQuery(); err != nil {
		return nil, err
	}

	records, err := record.Build(req.Data, def.AttributeDescriptors())
	if err != nil {
		return nil, err
	}
	log.Debugw("Records materialized", "rows", records.Len())

	for _, pair := range def.MetadataPairs() {
		merged := a.merge(pair.Attributes, attributes)
		if merged > 0 {
			log.WithEntity(pair.Entity.LogicalName).Debugw("Attribute metadata merged", "attributes", merged)
		}
	}

	presentation, err := ParsePresentation(req.Chart.PresentationDescription)
	if err != nil {
		return nil, err
	}

	info, err := a.builder.BuildModel(&ModelInput{
		Definition:   def,
		Records:      records,
		Presentation: presentation,
		Viz:          viz,
	})
	if err != nil {
		return nil, err
	}
	vm := NewViewModel(info)

	agg := AggregateChartingMetadata(def)

	return Generate(vm, agg), nil
}

// AggregateChartingMetadata collects the charting metadata of every category
// column, keyed by the column's entity and attribute display name. Columns
// without attribute metadata get an entry with no options.
func AggregateChartingMetadata(def *query.Decorator) *metadata.Aggregator {
	agg := metadata.NewAggregator()
	for _, column := range def.CategoryColumns() {
		name := attributeDisplayName(def, column)

		meta := metadata.NewChartingAttributeMetaData("", "")
		if pair, ok := def.Pair(column.EntityName); ok {
			if attr, ok := pair.Attributes.Get(column.LogicalName); ok {
				meta = metadata.ChartingAttributeFromMetadata(attr)
			}
		}
		agg.Insert(column.EntityName, name, meta)
	}
	return agg
}
