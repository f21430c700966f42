package chart

// AxisInfo describes one axis produced by the model builder. A category axis
// also names the entity and attribute display name its values come from, so
// point labels and colors can be looked up in the charting metadata.
type AxisInfo struct {
	Title        string
	Categories   []string
	CategoryKeys []string // stringified raw values, parallel to Categories
	Entity       string
	Attribute    string
}

// PointInfo is one value of a series.
type PointInfo struct {
	Category    string      // display label of the category
	CategoryKey string      // stringified raw category value
	Value       interface{} // raw measure value
	Label       string      // formatted measure value
}

// SeriesInfo is one series produced by the model builder.
type SeriesInfo struct {
	Name   string
	Type   string
	Points []PointInfo
}

// ModelInfo is what a ModelBuilder returns for a data definition and its
// records.
type ModelInfo struct {
	Title                         string
	Colors                        []string
	XAxes                         []AxisInfo
	YAxes                         []AxisInfo
	Series                        []SeriesInfo
	Legend                        bool
	AllowPointSelect              bool
	IsInteractionCentricDashboard bool
	PrimaryModelName              *string
	SecondaryGroupByAttributeName *string
}

// ViewModel is the configurable view model a chart config is generated
// from. One is created per build.
type ViewModel struct {
	Title                         string
	Colors                        []string
	XAxes                         []AxisInfo
	YAxes                         []AxisInfo
	Series                        []SeriesInfo
	Legend                        bool
	AllowPointSelect              bool
	IsInteractionCentricDashboard bool
	PrimaryModelName              *string
	SecondaryGroupByAttributeName *string
}

// NewViewModel populates a view model from builder output. Point selection,
// the primary model name, the secondary group-by attribute and the
// interaction-centric dashboard mode are fixed for chart builds and are not
// taken from info.
func NewViewModel(info *ModelInfo) *ViewModel {
	return &ViewModel{
		Title:                         info.Title,
		Colors:                        append([]string(nil), info.Colors...),
		XAxes:                         info.XAxes,
		YAxes:                         info.YAxes,
		Series:                        info.Series,
		Legend:                        info.Legend,
		AllowPointSelect:              false,
		IsInteractionCentricDashboard: false,
		PrimaryModelName:              nil,
		SecondaryGroupByAttributeName: nil,
	}
}

// PrimarySeriesType returns the type of the first series, or the default
// type when there is none.
func (vm *ViewModel) PrimarySeriesType() string {
	if len(vm.Series) == 0 {
		return DefaultSeriesType
	}
	return vm.Series[0].Type
}
