package chart

import (
	"github.com/dbsmedya/crmchart/internal/chartconfig"
	"github.com/dbsmedya/crmchart/internal/metadata"
)

// DefaultMarginBottom is the bottom margin of a generated chart before
// post-processing.
const DefaultMarginBottom = 70.0

// Generate produces the raw chart config for a view model. Category points
// take their label and color from the charting metadata of the category
// axis when the aggregator has an option for the point's value.
func Generate(vm *ViewModel, agg *metadata.Aggregator) *chartconfig.Config {
	margin := DefaultMarginBottom
	cfg := &chartconfig.Config{
		Chart: &chartconfig.Chart{
			Type:         vm.PrimarySeriesType(),
			MarginBottom: &margin,
		},
		Colors: vm.Colors,
		PlotOptions: &chartconfig.PlotOptions{
			Series: chartconfig.SeriesOptions{AllowPointSelect: vm.AllowPointSelect},
		},
	}
	if vm.Title != "" {
		cfg.Title = &chartconfig.Title{Text: vm.Title}
	}
	if vm.Legend {
		cfg.Legend = &chartconfig.Legend{Enabled: true}
	}

	var options *metadata.ChartingAttributeMetaData
	if len(vm.XAxes) > 0 && agg != nil {
		options, _ = agg.Lookup(vm.XAxes[0].Entity, vm.XAxes[0].Attribute)
	}

	for i, a := range vm.XAxes {
		axis := generateAxis(a)
		if i == 0 && options != nil {
			axis.Categories = relabel(a, options)
		}
		cfg.XAxis = append(cfg.XAxis, axis)
	}
	for _, a := range vm.YAxes {
		cfg.YAxis = append(cfg.YAxis, generateAxis(a))
	}

	for _, s := range vm.Series {
		series := chartconfig.Series{
			Name: s.Name,
			Type: s.Type,
			Data: make([]chartconfig.Point, 0, len(s.Points)),
		}
		for _, p := range s.Points {
			point := chartconfig.Point{
				Name:  p.Category,
				Y:     p.Value,
				Label: p.Label,
			}
			if options != nil {
				if opt, ok := options.Get(p.CategoryKey); ok {
					point.Color = opt.Color
					if opt.Label != "" {
						point.Name = opt.Label
					}
				}
			}
			series.Data = append(series.Data, point)
		}
		cfg.Series = append(cfg.Series, series)
	}

	return cfg
}

func generateAxis(a AxisInfo) chartconfig.Axis {
	axis := chartconfig.Axis{
		Categories: a.Categories,
		Labels:     &chartconfig.AxisLabels{},
	}
	if a.Title != "" {
		axis.Title = &chartconfig.Title{Text: a.Title}
	}
	return axis
}

// relabel replaces category labels with option labels where the charting
// metadata has one.
func relabel(a AxisInfo, options *metadata.ChartingAttributeMetaData) []string {
	out := append([]string(nil), a.Categories...)
	for i, key := range a.CategoryKeys {
		if i >= len(out) {
			break
		}
		if opt, ok := options.Get(key); ok && opt.Label != "" {
			out[i] = opt.Label
		}
	}
	return out
}
