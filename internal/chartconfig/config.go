// Package chartconfig models the chart configuration handed to the
// rendering library and the presentation-fit pass applied to it.
package chartconfig

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind classifies a series by its chart type.
type Kind int

const (
	KindOther Kind = iota
	KindColumn
	KindBar
	KindFunnel
)

// String returns the series type the kind stands for.
func (k Kind) String() string {
	switch k {
	case KindColumn:
		return "column"
	case KindBar:
		return "bar"
	case KindFunnel:
		return "funnel"
	default:
		return "other"
	}
}

// KindOf maps a series type to its kind.
func KindOf(seriesType string) Kind {
	switch strings.ToLower(seriesType) {
	case "column":
		return KindColumn
	case "bar":
		return KindBar
	case "funnel":
		return KindFunnel
	default:
		return KindOther
	}
}

// Config is the finished chart configuration. Optional sections are nil when
// absent and are left out of the serialized form.
type Config struct {
	Chart         *Chart         `json:"chart,omitempty"`
	Title         *Title         `json:"title,omitempty"`
	Colors        []string       `json:"colors,omitempty"`
	Series        []Series       `json:"series"`
	XAxis         []Axis         `json:"xAxis"`
	YAxis         []Axis         `json:"yAxis"`
	Legend        *Legend        `json:"legend,omitempty"`
	PlotOptions   *PlotOptions   `json:"plotOptions,omitempty"`
	Exporting     *Exporting     `json:"exporting,omitempty"`
	Accessibility *Accessibility `json:"accessibility,omitempty"`
}

// Chart holds chart-level layout options.
type Chart struct {
	Type         string   `json:"type,omitempty"`
	MarginBottom *float64 `json:"marginBottom,omitempty"`
}

// Title is a chart or axis title.
type Title struct {
	Text string `json:"text"`
}

// Series is one data series. Type carries the rendering library's series
// type; Kind classifies it.
type Series struct {
	Name       string  `json:"name,omitempty"`
	Type       string  `json:"type"`
	Data       []Point `json:"data"`
	NeckWidth  string  `json:"neckWidth,omitempty"`
	NeckHeight string  `json:"neckHeight,omitempty"`
}

// Kind returns the series kind.
func (s *Series) Kind() Kind {
	return KindOf(s.Type)
}

// Point is one value of a series.
type Point struct {
	Name  string      `json:"name,omitempty"`
	Y     interface{} `json:"y"`
	Color string      `json:"color,omitempty"`
	Label string      `json:"label,omitempty"`
}

// Axis is an x or y axis.
type Axis struct {
	Categories []string    `json:"categories,omitempty"`
	Title      *Title      `json:"title,omitempty"`
	TickAmount *int        `json:"tickAmount,omitempty"`
	Labels     *AxisLabels `json:"labels,omitempty"`
}

// AxisLabels controls axis label placement.
type AxisLabels struct {
	Enabled      *bool  `json:"enabled,omitempty"`
	AutoRotation *bool  `json:"autoRotation,omitempty"`
	Rotation     *int   `json:"rotation,omitempty"`
	Align        string `json:"align,omitempty"`
}

// Legend is the legend section.
type Legend struct {
	Enabled bool   `json:"enabled"`
	Layout  string `json:"layout,omitempty"`
	Align   string `json:"align,omitempty"`
}

// PlotOptions holds options shared by all series.
type PlotOptions struct {
	Series SeriesOptions `json:"series"`
}

// SeriesOptions is the plotOptions.series section.
type SeriesOptions struct {
	AllowPointSelect bool `json:"allowPointSelect"`
}

// Exporting toggles the export menu.
type Exporting struct {
	Enabled bool `json:"enabled"`
}

// Accessibility toggles the accessibility module.
type Accessibility struct {
	Enabled     bool   `json:"enabled"`
	Description string `json:"description,omitempty"`
}

// PrimaryKind returns the kind of the first series, or KindOther when the
// config has no series.
func (c *Config) PrimaryKind() Kind {
	if len(c.Series) == 0 {
		return KindOther
	}
	return c.Series[0].Kind()
}

// MarshalJSON serializes the config with empty series and axis lists written
// as empty arrays.
func (c *Config) MarshalJSON() ([]byte, error) {
	type plain Config
	out := plain(*c)
	if out.Series == nil {
		out.Series = []Series{}
	}
	if out.XAxis == nil {
		out.XAxis = []Axis{}
	}
	if out.YAxis == nil {
		out.YAxis = []Axis{}
	}
	return json.Marshal(out)
}

// Tree returns the config as a generic JSON tree.
func (c *Config) Tree() (map[string]interface{}, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chart config: %w", err)
	}
	var tree map[string]interface{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode chart config: %w", err)
	}
	return tree, nil
}
