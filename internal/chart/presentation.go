package chart

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/dbsmedya/crmchart/internal/types"
)

// DefaultSeriesType is used when the presentation names no series.
const DefaultSeriesType = "column"

type presentationXML struct {
	XMLName             xml.Name       `xml:"Chart"`
	Palette             string         `xml:"Palette,attr"`
	PaletteCustomColors string         `xml:"PaletteCustomColors,attr"`
	Series              []seriesXML    `xml:"Series>Series"`
	ChartAreas          []chartAreaXML `xml:"ChartAreas>ChartArea"`
	Titles              []titleXML     `xml:"Titles>Title"`
	Legends             []legendXML    `xml:"Legends>Legend"`
}

type seriesXML struct {
	Name      string `xml:"Name,attr"`
	ChartType string `xml:"ChartType,attr"`
	Color     string `xml:"Color,attr"`
}

type chartAreaXML struct {
	AxisX axisXML `xml:"AxisX"`
	AxisY axisXML `xml:"AxisY"`
}

type axisXML struct {
	Title string `xml:"Title,attr"`
}

type titleXML struct {
	Text string `xml:"Text,attr"`
}

type legendXML struct {
	Enabled string `xml:"Enabled,attr"`
}

// Presentation is the parsed presentation description of a chart.
type Presentation struct {
	SeriesTypes []string
	Colors      []string
	Title       string
	XAxisTitle  string
	YAxisTitle  string
	Legend      bool
}

// SeriesType returns the series type for the i-th measure. Measures beyond
// the described series reuse the first series' type.
func (p *Presentation) SeriesType(i int) string {
	switch {
	case i < len(p.SeriesTypes):
		return p.SeriesTypes[i]
	case len(p.SeriesTypes) > 0:
		return p.SeriesTypes[0]
	default:
		return DefaultSeriesType
	}
}

var chartTypes = map[string]string{
	"column":           "column",
	"stackedcolumn":    "column",
	"stackedcolumn100": "column",
	"bar":              "bar",
	"stackedbar":       "bar",
	"stackedbar100":    "bar",
	"funnel":           "funnel",
	"pie":              "pie",
	"doughnut":         "pie",
	"line":             "line",
	"spline":           "spline",
	"area":             "area",
	"stackedarea":      "area",
}

func seriesType(chartType string) string {
	if chartType == "" {
		return DefaultSeriesType
	}
	key := strings.ToLower(chartType)
	if t, ok := chartTypes[key]; ok {
		return t
	}
	return key
}

// ParsePresentation parses a presentation description. An empty description
// yields a single column series with no palette.
func ParsePresentation(description string) (*Presentation, error) {
	if strings.TrimSpace(description) == "" {
		return &Presentation{SeriesTypes: []string{DefaultSeriesType}}, nil
	}

	var px presentationXML
	if err := xml.Unmarshal([]byte(description), &px); err != nil {
		return nil, types.NewPayloadError("presentation description", err)
	}

	p := &Presentation{}
	for _, s := range px.Series {
		p.SeriesTypes = append(p.SeriesTypes, seriesType(s.ChartType))
	}
	if len(p.SeriesTypes) == 0 {
		p.SeriesTypes = []string{DefaultSeriesType}
	}

	colors, err := parsePalette(px.PaletteCustomColors)
	if err != nil {
		return nil, types.NewPayloadError("presentation description", err)
	}
	p.Colors = colors

	if len(px.Titles) > 0 {
		p.Title = px.Titles[0].Text
	}
	if len(px.ChartAreas) > 0 {
		p.XAxisTitle = px.ChartAreas[0].AxisX.Title
		p.YAxisTitle = px.ChartAreas[0].AxisY.Title
	}
	for _, l := range px.Legends {
		if !strings.EqualFold(l.Enabled, "false") {
			p.Legend = true
			break
		}
	}

	return p, nil
}

// parsePalette converts "R,G,B; R,G,B" into hex colors.
func parsePalette(palette string) ([]string, error) {
	var colors []string
	for _, entry := range strings.Split(palette, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("palette color %q is not R,G,B", entry)
		}
		var rgb [3]uint64
		for i, part := range parts {
			n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
			if err != nil {
				return nil, fmt.Errorf("palette color %q: %w", entry, err)
			}
			rgb[i] = n
		}
		colors = append(colors, fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2]))
	}
	return colors, nil
}
