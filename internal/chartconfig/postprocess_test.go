package chartconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfig(seriesType string) *Config {
	margin := 70.0
	return &Config{
		Chart:  &Chart{MarginBottom: &margin},
		Series: []Series{{Type: seriesType}},
		XAxis:  []Axis{{Labels: &AxisLabels{}}},
		YAxis:  []Axis{{Labels: &AxisLabels{}}},
		Legend: &Legend{Enabled: true, Layout: "vertical", Align: "right"},
	}
}

func TestPostProcess_Column(t *testing.T) {
	cfg := newConfig("column")
	PostProcess(cfg)

	x := cfg.XAxis[0]
	require.NotNil(t, x.TickAmount)
	assert.Equal(t, 3, *x.TickAmount)
	require.NotNil(t, x.Labels.Rotation)
	assert.Equal(t, 0, *x.Labels.Rotation)
	require.NotNil(t, x.Labels.AutoRotation)
	assert.False(t, *x.Labels.AutoRotation)
	assert.Equal(t, "center", x.Labels.Align)

	assert.Nil(t, cfg.YAxis[0].TickAmount, "y axis untouched for column charts")
	assert.Equal(t, 52.0, *cfg.Chart.MarginBottom)
}

func TestPostProcess_Bar(t *testing.T) {
	cfg := newConfig("bar")
	PostProcess(cfg)

	assert.Nil(t, cfg.XAxis[0].TickAmount)
	require.NotNil(t, cfg.YAxis[0].TickAmount)
	assert.Equal(t, 3, *cfg.YAxis[0].TickAmount)
	assert.Equal(t, 52.0, *cfg.Chart.MarginBottom)
	assert.Empty(t, cfg.Series[0].NeckWidth)
}

func TestPostProcess_Funnel(t *testing.T) {
	cfg := newConfig("funnel")
	PostProcess(cfg)

	assert.Equal(t, "5%", cfg.Series[0].NeckWidth)
	assert.Equal(t, "0%", cfg.Series[0].NeckHeight)
	assert.Equal(t, 3, *cfg.YAxis[0].TickAmount)
	assert.Equal(t, 70.0, *cfg.Chart.MarginBottom, "margin only shrinks for column and bar")
}

func TestPostProcess_Other(t *testing.T) {
	cfg := newConfig("pie")
	PostProcess(cfg)

	assert.Equal(t, 3, *cfg.YAxis[0].TickAmount)
	assert.Nil(t, cfg.XAxis[0].TickAmount)
	assert.Equal(t, 70.0, *cfg.Chart.MarginBottom)
}

func TestPostProcess_Legend(t *testing.T) {
	cfg := newConfig("column")
	PostProcess(cfg)

	assert.Equal(t, "horizontal", cfg.Legend.Layout)
	assert.Equal(t, "center", cfg.Legend.Align)
	assert.True(t, cfg.Legend.Enabled)
}

func TestPostProcess_AbsentSections(t *testing.T) {
	cfg := &Config{Series: []Series{{Type: "column"}}}
	PostProcess(cfg)

	assert.Empty(t, cfg.XAxis)
	assert.Nil(t, cfg.Legend)
	assert.Nil(t, cfg.Chart)

	labelless := &Config{Series: []Series{{Type: "column"}}, XAxis: []Axis{{}}}
	PostProcess(labelless)
	assert.Equal(t, 3, *labelless.XAxis[0].TickAmount)
	assert.Nil(t, labelless.XAxis[0].Labels)
}

func TestPostProcess_NoSeries(t *testing.T) {
	cfg := &Config{YAxis: []Axis{{}}}
	PostProcess(cfg)

	assert.Equal(t, 3, *cfg.YAxis[0].TickAmount)
}

func TestPostProcess_ExportingAndAccessibility(t *testing.T) {
	for _, seriesType := range []string{"column", "bar", "funnel", "line"} {
		t.Run(seriesType, func(t *testing.T) {
			cfg := newConfig(seriesType)
			cfg.Exporting = &Exporting{Enabled: true}
			PostProcess(cfg)

			tree, err := cfg.Tree()
			require.NoError(t, err)
			assert.Equal(t, false, tree["exporting"].(map[string]interface{})["enabled"])
			accessibility := tree["accessibility"].(map[string]interface{})
			assert.Equal(t, true, accessibility["enabled"])
			assert.Equal(t, "chart", accessibility["description"])
		})
	}
}

func TestPostProcess_Nil(t *testing.T) {
	assert.NotPanics(t, func() { PostProcess(nil) })
}
