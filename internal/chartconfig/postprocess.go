package chartconfig

// Presentation-fit values applied by PostProcess.
const (
	AxisTickAmount           = 3
	AxisLabelRotation        = 0
	AxisLabelAlign           = "center"
	FunnelNeckWidth          = "5%"
	FunnelNeckHeight         = "0%"
	BottomMarginOffset       = 18
	LegendLayout             = "horizontal"
	LegendAlign              = "center"
	AccessibilityDescription = "chart"
)

// PostProcess adjusts a generated config in place so it fits the dashboard
// tile it is rendered into.
func PostProcess(cfg *Config) {
	if cfg == nil {
		return
	}

	kind := cfg.PrimaryKind()

	switch kind {
	case KindColumn:
		normalizeAxis(cfg.XAxis)
	case KindBar, KindFunnel, KindOther:
		normalizeAxis(cfg.YAxis)
	}

	switch kind {
	case KindFunnel:
		cfg.Series[0].NeckWidth = FunnelNeckWidth
		cfg.Series[0].NeckHeight = FunnelNeckHeight
	case KindColumn, KindBar:
		if cfg.Chart != nil && cfg.Chart.MarginBottom != nil {
			margin := *cfg.Chart.MarginBottom - BottomMarginOffset
			cfg.Chart.MarginBottom = &margin
		}
	case KindOther:
	}

	if cfg.Legend != nil {
		cfg.Legend.Layout = LegendLayout
		cfg.Legend.Align = LegendAlign
	}

	cfg.Exporting = &Exporting{Enabled: false}
	cfg.Accessibility = &Accessibility{Enabled: true, Description: AccessibilityDescription}
}

// normalizeAxis fixes the tick count and label placement of the first axis.
func normalizeAxis(axes []Axis) {
	if len(axes) == 0 {
		return
	}
	axis := &axes[0]

	ticks := AxisTickAmount
	axis.TickAmount = &ticks

	if axis.Labels != nil {
		autoRotation := false
		rotation := AxisLabelRotation
		axis.Labels.AutoRotation = &autoRotation
		axis.Labels.Rotation = &rotation
		axis.Labels.Align = AxisLabelAlign
	}
}
