package chartjs

type Chart struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

type ChartDataset struct {
	Label              string     `json:"label,omitempty"`
	Data               []*float64 `json:"data"`
	BackgroundColor    []string   `json:"backgroundColor,omitempty"`
	BorderWidth        int        `json:"borderWidth"`
	BarPercentage      float64    `json:"barPercentage,omitempty"`
	CategoryPercentage float64    `json:"categoryPercentage,omitempty"`
	Stack              string     `json:"stack,omitempty"`
}

type ChartOptions struct {
	Responsive bool                  `json:"responsive"`
	Animation  bool                  `json:"animation"`
	Plugins    ChartPlugins          `json:"plugins"`
	Scales     map[string]ChartScale `json:"scales"`
}

type ChartPlugins struct {
	Legend ChartLegend `json:"legend"`
	Title  ChartTitle  `json:"title"`
}

type ChartLegend struct {
	Display bool `json:"display"`
}

type ChartTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type ChartScale struct {
	Type     string      `json:"type"`
	Display  bool        `json:"display"`
	Position string      `json:"position"`
	Stacked  bool        `json:"stacked"`
	Offset   bool        `json:"offset"`
	Min      *float64    `json:"min,omitempty"`
	Max      *float64    `json:"max,omitempty"`
	Ticks    *ChartTicks `json:"ticks,omitempty"`
	// Fixed width in pixels reserved for tick labels, applied by the page in
	// the scale's afterFit hook. Chart.js itself ignores it.
	LabelWidth int `json:"labelWidth,omitempty"`
}

type ChartTicks struct {
	AutoSkip    bool `json:"autoSkip"`
	MinRotation int  `json:"minRotation"`
	MaxRotation int  `json:"maxRotation"`
}
