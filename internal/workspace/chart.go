package workspace

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/armkin/internal/kinematics"
)

var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

func restSample() Sample {
	return Sample{Finger: kinematics.RestPosition()}
}

// ScatterData projects samples for an echarts scatter series. The third value
// of each point is the finger height, used to colour the points.
func ScatterData(samples []Sample, v View) []opts.ScatterData {
	data := make([]opts.ScatterData, 0, len(samples))
	for _, s := range samples {
		x, y := v.Project(s)
		data = append(data, opts.ScatterData{
			Value: []interface{}{round3(x), round3(y), round3(s.Finger.Y)},
			Name:  s.Angles.String(),
		})
	}
	return data
}

// NewChart builds an echarts scatter chart of samples.
func NewChart(samples []Sample, v View, subtitle string) (*charts.Scatter, error) {
	st, err := ComputeStats(samples)
	if err != nil {
		return nil, err
	}
	pad := float32(math.Ceil(st.MaxDistance*10) / 10)
	xLabel, yLabel := v.Labels()
	xMin := -pad
	if v == ViewSide {
		xMin = 0
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Arm Workspace", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Arm Workspace (%s view)", v), Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: xMin, Max: pad, Name: xLabel, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: yLabel, NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(st.MinBound.Y),
			Max:        float32(st.MaxBound.Y),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	scatter.AddSeries("finger", ScatterData(samples, v), charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))
	return scatter, nil
}

// RenderChart writes the chart for samples as a standalone HTML page.
func RenderChart(w io.Writer, samples []Sample, v View, subtitle string) error {
	scatter, err := NewChart(samples, v, subtitle)
	if err != nil {
		return err
	}
	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
