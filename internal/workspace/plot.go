package workspace

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/armkin/internal/fsutil"
)

const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 8 * vg.Inch
)

var (
	sampleColor = color.RGBA{R: 49, G: 104, B: 142, A: 255}
	restColor   = color.RGBA{R: 253, G: 231, B: 37, A: 255}
)

// NewPlot builds a scatter plot of samples in the given view, with the rest
// position highlighted.
func NewPlot(samples []Sample, v View, title string) (*plot.Plot, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text, p.Y.Label.Text = v.Labels()
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X, pts[i].Y = v.Project(s)
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("create scatter: %w", err)
	}
	scatter.GlyphStyle.Color = sampleColor
	scatter.GlyphStyle.Radius = vg.Points(1)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(scatter)
	p.Legend.Add(fmt.Sprintf("finger (%d samples)", len(samples)), scatter)

	rx, ry := v.Project(restSample())
	rest, err := plotter.NewScatter(plotter.XYs{{X: rx, Y: ry}})
	if err != nil {
		return nil, fmt.Errorf("create rest marker: %w", err)
	}
	rest.GlyphStyle.Color = restColor
	rest.GlyphStyle.Radius = vg.Points(4)
	rest.GlyphStyle.Shape = draw.PyramidGlyph{}
	p.Add(rest)
	p.Legend.Add("rest position", rest)

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p, nil
}

// WritePNG renders the plot for samples as a PNG to w.
func WritePNG(w io.Writer, samples []Sample, v View, title string) error {
	p, err := NewPlot(samples, v, title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return fmt.Errorf("create png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// SavePNGs writes one PNG per view into dir on fsys and returns the file
// paths.
func SavePNGs(fsys fsutil.FileSystem, dir string, samples []Sample, views ...View) ([]string, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	var paths []string
	for _, v := range views {
		path := filepath.Join(dir, fmt.Sprintf("workspace_%s.png", v))
		if err := savePNG(fsys, path, samples, v); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func savePNG(fsys fsutil.FileSystem, path string, samples []Sample, v View) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WritePNG(f, samples, v, fmt.Sprintf("K10S workspace (%s view)", v)); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return f.Close()
}
