// Package chart renders rate histories as PNG line charts.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/damon-houk/exchange-quotes-bot/internal/domain/entity"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// Renderer draws rate histories with gonum/plot
type Renderer struct {
	width  vg.Length
	height vg.Length
}

// NewRenderer creates a renderer producing charts of the default size
func NewRenderer() *Renderer {
	return &Renderer{width: 8 * vg.Inch, height: 5 * vg.Inch}
}

// Render draws points as a gridded line chart titled title and returns it as PNG
func (r *Renderer) Render(title string, points []entity.RatePoint) ([]byte, error) {
	if len(points) == 0 {
		return nil, errors.New("no points to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.Add(plotter.NewGrid())

	p.X.Tick.Marker = plot.TimeTicks{Format: entity.DateLayout}
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = float64(pt.Date.Unix())
		xys[i].Y = pt.Rate
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("failed to build chart line: %w", err)
	}
	p.Add(line)

	writer, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create chart writer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
