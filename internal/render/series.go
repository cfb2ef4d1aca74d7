package render

import (
	"image"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/danielpatrickdp/shapeitup/internal/trial"
)

// #region anchor-series
// anchorSeries is a go-chart series that draws nothing itself. During chart
// render it records where each point lands in pixel space so the icons can
// be composited afterwards.
type anchorSeries struct {
	name    string
	points  []trial.Point
	centres []image.Point
	box     chart.Box
}

func (s *anchorSeries) GetName() string { return s.name }

func (s *anchorSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }

func (s *anchorSeries) GetStyle() chart.Style { return chart.Style{} }

func (s *anchorSeries) Validate() error { return nil }

func (s *anchorSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	s.box = canvasBox
	s.centres = s.centres[:0]
	for _, p := range s.points {
		s.centres = append(s.centres, image.Point{
			X: canvasBox.Left + xrange.Translate(p.X),
			Y: canvasBox.Bottom - yrange.Translate(p.Y),
		})
	}
}

// #endregion anchor-series
