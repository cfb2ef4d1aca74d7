package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	chart "github.com/wcharczuk/go-chart/v2"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/danielpatrickdp/shapeitup/internal/trial"
)

// #region config
// Config controls the plot geometry.
type Config struct {
	Width    int
	Height   int
	IconSize int     // square pixel footprint of every glyph
	Min      float64 // axis lower bound, both axes
	Max      float64 // axis upper bound, both axes
	Legend   bool
}

// DefaultConfig returns the fixed [-0.1, 1.6] plot with 18px glyphs.
func DefaultConfig() Config {
	return Config{
		Width:    640,
		Height:   480,
		IconSize: 18,
		Min:      -0.1,
		Max:      1.6,
		Legend:   true,
	}
}

// #endregion config

// #region renderer
// IconSource supplies decoded glyph images by filename.
type IconSource interface {
	Icon(filename string) (image.Image, error)
}

// Renderer draws trials as icon scatter plots.
type Renderer struct {
	cfg   Config
	icons IconSource
}

// New creates a renderer.
func New(cfg Config, icons IconSource) *Renderer {
	return &Renderer{cfg: cfg, icons: icons}
}

// Render returns t as PNG bytes.
func (r *Renderer) Render(t *trial.Trial) ([]byte, error) {
	img, _, err := r.draw(t)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode plot: %w", err)
	}
	return buf.Bytes(), nil
}

// #endregion renderer

// #region draw
// draw renders the axes with go-chart, then composites every group's icon
// over the recorded pixel centres. It returns the centres per group.
func (r *Renderer) draw(t *trial.Trial) (*image.RGBA, [][]image.Point, error) {
	anchors := make([]*anchorSeries, len(t.Groups))
	series := make([]chart.Series, len(t.Groups))
	for i, g := range t.Groups {
		anchors[i] = &anchorSeries{name: g.Label, points: g.Points}
		series[i] = anchors[i]
	}

	ch := chart.Chart{
		Width:      r.cfg.Width,
		Height:     r.cfg.Height,
		Background: chart.Style{Padding: chart.Box{Top: 16, Left: 16, Right: 12, Bottom: 12}},
		XAxis:      chart.XAxis{Name: "X", Range: &chart.ContinuousRange{Min: r.cfg.Min, Max: r.cfg.Max}},
		YAxis:      chart.YAxis{Name: "Y", Range: &chart.ContinuousRange{Min: r.cfg.Min, Max: r.cfg.Max}},
		Series:     series,
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, nil, fmt.Errorf("render chart: %w", err)
	}
	base, err := png.Decode(&buf)
	if err != nil {
		return nil, nil, fmt.Errorf("decode chart: %w", err)
	}
	b := base.Bounds()
	dst := image.NewRGBA(b)
	xdraw.Draw(dst, b, base, b.Min, xdraw.Src)

	glyphs := make([]image.Image, len(t.Groups))
	centres := make([][]image.Point, len(t.Groups))
	half := r.cfg.IconSize / 2
	for i, g := range t.Groups {
		glyph, err := r.glyph(g.Icon)
		if err != nil {
			return nil, nil, err
		}
		glyphs[i] = glyph
		centres[i] = anchors[i].centres
		for _, c := range anchors[i].centres {
			rect := image.Rect(c.X-half, c.Y-half, c.X-half+r.cfg.IconSize, c.Y-half+r.cfg.IconSize)
			xdraw.Draw(dst, rect, glyph, glyph.Bounds().Min, xdraw.Over)
		}
	}

	if r.cfg.Legend && len(anchors) > 0 {
		r.legend(dst, anchors[0].box, t.Labels(), glyphs)
	}
	return dst, centres, nil
}

// glyph loads an icon and scales it to the configured footprint.
func (r *Renderer) glyph(filename string) (image.Image, error) {
	src, err := r.icons.Icon(filename)
	if err != nil {
		return nil, fmt.Errorf("load glyph %s: %w", filename, err)
	}
	out := image.NewRGBA(image.Rect(0, 0, r.cfg.IconSize, r.cfg.IconSize))
	xdraw.CatmullRom.Scale(out, out.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return out, nil
}

// #endregion draw

// #region legend
// legend draws one row per group, icon then label, in the top-right corner
// of the plotting area.
func (r *Renderer) legend(dst *image.RGBA, box chart.Box, labels []string, glyphs []image.Image) {
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: dst, Src: image.Black, Face: face}

	textW := 0
	for _, l := range labels {
		if w := dr.MeasureString(l).Ceil(); w > textW {
			textW = w
		}
	}
	pad := 6
	rowH := r.cfg.IconSize + 4
	w := pad + r.cfg.IconSize + pad + textW + pad
	h := pad + rowH*len(labels) + pad - 4

	x0 := box.Right - w - 8
	y0 := box.Top + 8
	frame := image.Rect(x0, y0, x0+w, y0+h)
	xdraw.Draw(dst, frame, image.NewUniform(color.Gray{Y: 160}), image.Point{}, xdraw.Src)
	xdraw.Draw(dst, frame.Inset(1), image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 230}), image.Point{}, xdraw.Over)

	ascent := face.Metrics().Ascent.Ceil()
	for i, l := range labels {
		top := y0 + pad + i*rowH
		icon := image.Rect(x0+pad, top, x0+pad+r.cfg.IconSize, top+r.cfg.IconSize)
		xdraw.Draw(dst, icon, glyphs[i], glyphs[i].Bounds().Min, xdraw.Over)

		baseline := top + (r.cfg.IconSize+ascent)/2
		dr.Dot = fixed.Point26_6{X: fixed.I(icon.Max.X + pad), Y: fixed.I(baseline)}
		dr.DrawString(l)
	}
}

// #endregion legend
