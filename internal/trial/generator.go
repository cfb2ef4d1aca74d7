package trial

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/danielpatrickdp/shapeitup/internal/assets"
)

// #region source
// IconSource is the part of the asset catalog the generator samples from.
type IconSource interface {
	Bucket(style assets.Style) []string
	Require(style assets.Style, need int) error
	Sample(style assets.Style, n int, rng *rand.Rand) ([]string, error)
}

// #endregion source

// #region generator
// Generator builds trials from the icon catalog. It is shared by all
// sessions; Generate serializes access to the random source.
type Generator struct {
	mu     sync.Mutex
	cfg    Config
	source IconSource
	rng    *rand.Rand
}

// NewGenerator creates a generator. rng is owned by the generator from here on.
func NewGenerator(cfg Config, source IconSource, rng *rand.Rand) *Generator {
	return &Generator{cfg: cfg, source: source, rng: rng}
}

// Config returns the generator's sampling parameters.
func (g *Generator) Config() Config {
	return g.cfg
}

// #endregion generator

// #region validate
// Validate checks that every bucket the generator may draw from can supply
// at least MinGroups icons. The returned error names the deficient bucket.
func (g *Generator) Validate() error {
	if g.cfg.MinGroups < 1 || g.cfg.MaxGroups < g.cfg.MinGroups {
		return fmt.Errorf("invalid group range [%d, %d]", g.cfg.MinGroups, g.cfg.MaxGroups)
	}
	for _, s := range assets.Styles {
		if err := g.source.Require(s, g.cfg.MinGroups); err != nil {
			return err
		}
	}
	return nil
}

// #endregion validate

// #region generate
// Generate samples a fresh trial for task index.
func (g *Generator) Generate(index int, phase Phase) (*Trial, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var (
		style string
		icons []string
		err   error
	)
	if g.cfg.StyleMode == StyleMixed {
		style = string(StyleMixed)
		icons, err = g.mixedIcons()
	} else {
		s := g.pickStyle(index)
		style = string(s)
		icons, err = g.bucketIcons(s)
	}
	if err != nil {
		return nil, err
	}

	n := len(icons)
	means := g.targetMeans(n)
	labels := g.labels(icons)

	t := &Trial{
		Index:  index,
		Phase:  phase,
		Style:  style,
		Groups: make([]Group, n),
	}
	for i := range icons {
		t.Groups[i] = Group{
			Label:  labels[i],
			Icon:   icons[i],
			Points: g.points(means, i),
		}
	}
	return t, nil
}

func (g *Generator) pickStyle(index int) assets.Style {
	if g.cfg.StyleMode == StyleRandom {
		return assets.Styles[g.rng.IntN(len(assets.Styles))]
	}
	return assets.Styles[index%len(assets.Styles)]
}

func (g *Generator) bucketIcons(style assets.Style) ([]string, error) {
	size := len(g.source.Bucket(style))
	if err := g.source.Require(style, g.cfg.MinGroups); err != nil {
		return nil, err
	}
	n := g.groupCount(size)
	return g.source.Sample(style, n, g.rng)
}

// mixedIcons draws a bucket per icon until N distinct icons are gathered.
func (g *Generator) mixedIcons() ([]string, error) {
	total := 0
	for _, s := range assets.Styles {
		if err := g.source.Require(s, 1); err != nil {
			return nil, err
		}
		total += len(g.source.Bucket(s))
	}
	n := g.groupCount(total)

	seen := make(map[string]bool, n)
	icons := make([]string, 0, n)
	for len(icons) < n {
		bucket := g.source.Bucket(assets.Styles[g.rng.IntN(len(assets.Styles))])
		icon := bucket[g.rng.IntN(len(bucket))]
		if seen[icon] {
			continue
		}
		seen[icon] = true
		icons = append(icons, icon)
	}
	return icons, nil
}

// groupCount picks N uniformly from [MinGroups, min(MaxGroups, available)].
func (g *Generator) groupCount(available int) int {
	hi := g.cfg.MaxGroups
	if available < hi {
		hi = available
	}
	if hi <= g.cfg.MinGroups {
		return hi
	}
	return g.cfg.MinGroups + g.rng.IntN(hi-g.cfg.MinGroups+1)
}

// targetMeans returns per-group target means, with one group boosted.
// Nil for the uniform distribution.
func (g *Generator) targetMeans(n int) []float64 {
	if g.cfg.Distribution == DistUniform {
		return nil
	}
	means := make([]float64, n)
	for i := range means {
		means[i] = g.cfg.MeanMin + g.rng.Float64()*(g.cfg.MeanMax-g.cfg.MeanMin)
	}
	means[g.rng.IntN(n)] += g.cfg.WinnerBoost
	return means
}

func (g *Generator) points(means []float64, group int) []Point {
	pts := make([]Point, g.cfg.PointsPerGroup)
	for i := range pts {
		pts[i].X = g.rng.Float64() * g.cfg.CoordMax
		if means == nil {
			pts[i].Y = g.rng.Float64() * g.cfg.CoordMax
		} else {
			pts[i].Y = means[group] + g.cfg.StdDev*g.rng.NormFloat64()
		}
	}
	return pts
}

func (g *Generator) labels(icons []string) []string {
	out := make([]string, len(icons))
	if g.cfg.LabelMode == LabelGeneric {
		for i := range icons {
			out[i] = GenericLabel(g.cfg.CategoryLabel, i)
		}
		return out
	}
	for i, icon := range icons {
		out[i] = LabelFromFilename(icon)
	}
	return Distinct(out)
}

// #endregion generate
