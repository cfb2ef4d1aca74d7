package trial

import (
	"gonum.org/v1/gonum/stat"
)

// #region phase
// Phase is the part of the session a trial belongs to.
type Phase string

const (
	PhasePractice   Phase = "practice"
	PhaseExperiment Phase = "experiment"
)

// #endregion phase

// #region modes
// StyleMode decides which style bucket a trial draws its icons from.
type StyleMode string

const (
	StyleCycle  StyleMode = "cycle"  // task index mod 3
	StyleRandom StyleMode = "random" // uniform per trial
	StyleMixed  StyleMode = "mixed"  // a bucket per icon
)

// Distribution decides how Y values are sampled.
type Distribution string

const (
	DistNormal  Distribution = "normal"
	DistUniform Distribution = "uniform"
)

// LabelMode decides how groups are named in the plot and the selector.
type LabelMode string

const (
	LabelShape   LabelMode = "shape"
	LabelGeneric LabelMode = "generic"
)

// #endregion modes

// #region point-group
// Point is one plotted sample.
type Point struct {
	X float64
	Y float64
}

// Group is one labeled cluster of points sharing an icon.
type Group struct {
	Label  string
	Icon   string
	Points []Point
}

// MeanY is the average Y of the group's points.
func (g Group) MeanY() float64 {
	ys := make([]float64, len(g.Points))
	for i, p := range g.Points {
		ys[i] = p.Y
	}
	return stat.Mean(ys, nil)
}

// #endregion point-group

// #region trial
// Trial is one rendered question. It is not modified after generation.
type Trial struct {
	Index  int
	Phase  Phase
	Style  string
	Groups []Group
}

// GroupCount returns N.
func (t *Trial) GroupCount() int {
	return len(t.Groups)
}

// Labels returns group labels in display order.
func (t *Trial) Labels() []string {
	out := make([]string, len(t.Groups))
	for i, g := range t.Groups {
		out[i] = g.Label
	}
	return out
}

// Icons returns group icon filenames in display order.
func (t *Trial) Icons() []string {
	out := make([]string, len(t.Groups))
	for i, g := range t.Groups {
		out[i] = g.Icon
	}
	return out
}

// Winner returns the index of the group with the highest mean Y.
func (t *Trial) Winner() int {
	return Winner(t.Groups)
}

// WinnerLabel returns the label of the winning group.
func (t *Trial) WinnerLabel() string {
	w := t.Winner()
	if w < 0 {
		return ""
	}
	return t.Groups[w].Label
}

// #endregion trial

// #region config
// Config holds the sampling parameters for trial generation.
type Config struct {
	MinGroups      int
	MaxGroups      int
	PointsPerGroup int
	CoordMax       float64 // X (and uniform Y) drawn from [0, CoordMax]
	MeanMin        float64
	MeanMax        float64
	WinnerBoost    float64 // added to one group's target mean
	StdDev         float64
	StyleMode      StyleMode
	Distribution   Distribution
	LabelMode      LabelMode
	CategoryLabel  string // prefix for generic labels
}

// DefaultConfig returns the balanced variant: styles cycled by task index,
// tight normal clusters with a guaranteed winner, shape-derived labels.
func DefaultConfig() Config {
	return Config{
		MinGroups:      2,
		MaxGroups:      8,
		PointsPerGroup: 20,
		CoordMax:       1.5,
		MeanMin:        0.2,
		MeanMax:        1.0,
		WinnerBoost:    0.25,
		StdDev:         0.05,
		StyleMode:      StyleCycle,
		Distribution:   DistNormal,
		LabelMode:      LabelShape,
		CategoryLabel:  "Kategori",
	}
}

// #endregion config
