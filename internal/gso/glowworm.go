// Package gso implements the glowworm swarm optimization engine that
// refines docking poses against a pluggable scoring function.
package gso

import (
	"math"

	"github.com/glowdock/glowdock/internal/geom"
	"github.com/glowdock/glowdock/internal/scoring"
)

const (
	// Luciferin dynamics: exponential decay plus fitness injection.
	rho   = 0.5
	gamma = 0.4
	// Vision-range adaptation rate.
	beta = 0.08

	initialLuciferin   = 5.0
	initialVisionRange = 0.2
	maxVisionRange     = 5.0
	maxNeighbors       = 5

	// Interpolation step magnitudes for one movement.
	translationStep = 0.5
	rotationStep    = 0.5
	nmodesStep      = 0.5

	// DefaultSeed seeds the shared random generator when the setup file
	// does not provide one.
	DefaultSeed int64 = 324324
)

// Glowworm is one candidate docking pose plus its swarm-optimization
// state. Every field except ID mutates each simulation step.
type Glowworm struct {
	ID          int
	Translation [3]float64
	Rotation    geom.Quaternion
	RecModes    []float64
	LigModes    []float64

	Luciferin     float64
	VisionRange   float64
	Neighbors     []int
	Probabilities []float64
	Scoring       float64
	Moved         bool
	Step          int
	UseANM        bool

	scorer scoring.Scorer
}

// NewGlowworm creates a glowworm at the given starting pose. The id must
// equal the glowworm's index in its swarm.
func NewGlowworm(id int, translation [3]float64, rotation geom.Quaternion,
	recModes, ligModes []float64, scorer scoring.Scorer, useANM bool) *Glowworm {
	return &Glowworm{
		ID:          id,
		Translation: translation,
		Rotation:    rotation,
		RecModes:    recModes,
		LigModes:    ligModes,
		Luciferin:   initialLuciferin,
		VisionRange: initialVisionRange,
		UseANM:      useANM,
		scorer:      scorer,
	}
}

// ComputeLuciferin refreshes the luciferin signal from the current
// energy. The energy is re-evaluated only when the pose changed since the
// last evaluation (or on the first step); it is invariant otherwise and
// the evaluation is by far the dominant cost of a step.
func (g *Glowworm) ComputeLuciferin() {
	if g.Moved || g.Step == 0 {
		g.Scoring = g.scorer.Energy(g.Translation, g.Rotation, g.RecModes, g.LigModes)
	}
	g.Luciferin = (1.0-rho)*g.Luciferin + gamma*g.Scoring
	g.Step++
}

// DistanceTo returns the Euclidean distance between the translation
// components of two glowworms.
func (g *Glowworm) DistanceTo(other *Glowworm) float64 {
	dx := g.Translation[0] - other.Translation[0]
	dy := g.Translation[1] - other.Translation[1]
	dz := g.Translation[2] - other.Translation[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// IsNeighbor reports whether other is a movement candidate for g: a
// distinct, brighter glowworm within g's vision range. The relation is
// asymmetric.
func (g *Glowworm) IsNeighbor(other *Glowworm) bool {
	if g.ID != other.ID && g.Luciferin < other.Luciferin {
		return g.DistanceTo(other) < g.VisionRange
	}
	return false
}

// UpdateVisionRange adapts the neighbor-search radius: it grows when the
// glowworm sees too few neighbors and shrinks when it sees too many,
// clamped to [0, maxVisionRange].
func (g *Glowworm) UpdateVisionRange() {
	g.VisionRange = math.Min(maxVisionRange,
		math.Max(0.0, g.VisionRange+beta*float64(maxNeighbors-len(g.Neighbors))))
}

// ComputeProbabilities rebuilds the movement-probability vector parallel
// to the neighbor list. Weights are luciferin differences, which are
// positive by construction of the neighbor set, normalized to sum to 1.
func (g *Glowworm) ComputeProbabilities(luciferins []float64) {
	g.Probabilities = make([]float64, 0, len(g.Neighbors))

	totalSum := 0.0
	for _, neighborID := range g.Neighbors {
		difference := luciferins[neighborID] - g.Luciferin
		g.Probabilities = append(g.Probabilities, difference)
		totalSum += difference
	}
	for i := range g.Probabilities {
		g.Probabilities[i] /= totalSum
	}
}

// SelectRandomNeighbor samples one neighbor id by inverse-CDF over the
// probability vector, via linear scan in neighbor-list order. With no
// neighbors the glowworm stays in place and its own id is returned.
func (g *Glowworm) SelectRandomNeighbor(u float64) int {
	if len(g.Neighbors) == 0 {
		return g.ID
	}
	sum := 0.0
	for i, p := range g.Probabilities {
		sum += p
		if sum >= u {
			return g.Neighbors[i]
		}
	}
	// Rounding can leave the accumulated sum a hair below 1.
	return g.Neighbors[len(g.Neighbors)-1]
}

// MoveTowards steps the pose toward the target glowworm's snapshot state:
// a fixed-magnitude translation along the displacement direction, a SLERP
// of the rotation, and a fixed-magnitude step in ANM coefficient space
// for each molecule with active modes. A zero-norm delta means that
// component is already at the target and is left unchanged.
func (g *Glowworm) MoveTowards(targetID int, translation [3]float64, rotation geom.Quaternion,
	recModes, ligModes []float64) {
	g.Moved = g.ID != targetID
	if !g.Moved {
		return
	}

	delta := [3]float64{
		translation[0] - g.Translation[0],
		translation[1] - g.Translation[1],
		translation[2] - g.Translation[2],
	}
	norm := math.Sqrt(delta[0]*delta[0] + delta[1]*delta[1] + delta[2]*delta[2])
	if norm > 0 {
		coef := translationStep / norm
		g.Translation[0] += delta[0] * coef
		g.Translation[1] += delta[1] * coef
		g.Translation[2] += delta[2] * coef
	}

	g.Rotation = g.Rotation.Slerp(rotation, rotationStep)

	if g.UseANM && len(g.RecModes) > 0 {
		stepModes(g.RecModes, recModes)
	}
	if g.UseANM && len(g.LigModes) > 0 {
		stepModes(g.LigModes, ligModes)
	}
}

// stepModes moves the coefficient vector a fixed distance toward target
// along the delta direction, in place.
func stepModes(modes, target []float64) {
	delta := make([]float64, len(modes))
	cumNorm := 0.0
	for i := range modes {
		delta[i] = target[i] - modes[i]
		cumNorm += delta[i] * delta[i]
	}
	norm := math.Sqrt(cumNorm)
	if norm == 0 {
		return
	}
	coef := nmodesStep / norm
	for i := range modes {
		modes[i] += delta[i] * coef
	}
}
