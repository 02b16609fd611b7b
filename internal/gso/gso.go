package gso

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/glowdock/glowdock/internal/scoring"
)

// saveCadence is the checkpoint interval in steps. A checkpoint is also
// written after the first step.
const saveCadence = 10

// GSO drives one glowworm swarm optimization run: it owns the swarm and
// the single seeded random generator, and writes periodic checkpoints
// into the swarm's output directory.
type GSO struct {
	Swarm     *Swarm
	rng       *rand.Rand
	outputDir string
}

// New builds a GSO run from starting positions. The scorer is selected
// once at startup and shared read-only by every glowworm.
func New(positions [][]float64, seed int64, scorer scoring.Scorer, useANM bool,
	recNumANM, ligNumANM int, outputDir string) (*GSO, error) {

	g := &GSO{
		Swarm:     NewSwarm(),
		rng:       rand.New(rand.NewSource(seed)),
		outputDir: outputDir,
	}
	if err := g.Swarm.AddGlowworms(positions, scorer, useANM, recNumANM, ligNumANM); err != nil {
		return nil, err
	}
	return g, nil
}

// Run executes the fixed-step main loop: luciferin broadcast, then the
// synchronized movement phase, then a checkpoint on cadence. A checkpoint
// write failure aborts the run.
func (g *GSO) Run(steps int) error {
	for step := 1; step <= steps; step++ {
		slog.Debug("Simulation step", "step", step)
		g.Swarm.UpdateLuciferin()
		g.Swarm.MovementPhase(g.rng)
		if step%saveCadence == 0 || step == 1 {
			if err := g.Swarm.Save(step, g.outputDir); err != nil {
				return fmt.Errorf("saving GSO output: %w", err)
			}
		}
	}
	return nil
}
