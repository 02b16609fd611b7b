package gso

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/glowdock/glowdock/internal/geom"
	"github.com/glowdock/glowdock/internal/scoring"
)

// Swarm owns the ordered glowworm population. The i-th glowworm's id is
// always i; glowworms are never added, removed or reordered mid-run.
type Swarm struct {
	Glowworms []*Glowworm
}

// NewSwarm returns an empty swarm.
func NewSwarm() *Swarm {
	return &Swarm{}
}

// AddGlowworms creates one glowworm per starting-position vector. The
// vector layout is [tx ty tz qw qx qy qz], followed by recNumANM receptor
// mode coefficients and the ligand mode coefficients when ANM is enabled.
func (s *Swarm) AddGlowworms(positions [][]float64, scorer scoring.Scorer, useANM bool,
	recNumANM, ligNumANM int) error {

	for i, position := range positions {
		if len(position) < 7 {
			return fmt.Errorf("starting position %d has %d components, want at least 7", i, len(position))
		}
		if useANM && len(position) != 7+recNumANM+ligNumANM {
			return fmt.Errorf("starting position %d has %d components, want %d with %d receptor and %d ligand modes",
				i, len(position), 7+recNumANM+ligNumANM, recNumANM, ligNumANM)
		}

		translation := [3]float64{position[0], position[1], position[2]}
		rotation := geom.Quaternion{W: position[3], X: position[4], Y: position[5], Z: position[6]}

		var recModes, ligModes []float64
		if useANM && recNumANM > 0 {
			recModes = append(recModes, position[7:7+recNumANM]...)
		}
		if useANM && ligNumANM > 0 {
			ligModes = append(ligModes, position[7+recNumANM:]...)
		}

		s.Glowworms = append(s.Glowworms, NewGlowworm(i, translation, rotation, recModes, ligModes, scorer, useANM))
	}
	return nil
}

// UpdateLuciferin refreshes every glowworm's luciferin in index order.
// Each glowworm reads only its own prior state and the shared scorer, so
// the order does not affect the outcome.
func (s *Swarm) UpdateLuciferin() {
	for _, glowworm := range s.Glowworms {
		glowworm.ComputeLuciferin()
	}
}

// MovementPhase runs one synchronized movement step. All positions are
// snapshotted before any glowworm mutates, so every movement reads a
// consistent view of the population as it was at phase start. One random
// draw is consumed per glowworm, in index order, which makes runs with a
// fixed seed byte-reproducible.
func (s *Swarm) MovementPhase(rng *rand.Rand) {
	// Snapshot the mutable pose state.
	translations := make([][3]float64, len(s.Glowworms))
	rotations := make([]geom.Quaternion, len(s.Glowworms))
	recModes := make([][]float64, len(s.Glowworms))
	ligModes := make([][]float64, len(s.Glowworms))
	for i, glowworm := range s.Glowworms {
		translations[i] = glowworm.Translation
		rotations[i] = glowworm.Rotation
		recModes[i] = append([]float64(nil), glowworm.RecModes...)
		ligModes[i] = append([]float64(nil), glowworm.LigModes...)
	}

	// All-pairs neighbor discovery.
	neighbors := make([][]int, len(s.Glowworms))
	for i, g1 := range s.Glowworms {
		for j, g2 := range s.Glowworms {
			if i != j && g1.IsNeighbor(g2) {
				neighbors[i] = append(neighbors[i], g2.ID)
			}
		}
	}

	// Movement probabilities from the current luciferins, which are not
	// mutated during this phase.
	luciferins := make([]float64, len(s.Glowworms))
	for i, glowworm := range s.Glowworms {
		luciferins[i] = glowworm.Luciferin
	}
	for i, glowworm := range s.Glowworms {
		glowworm.Neighbors = neighbors[i]
		glowworm.ComputeProbabilities(luciferins)
	}

	// Move every glowworm toward a sampled neighbor's snapshot state.
	for _, glowworm := range s.Glowworms {
		targetID := glowworm.SelectRandomNeighbor(rng.Float64())
		glowworm.MoveTowards(targetID, translations[targetID], rotations[targetID],
			recModes[targetID], ligModes[targetID])
		glowworm.UpdateVisionRange()
	}
}

// Save writes the gso_<step>.out checkpoint for this swarm into dir, one
// record per glowworm in index order. The two literal zero columns are
// receptor/ligand identifier placeholders kept for format compatibility.
func (s *Swarm) Save(step int, dir string) error {
	path := filepath.Join(dir, fmt.Sprintf("gso_%d.out", step))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating checkpoint %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "#Coordinates  RecID  LigID  Luciferin  Neighbor's number  Vision Range  Scoring")
	for _, g := range s.Glowworms {
		fmt.Fprintf(w, "(%.7f, %.7f, %.7f, %.7f, %.7f, %.7f, %.7f",
			g.Translation[0], g.Translation[1], g.Translation[2],
			g.Rotation.W, g.Rotation.X, g.Rotation.Y, g.Rotation.Z)
		if g.UseANM && len(g.RecModes) > 0 {
			for _, v := range g.RecModes {
				fmt.Fprintf(w, ", %.7f", v)
			}
		}
		if g.UseANM && len(g.LigModes) > 0 {
			for _, v := range g.LigModes {
				fmt.Fprintf(w, ", %.7f", v)
			}
		}
		fmt.Fprintf(w, ")    0    0   %.8f  %d %.3f %.8f\n",
			g.Luciferin, len(g.Neighbors), g.VisionRange, g.Scoring)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing checkpoint %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing checkpoint %s: %w", path, err)
	}
	return nil
}
