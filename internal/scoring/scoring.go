// Package scoring defines the energy-function contract consumed by the
// GSO engine, the docking-model data it evaluates, and the concrete
// scoring implementations selectable at startup.
package scoring

import (
	"fmt"
	"strings"

	"github.com/glowdock/glowdock/internal/geom"
)

const (
	// DistanceCutoff2 is the squared pairwise distance (15Å) beyond which
	// atom pairs contribute nothing to any potential.
	DistanceCutoff2 = 225.0

	// InterfaceCutoff marks atoms as interface atoms for restraint and
	// membrane bookkeeping.
	InterfaceCutoff  = 3.9
	InterfaceCutoff2 = InterfaceCutoff * InterfaceCutoff

	// MembranePenaltyScore scales the membrane-intersection penalty.
	MembranePenaltyScore = 999.0
)

// Scorer computes a scalar energy for a rigid-body pose plus optional
// normal-mode coefficients. Implementations are deterministic pure
// functions of their inputs and their immutable models; higher is better.
type Scorer interface {
	Energy(translation [3]float64, rotation geom.Quaternion, recModes, ligModes []float64) float64
}

// Method selects a concrete scoring implementation at startup.
type Method string

const (
	MethodDFIRE    Method = "dfire"
	MethodContacts Method = "contacts"
)

// ParseMethod validates a method name from the command line.
func ParseMethod(name string) (Method, error) {
	switch Method(strings.ToLower(name)) {
	case MethodDFIRE:
		return MethodDFIRE, nil
	case MethodContacts:
		return MethodContacts, nil
	default:
		return "", fmt.Errorf("scoring method not supported: %q", name)
	}
}

// SatisfiedRestraints returns the fraction of restraint residues with at
// least one atom marked in the interface. Zero when no restraints exist.
func SatisfiedRestraints(interfaceFlags []int, restraints map[string][]int) float64 {
	if len(restraints) == 0 {
		return 0.0
	}
	satisfied := 0
	for _, atomIndexes := range restraints {
		for _, i := range atomIndexes {
			if interfaceFlags[i] == 1 {
				satisfied++
				break
			}
		}
	}
	return float64(satisfied) / float64(len(restraints))
}

// MembraneIntersection returns the fraction of membrane bead atoms marked
// in the interface. Zero when the model has no membrane beads.
func MembraneIntersection(interfaceFlags []int, membrane []int) float64 {
	if len(membrane) == 0 {
		return 0.0
	}
	beads := 0
	for _, i := range membrane {
		beads += interfaceFlags[i]
	}
	return float64(beads) / float64(len(membrane))
}

// BiasScore composes the raw pairwise energy with the restraint reward
// and membrane penalty. Shared by every scoring implementation.
func BiasScore(score float64, interfaceRec, interfaceLig []int, receptor, ligand *DockingModel) float64 {
	percReceptor := SatisfiedRestraints(interfaceRec, receptor.ActiveRestraints)
	percLigand := SatisfiedRestraints(interfaceLig, ligand.ActiveRestraints)

	membranePenalty := 0.0
	if intersection := MembraneIntersection(interfaceRec, receptor.Membrane); intersection > 0.0 {
		membranePenalty = MembranePenaltyScore * intersection
	}

	return score + percReceptor*score + percLigand*score - membranePenalty
}
