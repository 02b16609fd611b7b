package scoring

import (
	"fmt"

	"github.com/glowdock/glowdock/internal/geom"
)

// Atom is one atom record of a structure document, as produced by the
// external setup collaborator.
type Atom struct {
	Chain         string     `json:"chain"`
	ResidueName   string     `json:"residue_name"`
	ResidueNumber int        `json:"residue_number"`
	InsertionCode string     `json:"insertion_code,omitempty"`
	Name          string     `json:"name"`
	Coordinates   [3]float64 `json:"coordinates"`
}

// Structure is the parsed molecule consumed when building docking models.
type Structure struct {
	Atoms []Atom `json:"atoms"`
}

// AtomTyper maps a residue name and atom name to a numeric atom type
// code. Scoring methods that do not use type codes pass nil.
type AtomTyper func(residueName, atomName string) (int, error)

// DockingModel is the immutable per-molecule state shared read-only by
// all glowworms and energy evaluations. Normal-mode displacements are a
// flat array in mode-major order: index = mode*numAtoms*3 + atom*3 + axis.
type DockingModel struct {
	Atoms             []int
	Coordinates       [][3]float64
	Membrane          []int
	ActiveRestraints  map[string][]int
	PassiveRestraints map[string][]int
	NModes            []float64
	NumANM            int
}

// NewDockingModel builds a docking model from a structure document.
// Membrane beads are MMB residues with BJ atoms. Restraint residue
// identifiers follow the chain.resname.resnum[icode] convention.
// A mode array whose length disagrees with numAtoms*3*numANM is a fatal
// data-integrity error: truncating or zero-filling would silently corrupt
// every downstream energy.
func NewDockingModel(structure *Structure, activeRestraints, passiveRestraints []string,
	nmodes []float64, numANM int, typer AtomTyper) (*DockingModel, error) {

	if numANM > 0 && len(nmodes) != len(structure.Atoms)*3*numANM {
		return nil, fmt.Errorf("normal-mode array length %d does not correspond to %d atoms with %d modes",
			len(nmodes), len(structure.Atoms), numANM)
	}

	model := &DockingModel{
		Atoms:             make([]int, 0, len(structure.Atoms)),
		Coordinates:       make([][3]float64, 0, len(structure.Atoms)),
		ActiveRestraints:  make(map[string][]int),
		PassiveRestraints: make(map[string][]int),
		NModes:            nmodes,
		NumANM:            numANM,
	}

	active := make(map[string]bool, len(activeRestraints))
	for _, r := range activeRestraints {
		active[r] = true
	}
	passive := make(map[string]bool, len(passiveRestraints))
	for _, r := range passiveRestraints {
		passive[r] = true
	}

	for index, atom := range structure.Atoms {
		resID := fmt.Sprintf("%s.%s.%d%s", atom.Chain, atom.ResidueName, atom.ResidueNumber, atom.InsertionCode)

		if atom.ResidueName == "MMB" && atom.Name == "BJ" {
			model.Membrane = append(model.Membrane, index)
		}
		if active[resID] {
			model.ActiveRestraints[resID] = append(model.ActiveRestraints[resID], index)
		}
		if passive[resID] {
			model.PassiveRestraints[resID] = append(model.PassiveRestraints[resID], index)
		}

		code := 0
		if typer != nil {
			var err error
			code, err = typer(atom.ResidueName, atom.Name)
			if err != nil {
				return nil, err
			}
		}
		model.Atoms = append(model.Atoms, code)
		model.Coordinates = append(model.Coordinates, atom.Coordinates)
	}

	return model, nil
}

// PosedCoordinates returns the model coordinates under the given rigid
// transform, each atom rotated then translated, then perturbed by the
// weighted sum of its mode displacement vectors when ANM is active.
// Used for the ligand, which moves in the receptor's frame.
func (m *DockingModel) PosedCoordinates(translation [3]float64, rotation geom.Quaternion,
	modes []float64, useANM bool) [][3]float64 {

	coords := make([][3]float64, len(m.Coordinates))
	for i, c := range m.Coordinates {
		rotated := rotation.Rotate(c)
		coords[i][0] = rotated[0] + translation[0]
		coords[i][1] = rotated[1] + translation[1]
		coords[i][2] = rotated[2] + translation[2]
	}
	m.perturb(coords, modes, useANM)
	return coords
}

// DeformedCoordinates returns the model coordinates perturbed by ANM
// only. Used for the receptor, which is the fixed frame and is never
// rotated or translated.
func (m *DockingModel) DeformedCoordinates(modes []float64, useANM bool) [][3]float64 {
	coords := make([][3]float64, len(m.Coordinates))
	copy(coords, m.Coordinates)
	m.perturb(coords, modes, useANM)
	return coords
}

func (m *DockingModel) perturb(coords [][3]float64, modes []float64, useANM bool) {
	if !useANM || m.NumANM == 0 {
		return
	}
	numAtoms := len(coords)
	for iAtom := range coords {
		for iNM := 0; iNM < m.NumANM; iNM++ {
			base := iNM*numAtoms*3 + iAtom*3
			coords[iAtom][0] += m.NModes[base] * modes[iNM]
			coords[iAtom][1] += m.NModes[base+1] * modes[iNM]
			coords[iAtom][2] += m.NModes[base+2] * modes[iNM]
		}
	}
}
