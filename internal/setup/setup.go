// Package setup loads the simulation setup produced by the external
// setup collaborator: the setup file, structure documents, precomputed
// normal-mode vectors and starting-position files.
package setup

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/glowdock/glowdock/internal/scoring"
)

// Restraints lists the residue identifiers rewarded (active) or merely
// allowed (passive) at the predicted interface.
type Restraints struct {
	Active  []string `json:"active"`
	Passive []string `json:"passive"`
}

// File is the JSON simulation setup document.
type File struct {
	Seed              *int64      `json:"seed,omitempty"`
	UseANM            bool        `json:"use_anm"`
	ANMRec            int         `json:"anm_rec"`
	ANMLig            int         `json:"anm_lig"`
	Swarms            int         `json:"swarms"`
	Glowworms         int         `json:"glowworms"`
	ReceptorModel     string      `json:"receptor_model"`
	LigandModel       string      `json:"ligand_model"`
	ReceptorModes     string      `json:"receptor_modes,omitempty"`
	LigandModes       string      `json:"ligand_modes,omitempty"`
	ReceptorRestraints *Restraints `json:"receptor_restraints,omitempty"`
	LigandRestraints   *Restraints `json:"ligand_restraints,omitempty"`
}

// Load reads and decodes a setup file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading setup file: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing setup file %s: %w", path, err)
	}
	if f.ReceptorModel == "" || f.LigandModel == "" {
		return nil, fmt.Errorf("setup file %s must name receptor_model and ligand_model", path)
	}
	return &f, nil
}

// LoadStructure reads a structure document (the setup collaborator's
// parsed-molecule output).
func LoadStructure(path string) (*scoring.Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading structure: %w", err)
	}
	var s scoring.Structure
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing structure %s: %w", path, err)
	}
	if len(s.Atoms) == 0 {
		return nil, fmt.Errorf("structure %s contains no atoms", path)
	}
	return &s, nil
}

// LoadModes reads a flat normal-mode displacement array and validates its
// length against the structure: numAtoms*3*numModes values, mode-major.
// A mismatch is fatal; truncating or zero-filling would silently corrupt
// every downstream energy.
func LoadModes(path string, numAtoms, numModes int) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading normal modes: %w", err)
	}
	var modes []float64
	if err := json.Unmarshal(data, &modes); err != nil {
		return nil, fmt.Errorf("parsing normal modes %s: %w", path, err)
	}
	if len(modes) != numAtoms*3*numModes {
		return nil, fmt.Errorf("normal modes %s: %d values do not correspond to %d atoms with %d modes",
			path, len(modes), numAtoms, numModes)
	}
	return modes, nil
}

// ParsePositions reads a starting-positions file: whitespace-separated
// floats, one candidate pose per line.
func ParsePositions(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading starting positions: %w", err)
	}
	defer f.Close()

	var positions [][]float64
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		position := make([]float64, 0, len(fields))
		for _, field := range fields {
			value, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("starting positions %s line %d: %w", path, line, err)
			}
			position = append(position, value)
		}
		positions = append(positions, position)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading starting positions %s: %w", path, err)
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("starting positions %s: no poses found", path)
	}
	return positions, nil
}

// SwarmID recovers the swarm number from an initial_positions_<id>.dat
// filename.
func SwarmID(path string) (int, error) {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".dat")
	raw, ok := strings.CutPrefix(name, "initial_positions_")
	if !ok {
		return 0, fmt.Errorf("cannot parse swarm id from %q", path)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("cannot parse swarm id from %q: %w", path, err)
	}
	return id, nil
}
