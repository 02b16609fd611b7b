package scoring

import "github.com/glowdock/glowdock/internal/geom"

// Contacts is the simplest conforming scorer: one unit of energy per
// receptor/ligand atom pair within the 15Å cutoff. It exercises the full
// bias composition and serves as a cheap sanity method for swarm tuning.
type Contacts struct {
	receptor *DockingModel
	ligand   *DockingModel
	useANM   bool
}

// NewContacts builds the contact-count scorer from prebuilt docking
// models.
func NewContacts(receptor, ligand *DockingModel, useANM bool) *Contacts {
	return &Contacts{receptor: receptor, ligand: ligand, useANM: useANM}
}

// Energy counts atom pairs in contact and applies the shared bias.
func (s *Contacts) Energy(translation [3]float64, rotation geom.Quaternion, recModes, ligModes []float64) float64 {
	receptorCoordinates := s.receptor.DeformedCoordinates(recModes, s.useANM)
	ligandCoordinates := s.ligand.PosedCoordinates(translation, rotation, ligModes, s.useANM)

	interfaceReceptor := make([]int, len(receptorCoordinates))
	interfaceLigand := make([]int, len(ligandCoordinates))

	score := 0.0
	for i, ra := range receptorCoordinates {
		for j, la := range ligandCoordinates {
			dx := ra[0] - la[0]
			dy := ra[1] - la[1]
			dz := ra[2] - la[2]
			dist := dx*dx + dy*dy + dz*dz
			if dist <= DistanceCutoff2 {
				score += 1.0
				if dist <= InterfaceCutoff2 {
					interfaceReceptor[i] = 1
					interfaceLigand[j] = 1
				}
			}
		}
	}

	return BiasScore(score, interfaceReceptor, interfaceLigand, s.receptor, s.ligand)
}
