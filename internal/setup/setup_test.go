package setup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSetup(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "setup.json", `{
		"seed": 42,
		"use_anm": true,
		"anm_rec": 2,
		"anm_lig": 3,
		"swarms": 4,
		"glowworms": 200,
		"receptor_model": "rec.json",
		"ligand_model": "lig.json",
		"receptor_restraints": {"active": ["A.ALA.1"], "passive": []}
	}`)

	f, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, f.Seed)
	assert.Equal(t, int64(42), *f.Seed)
	assert.True(t, f.UseANM)
	assert.Equal(t, 2, f.ANMRec)
	assert.Equal(t, 3, f.ANMLig)
	assert.Equal(t, 200, f.Glowworms)
	require.NotNil(t, f.ReceptorRestraints)
	assert.Equal(t, []string{"A.ALA.1"}, f.ReceptorRestraints.Active)
	assert.Nil(t, f.LigandRestraints)
}

func TestLoadSetupMissingModels(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "setup.json", `{"glowworms": 10}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadSetupMalformed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "setup.json", `{not json`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadStructure(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rec.json", `{
		"atoms": [
			{"chain": "A", "residue_name": "ALA", "residue_number": 1,
			 "name": "CA", "coordinates": [1.0, 2.0, 3.0]}
		]
	}`)

	s, err := LoadStructure(path)
	require.NoError(t, err)
	require.Len(t, s.Atoms, 1)
	assert.Equal(t, "ALA", s.Atoms[0].ResidueName)
	assert.Equal(t, [3]float64{1, 2, 3}, s.Atoms[0].Coordinates)
}

func TestLoadStructureEmpty(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rec.json", `{"atoms": []}`)
	_, err := LoadStructure(path)
	assert.Error(t, err)
}

func TestLoadModes(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rec_nm.json", `[1, 2, 3, 4, 5, 6]`)

	modes, err := LoadModes(path, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, modes)
}

func TestLoadModesLengthMismatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rec_nm.json", `[1, 2, 3]`)

	_, err := LoadModes(path, 2, 2)
	assert.ErrorContains(t, err, "do not correspond")
}

func TestParsePositions(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "initial_positions_0.dat",
		"1.0 2.0 3.0 1.0 0.0 0.0 0.0\n"+
			"  4.0  5.0\t6.0 0.0 1.0 0.0 0.0  \n")

	positions, err := ParsePositions(path)
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, []float64{1, 2, 3, 1, 0, 0, 0}, positions[0])
	assert.Equal(t, []float64{4, 5, 6, 0, 1, 0, 0}, positions[1])
}

func TestParsePositionsBadValue(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "initial_positions_0.dat", "1.0 2.0\n1.0 oops\n")

	_, err := ParsePositions(path)
	assert.ErrorContains(t, err, "line 2")
}

func TestParsePositionsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "initial_positions_0.dat", "\n\n")
	_, err := ParsePositions(path)
	assert.Error(t, err)
}

func TestSwarmID(t *testing.T) {
	id, err := SwarmID("/sim/initial_positions_17.dat")
	require.NoError(t, err)
	assert.Equal(t, 17, id)

	_, err = SwarmID("/sim/positions.dat")
	assert.Error(t, err)

	_, err = SwarmID("/sim/initial_positions_x.dat")
	assert.Error(t, err)
}
