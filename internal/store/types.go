package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunRecord describes one simulation run. It is written into the swarm
// directory next to the gso_N.out checkpoints so a run can be identified
// and audited after the fact.
type RunRecord struct {
	// RunID uniquely identifies this run.
	RunID string `json:"runId"`

	// SwarmID is the swarm number parsed from the starting-positions
	// filename.
	SwarmID int `json:"swarmId"`

	// Method is the scoring method the run was started with.
	Method string `json:"method"`

	// Steps is the requested simulation step count.
	Steps int `json:"steps"`

	// Seed is the random generator seed, recorded for reproducibility.
	Seed int64 `json:"seed"`

	// Glowworms is the swarm population size.
	Glowworms int `json:"glowworms"`

	// UseANM records whether normal-mode deformation was active.
	UseANM bool `json:"useAnm"`

	// Timestamp records when the run started.
	Timestamp time.Time `json:"timestamp"`
}

// NewRunRecord creates a run record with a fresh id.
func NewRunRecord(swarmID int, method string, steps int, seed int64, glowworms int, useANM bool) *RunRecord {
	return &RunRecord{
		RunID:     uuid.New().String(),
		SwarmID:   swarmID,
		Method:    method,
		Steps:     steps,
		Seed:      seed,
		Glowworms: glowworms,
		UseANM:    useANM,
		Timestamp: time.Now(),
	}
}

// Validate checks that the record describes a runnable simulation.
func (r *RunRecord) Validate() error {
	if r.RunID == "" {
		return &ValidationError{Field: "RunID", Reason: "cannot be empty"}
	}
	if r.Method == "" {
		return &ValidationError{Field: "Method", Reason: "cannot be empty"}
	}
	if r.Steps <= 0 {
		return &ValidationError{Field: "Steps", Reason: "must be positive"}
	}
	if r.Glowworms <= 0 {
		return &ValidationError{Field: "Glowworms", Reason: "must be positive"}
	}
	if r.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	return nil
}

// ValidationError represents a run record validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// CheckpointInfo is the metadata of one gso_N.out checkpoint file.
type CheckpointInfo struct {
	Step    int       `json:"step"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

func (c CheckpointInfo) String() string {
	return fmt.Sprintf("gso_%d.out (%d bytes)", c.Step, c.Size)
}
