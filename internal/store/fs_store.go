package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

const runRecordFile = "run.json"

var checkpointPattern = regexp.MustCompile(`^gso_(\d+)\.out$`)

// FSStore manages the artifacts of one swarm directory: the run.json
// record and the gso_N.out checkpoint files written by the engine.
//
// Writes use the temp-file + rename pattern so a crash never leaves a
// half-written record behind.
type FSStore struct {
	dir string
}

// NewFSStore opens a store over an existing swarm directory. The
// directory must already exist: the setup collaborator creates it, and
// refusing to create it here catches mistyped paths before a long run.
func NewFSStore(dir string) (*FSStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("swarm directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("swarm directory %s is not a directory", dir)
	}
	return &FSStore{dir: dir}, nil
}

// Dir returns the swarm directory this store manages.
func (fs *FSStore) Dir() string {
	return fs.dir
}

// SaveRun atomically writes the run record.
func (fs *FSStore) SaveRun(record *RunRecord) error {
	if record == nil {
		return fmt.Errorf("run record cannot be nil")
	}
	if err := record.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize run record: %w", err)
	}

	finalPath := filepath.Join(fs.dir, runRecordFile)
	tempPath := finalPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp run record: %w", err)
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename run record: %w", err)
	}

	slog.Debug("Run record saved", "run_id", record.RunID, "path", finalPath)
	return nil
}

// LoadRun reads the run record. Returns a NotFoundError when the swarm
// directory has no record.
func (fs *FSStore) LoadRun() (*RunRecord, error) {
	path := filepath.Join(fs.dir, runRecordFile)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &NotFoundError{Dir: fs.dir}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read run record: %w", err)
	}

	var record RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to deserialize run record: %w", err)
	}
	return &record, nil
}

// ListCheckpoints returns the metadata of every gso_N.out checkpoint in
// the swarm directory, sorted by step.
func (fs *FSStore) ListCheckpoints() ([]CheckpointInfo, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan swarm directory: %w", err)
	}

	var infos []CheckpointInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := checkpointPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		step, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat checkpoint %s: %w", entry.Name(), err)
		}
		infos = append(infos, CheckpointInfo{
			Step:    step,
			Path:    filepath.Join(fs.dir, entry.Name()),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Step < infos[j].Step })
	return infos, nil
}

// CleanCheckpoints deletes all but the keepLast highest-step checkpoints
// and returns how many files were removed. keepLast <= 0 keeps
// everything.
func (fs *FSStore) CleanCheckpoints(keepLast int) (int, error) {
	if keepLast <= 0 {
		return 0, nil
	}

	infos, err := fs.ListCheckpoints()
	if err != nil {
		return 0, err
	}
	if len(infos) <= keepLast {
		return 0, nil
	}

	deleted := 0
	for _, info := range infos[:len(infos)-keepLast] {
		if err := os.Remove(info.Path); err != nil {
			return deleted, fmt.Errorf("failed to delete checkpoint %s: %w", info.Path, err)
		}
		slog.Info("Deleted checkpoint", "path", info.Path, "step", info.Step)
		deleted++
	}
	return deleted, nil
}
