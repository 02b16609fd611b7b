package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/glowdock/glowdock/internal/gso"
	"github.com/glowdock/glowdock/internal/scoring"
	"github.com/glowdock/glowdock/internal/setup"
	"github.com/glowdock/glowdock/internal/store"
	"github.com/spf13/cobra"
)

var (
	setupPath     string
	positionsPath string
	steps         int
	methodName    string
	seedOverride  int64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one swarm simulation",
	Long: `Runs the glowworm swarm optimization for one swarm: reads the setup
file and starting positions, builds the selected scoring function, and
writes gso_<step>.out checkpoints into the swarm's output directory.`,
	RunE: runSimulation,
}

func init() {
	runCmd.Flags().StringVar(&setupPath, "setup", "", "Setup file path (required)")
	runCmd.Flags().StringVar(&positionsPath, "positions", "", "Starting positions file, initial_positions_<id>.dat (required)")
	runCmd.Flags().IntVar(&steps, "steps", 100, "Simulation steps")
	runCmd.Flags().StringVar(&methodName, "method", "dfire", "Scoring method: dfire, contacts")
	runCmd.Flags().Int64Var(&seedOverride, "seed", 0, "Random seed (overrides the setup file)")

	runCmd.MarkFlagRequired("setup")
	runCmd.MarkFlagRequired("positions")
	rootCmd.AddCommand(runCmd)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	method, err := scoring.ParseMethod(methodName)
	if err != nil {
		return err
	}

	cfg, err := setup.Load(setupPath)
	if err != nil {
		return err
	}
	simDir := filepath.Dir(setupPath)

	swarmID, err := setup.SwarmID(positionsPath)
	if err != nil {
		return err
	}
	swarmDir := filepath.Join(filepath.Dir(positionsPath), fmt.Sprintf("swarm_%d", swarmID))

	// The setup collaborator creates the swarm directories; a missing one
	// means the wrong simulation directory.
	runStore, err := store.NewFSStore(swarmDir)
	if err != nil {
		return err
	}

	slog.Info("Reading starting positions", "path", positionsPath, "swarm_id", swarmID)
	positions, err := setup.ParsePositions(positionsPath)
	if err != nil {
		return err
	}

	scorer, err := buildScorer(method, cfg, simDir)
	if err != nil {
		return err
	}

	seed := gso.DefaultSeed
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	if cmd.Flags().Changed("seed") {
		seed = seedOverride
	}

	record := store.NewRunRecord(swarmID, string(method), steps, seed, len(positions), cfg.UseANM)
	if err := runStore.SaveRun(record); err != nil {
		return err
	}

	slog.Info("Creating GSO swarm",
		"run_id", record.RunID,
		"glowworms", len(positions),
		"method", method,
		"seed", seed,
		"use_anm", cfg.UseANM,
	)
	optimizer, err := gso.New(positions, seed, scorer, cfg.UseANM, cfg.ANMRec, cfg.ANMLig, swarmDir)
	if err != nil {
		return err
	}

	slog.Info("Starting optimization", "steps", steps)
	start := time.Now()
	if err := optimizer.Run(steps); err != nil {
		return err
	}
	elapsed := time.Since(start)

	slog.Info("Optimization complete", "steps", steps, "elapsed", elapsed)
	fmt.Printf("Swarm %d finished %d steps in %s\n", swarmID, steps, elapsed)
	return nil
}

// buildScorer loads both structures and instantiates the selected scoring
// method once. The scorer is shared read-only by the whole swarm.
func buildScorer(method scoring.Method, cfg *setup.File, simDir string) (scoring.Scorer, error) {
	var typer scoring.AtomTyper
	if method == scoring.MethodDFIRE {
		typer = scoring.DFIREAtomType
	}

	receptor, err := buildModel(resolvePath(simDir, cfg.ReceptorModel),
		resolvePath(simDir, cfg.ReceptorModes), cfg.ReceptorRestraints, cfg.UseANM, cfg.ANMRec, typer)
	if err != nil {
		return nil, fmt.Errorf("receptor: %w", err)
	}
	ligand, err := buildModel(resolvePath(simDir, cfg.LigandModel),
		resolvePath(simDir, cfg.LigandModes), cfg.LigandRestraints, cfg.UseANM, cfg.ANMLig, typer)
	if err != nil {
		return nil, fmt.Errorf("ligand: %w", err)
	}

	switch method {
	case scoring.MethodDFIRE:
		return scoring.NewDFIRE(receptor, ligand, cfg.UseANM, dataDir())
	case scoring.MethodContacts:
		return scoring.NewContacts(receptor, ligand, cfg.UseANM), nil
	default:
		return nil, fmt.Errorf("scoring method not supported: %q", method)
	}
}

func buildModel(modelPath, modesPath string, restraints *setup.Restraints,
	useANM bool, numANM int, typer scoring.AtomTyper) (*scoring.DockingModel, error) {

	slog.Info("Reading structure", "path", modelPath)
	structure, err := setup.LoadStructure(modelPath)
	if err != nil {
		return nil, err
	}

	var nmodes []float64
	if useANM && numANM > 0 {
		if modesPath == "" {
			return nil, fmt.Errorf("ANM is enabled with %d modes but no modes file is configured", numANM)
		}
		nmodes, err = setup.LoadModes(modesPath, len(structure.Atoms), numANM)
		if err != nil {
			return nil, err
		}
	} else {
		numANM = 0
	}

	var active, passive []string
	if restraints != nil {
		active = restraints.Active
		passive = restraints.Passive
	}

	return scoring.NewDockingModel(structure, active, passive, nmodes, numANM, typer)
}

func resolvePath(simDir, path string) string {
	if path == "" || filepath.IsAbs(path) || simDir == "" {
		return path
	}
	return filepath.Join(simDir, path)
}
