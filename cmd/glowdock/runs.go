package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/glowdock/glowdock/internal/store"
	"github.com/spf13/cobra"
)

var keepLast int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect and prune swarm run artifacts",
}

var runsListCmd = &cobra.Command{
	Use:   "list <swarm-dir>",
	Short: "List the run record and checkpoints of a swarm directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := store.NewFSStore(args[0])
		if err != nil {
			return err
		}

		record, err := fs.LoadRun()
		if err == nil {
			fmt.Printf("Run %s: swarm %d, method %s, %d steps, seed %d, %d glowworms\n",
				record.RunID, record.SwarmID, record.Method, record.Steps, record.Seed, record.Glowworms)
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		infos, err := fs.ListCheckpoints()
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("No checkpoints found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STEP\tSIZE\tMODIFIED\tPATH")
		for _, info := range infos {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\n",
				info.Step, info.Size, info.ModTime.Format("2006-01-02 15:04:05"), info.Path)
		}
		return w.Flush()
	},
}

var runsCleanCmd = &cobra.Command{
	Use:   "clean <swarm-dir>",
	Short: "Delete old checkpoints, keeping the most recent steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := store.NewFSStore(args[0])
		if err != nil {
			return err
		}

		deleted, err := fs.CleanCheckpoints(keepLast)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d checkpoint(s).\n", deleted)
		return nil
	},
}

func init() {
	runsCleanCmd.Flags().IntVar(&keepLast, "keep-last", 3, "Number of most recent checkpoints to keep")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsCleanCmd)
	rootCmd.AddCommand(runsCmd)
}
