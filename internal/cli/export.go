package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talgya/novelgen/internal/persistence"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an archived run as compressed JSONL",
		Long:  "Write every archived log line of a run (default: the latest) as zstd-compressed JSON lines.",
		Run:   runExport,
	}

	cmd.Flags().StringP("run", "r", "", "Run id (default: latest)")
	cmd.Flags().StringP("out", "o", "", "Output path (default: <run>.jsonl.zst)")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	runID, _ := cmd.Flags().GetString("run")
	out, _ := cmd.Flags().GetString("out")

	db, err := openArchive()
	if err != nil {
		exitErr("open archive", err)
	}
	defer db.Close()

	run, err := resolveRun(cmd, db, runID)
	if err != nil {
		exitErr("find run", err)
	}
	entries, err := db.AllNarrative(cmd.Context(), run.ID)
	if err != nil {
		exitErr("load narrative", err)
	}

	if out == "" {
		out = run.ID + ".jsonl.zst"
	}
	n, err := persistence.ExportNarrative(out, entries)
	if err != nil {
		exitErr("export", err)
	}
	fmt.Printf("Exported %d entries of run %s to %s\n", n, run.ID, out)
}
