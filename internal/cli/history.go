package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/novelgen/internal/engine"
	"github.com/talgya/novelgen/internal/persistence"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show archived runs and stories",
		Long:  "Print one agent's archived story for a run (default: the latest run). With --list, print the runs instead.",
		Run:   runHistory,
	}

	cmd.Flags().StringP("run", "r", "", "Run id (default: latest)")
	cmd.Flags().IntP("agent", "a", 0, "Agent id")
	cmd.Flags().Bool("list", false, "List archived runs")
	cmd.Flags().Int("limit", 20, "Maximum runs to list")
	cmd.Flags().Bool("json", false, "Print JSON instead of text")

	RootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	runID, _ := cmd.Flags().GetString("run")
	agentID, _ := cmd.Flags().GetInt("agent")
	list, _ := cmd.Flags().GetBool("list")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	db, err := openArchive()
	if err != nil {
		exitErr("open archive", err)
	}
	defer db.Close()
	ctx := cmd.Context()

	if list {
		runs, err := db.Runs(ctx, limit)
		if err != nil {
			exitErr("list runs", err)
		}
		if asJSON {
			if err := printJSON(os.Stdout, runs); err != nil {
				exitErr("encode runs", err)
			}
			return
		}
		for _, r := range runs {
			fmt.Printf("%s  seed=%-20d scale=%-3d agents=%-4d ticks=%-6d %s\n",
				r.ID, r.Seed, r.Scale, r.Agents, r.Ticks, r.StartedAt.Format("2006-01-02 15:04"))
		}
		return
	}

	run, err := resolveRun(cmd, db, runID)
	if err != nil {
		exitErr("find run", err)
	}
	entries, err := db.Narrative(ctx, run.ID, agentID)
	if err != nil {
		exitErr("load narrative", err)
	}
	metrics, err := db.LatestMetrics(ctx, run.ID)
	if err != nil {
		exitErr("load metrics", err)
	}

	if asJSON {
		err := printJSON(os.Stdout, struct {
			Run     persistence.Run      `json:"run"`
			Entries []persistence.Entry  `json:"entries"`
			Metrics []persistence.Metric `json:"metrics"`
		}{run, entries, metrics})
		if err != nil {
			exitErr("encode history", err)
		}
		return
	}

	if len(entries) == 0 {
		fmt.Printf("Run %s has no story for agent %d.\n", run.ID, agentID)
		return
	}
	fmt.Printf("The story of %s (run %s)\n\n", entries[0].Agent, run.ID)
	for _, e := range entries {
		fmt.Printf("%-28s %s\n", engine.SimTime(e.Tick), e.Text)
	}
	if len(metrics) > 0 {
		fmt.Println()
		for _, m := range metrics {
			fmt.Printf("%-14s %d\n", m.Name, m.Value)
		}
	}
}

func resolveRun(cmd *cobra.Command, db *persistence.DB, runID string) (persistence.Run, error) {
	if runID == "" {
		return db.LatestRun(cmd.Context())
	}
	return db.GetRun(cmd.Context(), runID)
}

func printJSON(out io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}
