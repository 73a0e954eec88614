package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/talgya/novelgen/internal/agents"
	"github.com/talgya/novelgen/internal/config"
	"github.com/talgya/novelgen/internal/engine"
	"github.com/talgya/novelgen/internal/entropy"
	"github.com/talgya/novelgen/internal/persistence"
	"github.com/talgya/novelgen/internal/world"
)

func init() {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a world and print one agent's story",
		Long: "Generate a world, populate it and advance it tick by tick (one tick is one hour). " +
			"The story of the chosen agent is printed at the end; every agent's story is archived.",
		Run: runRun,
	}

	cmd.Flags().Uint64P("ticks", "t", engine.TicksPerSimMonth, "Number of ticks to simulate")
	cmd.Flags().IntP("scale", "s", 10, "World scale (20 locations per unit)")
	cmd.Flags().Int("agents", 0, "Number of agents (default: scale)")
	cmd.Flags().Int64("seed", 0, "Random seed (0: random)")
	cmd.Flags().IntP("agent", "a", 0, "Agent whose story to print")
	cmd.Flags().String("export", "", "Also write every agent's story to this .jsonl.zst file")
	cmd.Flags().Duration("interval", 0, "Wall-clock time per tick (0: as fast as possible)")
	cmd.Flags().Bool("no-archive", false, "Do not write the run to the archive")

	RootCmd.AddCommand(cmd)
}

type runOptions struct {
	Ticks    uint64
	Scale    int
	Agents   int
	Seed     int64
	Interval time.Duration
	Tuning   config.Tuning
	Archive  engine.Archive // Optional
	Runs     runRegistry    // Optional; required when Archive is set
}

// runRegistry records run bookkeeping in the archive.
type runRegistry interface {
	CreateRun(ctx context.Context, seed int64, scale, agentCount int) (persistence.Run, error)
	FinishRun(ctx context.Context, runID string, ticks uint64) error
}

type runResult struct {
	RunID       string
	Seed        int64
	Sim         *engine.Simulation
	Interrupted bool
}

func runRun(cmd *cobra.Command, args []string) {
	ticks, _ := cmd.Flags().GetUint64("ticks")
	scale, _ := cmd.Flags().GetInt("scale")
	agentCount, _ := cmd.Flags().GetInt("agents")
	seed, _ := cmd.Flags().GetInt64("seed")
	agentID, _ := cmd.Flags().GetInt("agent")
	exportPath, _ := cmd.Flags().GetString("export")
	interval, _ := cmd.Flags().GetDuration("interval")
	noArchive, _ := cmd.Flags().GetBool("no-archive")

	tuning, err := loadTuning()
	if err != nil {
		exitErr("load tuning", err)
	}

	opts := runOptions{
		Ticks:    ticks,
		Scale:    scale,
		Agents:   agentCount,
		Seed:     seed,
		Interval: interval,
		Tuning:   tuning,
	}
	if !noArchive {
		db, err := openArchive()
		if err != nil {
			exitErr("open archive", err)
		}
		defer db.Close()
		opts.Archive, opts.Runs = db, db
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := simulate(ctx, opts)
	if err != nil {
		exitErr("simulate", err)
	}

	printStory(os.Stdout, res.Sim.World, agents.AgentID(agentID))

	if exportPath != "" {
		entries := toArchiveEntries(res.RunID, res.Sim.World.EntriesSince(0))
		n, err := persistence.ExportNarrative(exportPath, entries)
		if err != nil {
			exitErr("export", err)
		}
		slog.Info("story exported", "path", exportPath, "entries", n)
	}
	if res.RunID != "" {
		fmt.Fprintf(os.Stderr, "\nArchived as run %s (seed %d).\n", res.RunID, res.Seed)
	}
}

// simulate builds a world from opts and advances it. An interrupted run is
// not an error: whatever was simulated is archived and returned.
func simulate(ctx context.Context, opts runOptions) (*runResult, error) {
	if opts.Archive != nil && opts.Runs == nil {
		return nil, errors.New("simulate: archive without run registry")
	}
	seed := opts.Seed
	if seed == 0 {
		seed = entropy.CryptoSeed()
	}

	gen := world.DefaultGenConfig()
	gen.Scale = opts.Scale
	gen.Seed = seed
	m, err := world.Generate(gen)
	if err != nil {
		return nil, fmt.Errorf("generate world: %w", err)
	}
	for kind, count := range world.KindCounts(m) {
		slog.Debug("locations", "kind", world.KindName(kind), "count", count)
	}

	count := opts.Agents
	if count <= 0 {
		count = opts.Scale
	}
	roster, err := agents.NewSpawner(seed).Roster(m, count)
	if err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}
	w, err := agents.NewWorld(m, roster, opts.Tuning, entropy.New(seed))
	if err != nil {
		return nil, err
	}

	sim := engine.NewSimulation(w)
	if opts.Archive != nil {
		run, err := opts.Runs.CreateRun(ctx, seed, opts.Scale, count)
		if err != nil {
			return nil, err
		}
		sim.Archive = opts.Archive
		sim.RunID = run.ID
	}

	slog.Info("world ready",
		"seed", seed,
		"map", m.String(),
		"agents", len(w.Agents),
		"ticks", opts.Ticks,
	)

	eng := engine.NewEngine()
	sim.Attach(eng)
	err = advance(ctx, eng, opts.Ticks, opts.Interval)
	interrupted := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	if err != nil && !interrupted {
		return nil, err
	}
	if interrupted {
		slog.Warn("run interrupted", "tick", w.Time, "time", engine.SimTime(w.Time))
	}

	if opts.Archive != nil {
		// The run context may be cancelled; the archive still needs the tail.
		if err := sim.Flush(context.Background()); err != nil {
			return nil, err
		}
		if err := opts.Runs.FinishRun(context.Background(), sim.RunID, w.Time); err != nil {
			return nil, err
		}
	}

	slog.Info("simulation finished",
		"tick", w.Time,
		"time", engine.SimTime(w.Time),
		"alive", w.Living(),
		"deaths", w.Metrics()[agents.MetricDeath],
	)
	return &runResult{RunID: sim.RunID, Seed: seed, Sim: sim, Interrupted: interrupted}, nil
}

// advance runs ticks immediately, or paced at interval per tick.
func advance(ctx context.Context, eng *engine.Engine, ticks uint64, interval time.Duration) error {
	if interval <= 0 {
		return eng.Advance(ctx, ticks)
	}
	if ticks == 0 {
		return nil
	}

	target := eng.Tick + ticks
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	onTick := eng.OnTick
	eng.OnTick = func(tick uint64) {
		if onTick != nil {
			onTick(tick)
		}
		if tick >= target {
			cancel()
		}
	}
	defer func() { eng.OnTick = onTick }()

	eng.Interval = interval
	err := eng.Run(runCtx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printStory(out io.Writer, w *agents.World, id agents.AgentID) {
	a := w.Agent(id)
	if a == nil {
		fmt.Fprintf(out, "No agent %d (the world has %d).\n", id, len(w.Agents))
		return
	}
	fmt.Fprintf(out, "The story of %s\n\n", a.Name)
	for _, e := range w.Entries(id) {
		fmt.Fprintf(out, "%-28s %s\n", engine.SimTime(e.Tick), e.Text)
	}
}

func toArchiveEntries(runID string, entries []agents.LogEntry) []persistence.Entry {
	out := make([]persistence.Entry, len(entries))
	for i, e := range entries {
		out[i] = persistence.Entry{RunID: runID, Tick: e.Tick, AgentID: int(e.AgentID), Agent: e.Agent, Text: e.Text}
	}
	return out
}
