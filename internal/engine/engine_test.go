package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/talgya/novelgen/internal/agents"
	"github.com/talgya/novelgen/internal/config"
	"github.com/talgya/novelgen/internal/world"
)

func TestAdvanceFiresCallbackLayers(t *testing.T) {
	e := NewEngine()
	var ticks, days, months int
	e.OnTick = func(uint64) { ticks++ }
	e.OnDay = func(uint64) { days++ }
	e.OnMonth = func(uint64) { months++ }

	if err := e.Advance(context.Background(), TicksPerSimMonth*2+5); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if ticks != TicksPerSimMonth*2+5 || days != 60 || months != 2 {
		t.Fatalf("ticks=%d days=%d months=%d", ticks, days, months)
	}
	if e.Tick != TicksPerSimMonth*2+5 {
		t.Fatalf("tick = %d", e.Tick)
	}
}

func TestAdvanceStopsOnCancel(t *testing.T) {
	e := NewEngine()
	ctx, cancel := context.WithCancel(context.Background())
	e.OnTick = func(tick uint64) {
		if tick == 3 {
			cancel()
		}
	}

	err := e.Advance(ctx, 100)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if e.Tick != 3 {
		t.Fatalf("tick = %d, want 3 (the cancelling tick completes)", e.Tick)
	}
}

func TestRunPacedUntilCancelled(t *testing.T) {
	e := NewEngine()
	e.Interval = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	e.OnTick = func(tick uint64) {
		if tick == 5 {
			cancel()
		}
	}

	if err := e.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if e.Tick != 5 {
		t.Fatalf("tick = %d, want 5", e.Tick)
	}
}

func TestSimTime(t *testing.T) {
	tests := []struct {
		tick uint64
		want string
	}{
		{0, "Spring Day 1, 0:00 Year 1"},
		{25, "Spring Day 2, 1:00 Year 1"},
		{TicksPerSimSeason, "Summer Day 1, 0:00 Year 1"},
		{TicksPerSimSeason * 4, "Spring Day 1, 0:00 Year 2"},
	}
	for _, tt := range tests {
		if got := SimTime(tt.tick); got != tt.want {
			t.Errorf("SimTime(%d) = %q, want %q", tt.tick, got, tt.want)
		}
	}
}

type memArchive struct {
	entries []agents.LogEntry
	ticks   []uint64
}

func (m *memArchive) SaveNarrative(_ context.Context, _ string, entries []agents.LogEntry) error {
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *memArchive) SaveMetrics(_ context.Context, _ string, tick uint64, _ map[string]int) error {
	m.ticks = append(m.ticks, tick)
	return nil
}

func newTestSimulation(t *testing.T) *Simulation {
	t.Helper()
	m, err := world.Generate(world.SmallTestConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	roster, err := agents.NewSpawner(3).Roster(m, 5)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	w, err := agents.NewWorld(m, roster, config.Default(), rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return NewSimulation(w)
}

func TestSimulationArchivesEachEntryOnce(t *testing.T) {
	sim := newTestSimulation(t)
	archive := &memArchive{}
	sim.Archive = archive
	sim.RunID = "test"

	e := NewEngine()
	sim.Attach(e)
	if err := e.Advance(context.Background(), TicksPerSimDay*3+7); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := sim.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}

	want := 0
	for _, a := range sim.World.Agents {
		want += len(a.Log)
	}
	if len(archive.entries) != want {
		t.Fatalf("archived %d entries, world holds %d", len(archive.entries), want)
	}
	if len(archive.ticks) != 4 || archive.ticks[3] != TicksPerSimDay*3+7 {
		t.Fatalf("metric snapshots at %v", archive.ticks)
	}
	if sim.CurrentTick() != sim.World.Time || e.Tick != sim.World.Time {
		t.Fatalf("clocks diverged: sim=%d engine=%d world=%d", sim.CurrentTick(), e.Tick, sim.World.Time)
	}

	// Nothing new: no second snapshot.
	if err := sim.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if len(archive.ticks) != 4 {
		t.Fatalf("empty flush wrote a snapshot")
	}
}

func TestSimulationStats(t *testing.T) {
	sim := newTestSimulation(t)
	if sim.Stats.Alive != 5 || sim.Stats.Deaths != 0 {
		t.Fatalf("stats = %+v", sim.Stats)
	}
	sim.World.Agents[0].Health.Alive = false
	sim.TickDay(TicksPerSimDay)
	if sim.Stats.Alive != 4 || sim.Stats.Deaths != 1 {
		t.Fatalf("stats after death = %+v", sim.Stats)
	}
}

func TestTickMonthLogsEventCounters(t *testing.T) {
	sim := newTestSimulation(t)
	for range 30 {
		sim.World.Tick()
	}

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	sim.TickMonth(sim.World.Time)

	out := buf.String()
	if !strings.Contains(out, "monthly summary") {
		t.Fatalf("no summary logged: %q", out)
	}
	for _, name := range []string{agents.MetricMove, agents.MetricMeet, agents.MetricDeath} {
		want := fmt.Sprintf(" %s=%d", name, sim.World.Metrics()[name])
		if !strings.Contains(out, want) {
			t.Fatalf("summary %q missing %q", out, want)
		}
	}
}
