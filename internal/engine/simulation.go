// Simulation ties the agent world to the tick schedule, the daily report
// and the narrative archive.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talgya/novelgen/internal/agents"
)

// Archive stores a run's narrative and counters as the run progresses.
type Archive interface {
	SaveNarrative(ctx context.Context, runID string, entries []agents.LogEntry) error
	SaveMetrics(ctx context.Context, runID string, tick uint64, metrics map[string]int) error
}

// Simulation holds the world and wires it to the engine callbacks.
type Simulation struct {
	World    *agents.World
	RunID    string
	Archive  Archive // Optional; nil disables archiving
	LastTick uint64  // Most recent tick processed

	// Statistics refreshed every sim-day.
	Stats SimStats

	archivedThrough uint64
}

// SimStats tracks aggregate population statistics.
type SimStats struct {
	Alive          int     `json:"alive"`
	Deaths         int     `json:"deaths"`
	AvgCheer       float64 `json:"avg_cheer"`
	AvgHunger      float64 `json:"avg_hunger"`
	AvgSleepiness  float64 `json:"avg_sleepiness"`
	ActiveGoals    int     `json:"active_goals"`
	PausedGoals    int     `json:"paused_goals"`
	AgentsSleeping int     `json:"agents_sleeping"`
}

// NewSimulation wraps a world.
func NewSimulation(w *agents.World) *Simulation {
	sim := &Simulation{World: w, LastTick: w.Time, archivedThrough: w.Time}
	sim.updateStats()
	return sim
}

// Attach installs the simulation's callbacks on an engine and aligns the
// engine clock with the world's.
func (s *Simulation) Attach(e *Engine) {
	e.Tick = s.World.Time
	e.OnTick = s.TickHour
	e.OnDay = s.TickDay
	e.OnMonth = s.TickMonth
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	return s.LastTick
}

// TickHour runs every tick: one decide phase and one apply phase.
func (s *Simulation) TickHour(uint64) {
	s.World.Tick()
	s.LastTick = s.World.Time
}

// TickDay runs every sim-day: statistics, daily report, archive flush.
func (s *Simulation) TickDay(tick uint64) {
	s.updateStats()
	metrics := s.World.Metrics()

	slog.Info("daily report",
		"tick", tick,
		"time", SimTime(tick),
		"alive", s.Stats.Alive,
		"deaths", s.Stats.Deaths,
		"sleeping", s.Stats.AgentsSleeping,
		"avg_cheer", fmt.Sprintf("%.3f", s.Stats.AvgCheer),
		"avg_hunger", fmt.Sprintf("%.3f", s.Stats.AvgHunger),
		"avg_sleepiness", fmt.Sprintf("%.3f", s.Stats.AvgSleepiness),
		"active_goals", s.Stats.ActiveGoals,
		"paused_goals", s.Stats.PausedGoals,
		"meals", metrics[agents.MetricMeal],
		"conversations", metrics[agents.MetricConversation],
	)

	if err := s.Flush(context.Background()); err != nil {
		slog.Error("archive flush failed", "tick", tick, "error", err)
	}
}

// TickMonth runs every sim-month: cumulative event counters.
func (s *Simulation) TickMonth(tick uint64) {
	metrics := s.World.Metrics()
	args := []any{"tick", tick, "time", SimTime(tick)}
	for _, name := range []string{
		agents.MetricMove, agents.MetricPickup, agents.MetricMeal, agents.MetricNap,
		agents.MetricWake, agents.MetricMeet, agents.MetricShit, agents.MetricConversation,
		agents.MetricDeath,
	} {
		args = append(args, name, metrics[name])
	}
	slog.Info("monthly summary", args...)
}

// Flush writes every log entry recorded since the previous flush, plus a
// metrics snapshot, to the archive.
func (s *Simulation) Flush(ctx context.Context) error {
	if s.Archive == nil || s.World.Time == s.archivedThrough {
		return nil
	}
	entries := s.World.EntriesSince(s.archivedThrough)
	if err := s.Archive.SaveNarrative(ctx, s.RunID, entries); err != nil {
		return fmt.Errorf("save narrative: %w", err)
	}
	if err := s.Archive.SaveMetrics(ctx, s.RunID, s.World.Time, s.World.Metrics()); err != nil {
		return fmt.Errorf("save metrics: %w", err)
	}
	s.archivedThrough = s.World.Time
	return nil
}

func (s *Simulation) updateStats() {
	var stats SimStats
	var cheer, hunger, sleepiness float64

	for _, a := range s.World.Agents {
		if !a.Health.Alive {
			stats.Deaths++
			continue
		}
		stats.Alive++
		cheer += a.Mind.Cheer
		hunger += a.Health.Hunger
		sleepiness += a.Health.Sleepiness
		if !a.Health.Awake {
			stats.AgentsSleeping++
		}
		if _, ok := a.Mind.CurrentGoal(); ok {
			stats.ActiveGoals++
		}
		stats.PausedGoals += len(a.Mind.PausedGoals())
	}

	if stats.Alive > 0 {
		n := float64(stats.Alive)
		stats.AvgCheer = cheer / n
		stats.AvgHunger = hunger / n
		stats.AvgSleepiness = sleepiness / n
	}
	s.Stats = stats
}
