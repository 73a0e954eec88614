// Package engine provides the tick-based simulation loop.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// TickSchedule defines when each callback layer runs relative to the tick
// counter. One tick is one simulated hour.
const (
	TicksPerSimDay    = 24
	TicksPerSimMonth  = 720  // 30 days
	TicksPerSimSeason = 2160 // 90 days
)

// Engine drives the simulation forward.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Speed    float64       // Multiplier for paced runs: 1.0 = one tick per Interval, 0 = paused
	Interval time.Duration // Base tick interval for paced runs

	// Callbacks for each tick layer, populated during setup.
	OnTick  func(tick uint64) // Every tick (sim-hour)
	OnDay   func(tick uint64) // Every 24 ticks
	OnMonth func(tick uint64) // Every 720 ticks
}

// NewEngine creates a simulation engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Speed:    1.0,
		Interval: time.Second,
	}
}

// Advance runs n ticks back to back. It stops early, between ticks, when
// ctx is cancelled.
func (e *Engine) Advance(ctx context.Context, n uint64) error {
	for i := uint64(0); i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.step()
	}
	return nil
}

// Run paces ticks at Interval/Speed until ctx is cancelled. A tick in
// progress always completes.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Speed)
	defer func() { slog.Info("simulation engine stopped", "tick", e.Tick) }()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		wait := 100 * time.Millisecond // Paused: check again shortly.
		if e.Speed > 0 {
			start := time.Now()
			e.step()
			wait = time.Duration(float64(e.Interval)/e.Speed) - time.Since(start)
		}

		timer := time.NewTimer(max(wait, 0))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// step advances the simulation by one tick.
func (e *Engine) step() {
	e.Tick++

	// Every tick: every agent decides, then every event lands.
	if e.OnTick != nil {
		e.OnTick(e.Tick)
	}

	// Every sim-day: daily report, archive flush.
	if e.Tick%TicksPerSimDay == 0 && e.OnDay != nil {
		e.OnDay(e.Tick)
	}

	// Every sim-month: population summary.
	if e.Tick%TicksPerSimMonth == 0 && e.OnMonth != nil {
		e.OnMonth(e.Tick)
	}
}

// SimTime returns a human-readable simulation time string from a tick number.
func SimTime(tick uint64) string {
	totalHours := tick
	hours := totalHours % 24
	totalDays := totalHours / 24
	days := totalDays%90 + 1
	seasons := totalDays / 90
	season := seasons % 4
	years := seasons/4 + 1

	seasonNames := [4]string{"Spring", "Summer", "Autumn", "Winter"}

	return fmt.Sprintf("%s Day %d, %d:00 Year %d",
		seasonNames[season], days, hours, years)
}
