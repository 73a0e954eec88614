package agents

import (
	"fmt"
	"log/slog"
	"maps"
	"math/rand"

	"github.com/talgya/novelgen/internal/config"
	"github.com/talgya/novelgen/internal/world"
)

// World owns the map, every agent and the simulation clock.
type World struct {
	Time   uint64 // Ticks elapsed; one tick is one simulated hour
	Agents []*Agent
	Map    *world.Map
	Tuning config.Tuning

	rng     *rand.Rand
	metrics map[string]int
}

// NewWorld places the roster on the map. Agent ids are roster indices, and
// every agent starts out knowing the place it stands in.
func NewWorld(m *world.Map, roster []Spawn, cfg config.Tuning, rng *rand.Rand) (*World, error) {
	if m == nil {
		return nil, fmt.Errorf("new world: nil map")
	}
	if rng == nil {
		return nil, fmt.Errorf("new world: nil rng")
	}
	w := &World{
		Map:     m,
		Tuning:  cfg,
		rng:     rng,
		metrics: make(map[string]int),
	}
	for i, s := range roster {
		loc := m.Get(s.Location)
		if loc == nil {
			return nil, fmt.Errorf("new world: agent %q placed at unknown location %d", s.Name, s.Location)
		}
		a := NewAgent(AgentID(i), s.Name, s.Location, s.Disposition)
		loc.AddAgent(a.ID)
		a.Mind.observe(loc)
		w.Agents = append(w.Agents, a)
	}
	return w, nil
}

// Agent returns the agent with the given id, or nil.
func (w *World) Agent(id AgentID) *Agent {
	if id < 0 || int(id) >= len(w.Agents) {
		return nil
	}
	return w.Agents[id]
}

// Tick advances the world by one hour. Every living agent decides against
// the state the tick started with, in id order; the collected events are
// then applied in the order they were produced.
func (w *World) Tick() {
	w.Time++

	var pending []Event
	for _, a := range w.Agents {
		if !a.Health.Alive {
			continue
		}
		pending = append(pending, a.Decide(w)...)
	}

	for _, ev := range pending {
		ev.Apply(w)
	}
	slog.Debug("tick applied", "tick", w.Time, "events", len(pending))
}

// Metrics returns a copy of the event counters.
func (w *World) Metrics() map[string]int {
	return maps.Clone(w.metrics)
}

// Living counts the agents still alive.
func (w *World) Living() int {
	n := 0
	for _, a := range w.Agents {
		if a.Health.Alive {
			n++
		}
	}
	return n
}

func (w *World) record(id AgentID, ev Event) {
	if a := w.Agent(id); a != nil {
		a.Log = append(a.Log, Record{Tick: w.Time, Event: ev})
	}
}

// note logs a narrative line for an agent, usually to explain why an event
// it intended could not happen.
func (w *World) note(id AgentID, format string, args ...any) {
	w.record(id, &Narrative{Agent: id, Message: fmt.Sprintf(format, args...)})
}

func (w *World) incr(metric string) {
	w.metrics[metric]++
}

func (w *World) agentName(id AgentID) string {
	if a := w.Agent(id); a != nil {
		return a.Name
	}
	return "someone"
}

func (w *World) placeName(id world.LocationID) string {
	if loc := w.Map.Get(id); loc != nil {
		return loc.Name
	}
	return "somewhere"
}
