// Package agents provides the agent model and the per-agent decision engine:
// need-tracking daemons, the goal executive with its resumable strategies,
// the events that mutate the world, conversations, and the tick loop that
// ties them together.
package agents

import (
	"github.com/talgya/novelgen/internal/world"
)

// AgentID is the agent's index in the World roster.
type AgentID = world.AgentID

// Agent is one inhabitant of the world.
type Agent struct {
	ID       AgentID          `json:"id"`
	Name     string           `json:"name"`
	Location world.LocationID `json:"location"`

	Inventory map[world.ItemID]world.Item `json:"inventory"`

	Health Health `json:"health"`
	Mind   Mind   `json:"-"`

	// Log is append-only; entries are rendered lazily against the world.
	Log []Record `json:"-"`

	// Evaluated in order every tick. The Executive is always last so the
	// other daemons have updated Mind.Goals before it arbitrates.
	daemons []Daemon
}

// NewAgent creates a living, awake agent with the standard daemon set.
func NewAgent(id AgentID, name string, at world.LocationID, disposition float64) *Agent {
	return &Agent{
		ID:        id,
		Name:      name,
		Location:  at,
		Inventory: make(map[world.ItemID]world.Item),
		Health:    NewHealth(),
		Mind:      NewMind(disposition),
		daemons:   standardDaemons(),
	}
}

func standardDaemons() []Daemon {
	return []Daemon{
		HungerTracker{},
		SleepTracker{},
		PoopTracker{},
		PainTracker{},
		MoodTracker{},
		&EncounterTracker{},
		&Sociability{},
		&Wanderlust{},
		Executive{},
	}
}

// Decide runs every daemon, lets the urgencies compete, and returns the
// events the winner wants enacted. Only the agent's own Health and Mind are
// mutated here; everything shared is changed later by the returned events.
func (a *Agent) Decide(w *World) []Event {
	if !a.Health.Alive {
		return nil
	}

	candidates := make([]weightedDaemon, 0, len(a.daemons))
	for _, d := range a.daemons {
		if urgency, ok := d.Step(a, w); ok {
			candidates = append(candidates, weightedDaemon{Item: d, Weight: urgency})
		}
	}

	chosen, ok := chooseDaemon(w, candidates)
	if !ok {
		return nil
	}
	return chosen.Events(a, w)
}
