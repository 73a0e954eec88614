package agents

import (
	"math"

	"github.com/talgya/novelgen/internal/entropy"
	"github.com/talgya/novelgen/internal/world"
)

// criticalUrgency is reported by needs that can no longer wait (starving,
// collapsing from exhaustion, an accident). It beats an in-flight goal most
// of the time without making the outcome certain.
const criticalUrgency = 10.0

// Daemon tracks one need. Step updates the agent's own state and may
// nominate the daemon for action; Events is called only on the daemon the
// arbitration picked.
type Daemon interface {
	Step(a *Agent, w *World) (urgency float64, ok bool)
	Events(a *Agent, w *World) []Event
}

type weightedDaemon = entropy.Weighted[Daemon]

func chooseDaemon(w *World, candidates []weightedDaemon) (Daemon, bool) {
	return entropy.Choose(w.rng, candidates)
}

// passive daemons never nominate themselves, so their Events is never called.
type passive struct{}

func (passive) Events(*Agent, *World) []Event { return nil }

// HungerTracker makes agents hungry, then hurt, then dead.
type HungerTracker struct{}

func (HungerTracker) Step(a *Agent, w *World) (float64, bool) {
	t := w.Tuning.Hunger
	h := &a.Health

	if h.Awake {
		h.Hunger += t.RateAwake
	} else {
		h.Hunger += t.RateAsleep
	}

	if h.Hunger > t.GoalThreshold {
		a.Mind.boostGoal(GoalFindFood, t.GoalBoost)
	}
	if h.Hunger > t.PainThreshold {
		h.Pain += t.PainRate
	}
	if h.Hunger > t.StarvationThreshold {
		return criticalUrgency, true
	}
	return 0, false
}

func (HungerTracker) Events(a *Agent, _ *World) []Event {
	return []Event{&Die{Agent: a.ID, Cause: "starvation"}}
}

// SleepTracker builds sleepiness while awake and pays it off while asleep.
type SleepTracker struct{}

func (SleepTracker) Step(a *Agent, w *World) (float64, bool) {
	t := w.Tuning.Sleep
	h := &a.Health

	if h.Awake {
		h.Sleepiness += t.RateAwake
		if h.Sleepiness > t.GoalThreshold {
			a.Mind.boostGoal(GoalRest, t.GoalBoost)
		}
		if h.Sleepiness > t.ForcedNapThreshold {
			return criticalUrgency, true
		}
		return 0, false
	}

	relieve(&h.Sleepiness, t.RecoveryAsleep)
	if h.Sleepiness < t.GoalThreshold {
		a.Mind.dropGoal(GoalRest)
	}
	if h.Sleepiness == 0 {
		return t.WakeUrgency, true
	}
	return 0, false
}

func (SleepTracker) Events(a *Agent, _ *World) []Event {
	if !a.Health.Awake {
		return []Event{&Wake{Agent: a.ID}}
	}
	return []Event{&Nap{Agent: a.ID}}
}

// PoopTracker fills the bowels, but only while there is something in them.
type PoopTracker struct{}

func (PoopTracker) Step(a *Agent, w *World) (float64, bool) {
	t := w.Tuning.Poop
	h := &a.Health

	if h.Hunger >= t.HungerGate {
		h.Poop += t.Rate
	}
	if h.Poop > t.GoalThreshold {
		a.Mind.boostGoal(GoalShit, t.GoalBoost)
	}
	if h.Poop > t.PainThreshold {
		h.Pain += t.PainRate
	}
	if h.Poop > t.AccidentThreshold {
		return criticalUrgency, true
	}
	return 0, false
}

func (PoopTracker) Events(a *Agent, _ *World) []Event {
	return []Event{&Defecate{Agent: a.ID, Accident: true}}
}

// PainTracker turns standing pain into a worse mood and lets cheer relax
// back toward the agent's disposition.
type PainTracker struct{ passive }

func (PainTracker) Step(a *Agent, w *World) (float64, bool) {
	t := w.Tuning.Pain
	h := &a.Health
	m := &a.Mind

	m.Cheer -= t.CheerDrift * (m.Cheer - m.Disposition)

	if h.Pain > 0 {
		m.Agitation += h.Pain * t.AgitationFactor
		m.Cheer -= h.Pain * t.CheerFactor
		relieve(&h.Pain, t.Recovery)
	} else {
		relieve(&m.Agitation, t.AgitationDecay)
	}
	return 0, false
}

// MoodTracker lets the agent's mood colour how it sees the company it keeps
// and the place it is in. Exhaustion sours the mood, and cheer stays within
// the configured bound.
type MoodTracker struct{ passive }

func (MoodTracker) Step(a *Agent, w *World) (float64, bool) {
	t := w.Tuning.Mood
	m := &a.Mind

	if a.Health.Awake {
		if a.Health.Sleepiness > t.ExhaustionThreshold {
			m.Cheer -= t.ExhaustionPenalty
		}

		drift := m.Cheer * t.OpinionDrift
		if loc := w.Map.Get(a.Location); loc != nil {
			for _, id := range loc.Agents {
				if id == a.ID {
					continue
				}
				other := w.Agent(id)
				if other == nil || !other.Health.Alive {
					continue
				}
				// Strangers are left to the EncounterTracker.
				if _, known := m.opinionOf(id); !known {
					continue
				}
				bias, ok := m.Preconceptions[id]
				if !ok {
					bias = (w.rng.Float64()*2 - 1) * t.Preconception
					m.Preconceptions[id] = bias
				}
				m.OpinionsOnOthers[id] += drift + bias
			}
			m.OpinionsOnPlaces[loc.ID] += m.Cheer * t.PlaceDrift
		}
	}

	m.Cheer = math.Max(-t.CheerBound, math.Min(t.CheerBound, m.Cheer))
	return 0, false
}

// EncounterTracker notices strangers sharing the agent's location.
type EncounterTracker struct {
	stranger AgentID
}

func (e *EncounterTracker) Step(a *Agent, w *World) (float64, bool) {
	if !a.Health.Awake {
		return 0, false
	}
	loc := w.Map.Get(a.Location)
	if loc == nil {
		return 0, false
	}
	for _, id := range loc.Agents {
		if id == a.ID {
			continue
		}
		other := w.Agent(id)
		if other == nil || !other.Health.Alive {
			continue
		}
		if _, known := a.Mind.opinionOf(id); !known {
			e.stranger = id
			return w.Tuning.Encounter.Urgency, true
		}
	}
	return 0, false
}

func (e *EncounterTracker) Events(a *Agent, _ *World) []Event {
	return []Event{&Meet{Agent: a.ID, Other: e.stranger}}
}

// Sociability looks for someone nearby the agent feels strongly about and
// strikes up a conversation.
type Sociability struct {
	partner AgentID
}

func (s *Sociability) Step(a *Agent, w *World) (float64, bool) {
	if !a.Health.Awake {
		return 0, false
	}
	loc := w.Map.Get(a.Location)
	if loc == nil {
		return 0, false
	}

	t := w.Tuning.Social
	var relevant []AgentID
	for _, id := range loc.Agents {
		if id == a.ID {
			continue
		}
		other := w.Agent(id)
		if other == nil || !other.Health.Alive || !other.Health.Awake {
			continue
		}
		if op, ok := a.Mind.opinionOf(id); ok && math.Abs(op) > t.RelevanceThreshold {
			relevant = append(relevant, id)
		}
	}

	partner, ok := entropy.Pick(w.rng, relevant)
	if !ok {
		return 0, false
	}
	s.partner = partner
	return t.Urgency, true
}

func (s *Sociability) Events(a *Agent, w *World) []Event {
	other := w.Agent(s.partner)
	if other == nil {
		return nil
	}
	return []Event{&Converse{Conversation: simulateConversation(a, other, w)}}
}

// Wanderlust grows the urge to explore the longer the agent stays put. It
// feeds the Explore goal instead of acting on its own.
type Wanderlust struct {
	passive

	started      bool
	lastLocation world.LocationID
	lastMove     uint64
}

func (wl *Wanderlust) Step(a *Agent, w *World) (float64, bool) {
	t := w.Tuning.Wanderlust

	if !wl.started || a.Location != wl.lastLocation {
		wl.started = true
		wl.lastLocation = a.Location
		wl.lastMove = w.Time
	}

	wait := float64(w.Time - wl.lastMove)
	if wait > t.MinWait {
		a.Mind.Goals[GoalExplore] = math.Min(wait/t.MaxWait, t.Cap)
	} else if g, ok := a.Mind.CurrentGoal(); !ok || g != GoalExplore {
		a.Mind.dropGoal(GoalExplore)
	}
	return 0, false
}
