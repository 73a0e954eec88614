package agents

import (
	"math"

	"github.com/talgya/novelgen/internal/entropy"
	"github.com/talgya/novelgen/internal/world"
)

// Outcome is the result of advancing a strategy by one step.
type Outcome struct {
	Complete bool
	Events   []Event
}

func incomplete(events ...Event) Outcome { return Outcome{Events: events} }

func complete(events ...Event) Outcome { return Outcome{Complete: true, Events: events} }

// Strategy is a resumable multi-tick plan. A paused strategy keeps its
// internal state and picks up where it left off when resumed.
type Strategy interface {
	Advance(a *Agent, w *World) Outcome
}

// Executive owns goal arbitration and drives the current strategy. It must
// run after every other daemon in the agent's list.
type Executive struct{}

func (Executive) Step(a *Agent, w *World) (float64, bool) {
	if !a.Health.Awake {
		return 0, false
	}
	t := w.Tuning.Executive
	m := &a.Mind
	m.forgetSatisfied()

	if m.current == nil {
		if !resumePaused(a, w) && !chooseGoal(a, w) {
			return 0, false
		}
		return t.ActiveUrgency, true
	}

	// At most one preemption per tick: the new choice is not re-checked.
	if shouldPreempt(m, t.PreemptionFactor) {
		m.pauseCurrent()
		if !chooseGoal(a, w) {
			return 0, false
		}
	}
	return t.ActiveUrgency, true
}

func (Executive) Events(a *Agent, w *World) []Event {
	m := &a.Mind
	if m.current == nil {
		return nil
	}
	out := m.current.strategy.Advance(a, w)
	if out.Complete {
		m.finish()
	}
	return out.Events
}

// shouldPreempt reports whether some goal has grown sufficiently more urgent
// than the one being pursued.
func shouldPreempt(m *Mind, factor float64) bool {
	highest := math.Inf(-1)
	for _, u := range m.Goals {
		highest = math.Max(highest, u)
	}
	return highest > m.Goals[m.current.goal]*factor
}

// resumePaused restores one paused plan, weighted by each goal's urgency as
// it stands now.
func resumePaused(a *Agent, w *World) bool {
	m := &a.Mind
	if len(m.paused) == 0 {
		return false
	}
	candidates := make([]entropy.Weighted[int], len(m.paused))
	for i, p := range m.paused {
		candidates[i] = entropy.Weighted[int]{Item: i, Weight: m.Goals[p.goal]}
	}
	i, ok := entropy.Choose(w.rng, candidates)
	if !ok {
		return false
	}
	m.resume(i)
	return true
}

// chooseGoal picks a goal by urgency and makes it current, restoring its
// paused strategy if there is one.
func chooseGoal(a *Agent, w *World) bool {
	m := &a.Mind
	candidates := make([]entropy.Weighted[Goal], 0, len(m.Goals))
	for _, g := range []Goal{GoalFindFood, GoalRest, GoalShit, GoalExplore} {
		if u, ok := m.Goals[g]; ok {
			candidates = append(candidates, entropy.Weighted[Goal]{Item: g, Weight: u})
		}
	}
	g, ok := entropy.Choose(w.rng, candidates)
	if !ok {
		return false
	}
	m.adopt(g, newStrategy(g, a, w))
	return true
}

func newStrategy(g Goal, a *Agent, w *World) Strategy {
	switch g {
	case GoalFindFood:
		return &FindFood{}
	case GoalShit:
		return &FindSolitude{payload: []Event{&Defecate{Agent: a.ID}}}
	case GoalRest:
		return &FindSolitude{payload: []Event{&Nap{Agent: a.ID}}}
	case GoalExplore:
		return &Explore{remaining: w.Tuning.Executive.ExploreIterations}
	default:
		return &Explore{}
	}
}

// FindFood eats what the agent carries, else picks up what lies here, else
// wanders off to look elsewhere.
type FindFood struct{}

func (*FindFood) Advance(a *Agent, w *World) Outcome {
	if it, ok := world.FirstFood(a.Inventory); ok {
		return complete(&Eat{Agent: a.ID, Item: it.ID})
	}
	loc := w.Map.Get(a.Location)
	if loc != nil {
		if it, ok := loc.FirstFood(); ok {
			return incomplete(&Pickup{Agent: a.ID, Location: loc.ID, Item: it.ID})
		}
	}
	return incomplete(
		&Narrative{Agent: a.ID, Message: "Nothing to eat here..."},
		wander(a, w),
	)
}

// FindSolitude wanders until the agent is alone, then enacts its payload.
type FindSolitude struct {
	payload []Event
}

func (s *FindSolitude) Advance(a *Agent, w *World) Outcome {
	if loc := w.Map.Get(a.Location); loc != nil && len(loc.Agents) > 1 {
		return incomplete(
			&Narrative{Agent: a.ID, Message: "I'm not alone..."},
			wander(a, w),
		)
	}
	payload := s.payload
	s.payload = nil
	return complete(payload...)
}

// Explore wanders for a fixed number of steps, then enacts its payload.
type Explore struct {
	remaining int
	payload   []Event
}

func (e *Explore) Advance(a *Agent, w *World) Outcome {
	if e.remaining > 0 {
		e.remaining--
		return incomplete(wander(a, w))
	}
	payload := e.payload
	e.payload = nil
	return complete(payload...)
}

// wander moves the agent through a random exit, or nowhere if there is none.
func wander(a *Agent, w *World) Event {
	to := a.Location
	if loc := w.Map.Get(a.Location); loc != nil {
		if exit, ok := entropy.Pick(w.rng, loc.Exits); ok {
			to = exit
		}
	}
	return &Move{Agent: a.ID, From: a.Location, To: to}
}
