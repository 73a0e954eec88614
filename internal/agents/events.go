package agents

import (
	"fmt"

	"github.com/talgya/novelgen/internal/world"
)

// Event is a one-shot change to the world. Apply is called exactly once
// during the apply phase and records the event (or a note standing in for
// it) in the acting agent's log. Describe renders that log entry later.
//
// When a precondition no longer holds at apply time (the item is gone, the
// agent has moved on) Apply leaves state untouched and logs a failure note.
type Event interface {
	Apply(w *World)
	Describe(w *World) string
}

// Metric names counted by events.
const (
	MetricMove         = "move"
	MetricPickup       = "pickup"
	MetricMeal         = "meal"
	MetricNap          = "nap"
	MetricWake         = "wake"
	MetricMeet         = "meet"
	MetricDeath        = "death"
	MetricShit         = "shit"
	MetricConversation = "conversation"
)

// minImpression is the opinion a perfectly neutral agent forms on meeting
// someone, so the acquaintance is still remembered.
const minImpression = 0.01

// Narrative is a free-text note in an agent's log.
type Narrative struct {
	Agent   AgentID
	Message string
}

func (e *Narrative) Apply(w *World) {
	w.record(e.Agent, e)
}

func (e *Narrative) Describe(*World) string {
	return e.Message
}

// Move walks an agent along an exit. A Move whose From equals To is a
// wander with nowhere to go.
type Move struct {
	Agent    AgentID
	From, To world.LocationID
}

func (e *Move) Apply(w *World) {
	a := w.Agent(e.Agent)
	if a == nil {
		return
	}
	if a.Location != e.From {
		w.note(e.Agent, "Meant to leave %s but was no longer there.", w.placeName(e.From))
		return
	}
	from, to := w.Map.Get(e.From), w.Map.Get(e.To)
	if from == nil || to == nil || (e.From != e.To && !from.HasExit(e.To)) {
		w.note(e.Agent, "Couldn't find the way to %s.", w.placeName(e.To))
		return
	}

	if e.From != e.To {
		from.RemoveAgent(a.ID)
		to.AddAgent(a.ID)
		a.Location = e.To

		a.Mind.OpinionsOnPlaces[e.From] += a.Mind.Cheer * w.Tuning.Places.MoveOpinionFactor
		a.Mind.learnEdge(e.From, e.To)
		w.incr(MetricMove)
	}
	a.Mind.observe(to)
	w.record(e.Agent, e)
}

func (e *Move) Describe(w *World) string {
	if e.From == e.To {
		return fmt.Sprintf("Stayed in %s, with nowhere else to go.", w.placeName(e.From))
	}
	return fmt.Sprintf("Moved from %s to %s.", w.placeName(e.From), w.placeName(e.To))
}

// Pickup moves an item from a location into an agent's inventory.
type Pickup struct {
	Agent    AgentID
	Location world.LocationID
	Item     world.ItemID
}

func (e *Pickup) Apply(w *World) {
	a := w.Agent(e.Agent)
	loc := w.Map.Get(e.Location)
	if a == nil {
		return
	}
	if loc == nil || a.Location != e.Location {
		w.note(e.Agent, "Tried to pick something up but it wasn't there.")
		return
	}
	it, ok := loc.TakeItem(e.Item)
	if !ok {
		w.note(e.Agent, "Tried to pick something up but it wasn't there.")
		return
	}
	a.Inventory[it.ID] = it
	w.incr(MetricPickup)
	w.note(e.Agent, "Picked up a %s.", it.Name)
}

func (e *Pickup) Describe(*World) string {
	return "Trying to pick something up."
}

// Eat consumes an item from the agent's inventory.
type Eat struct {
	Agent AgentID
	Item  world.ItemID
}

func (e *Eat) Apply(w *World) {
	a := w.Agent(e.Agent)
	if a == nil {
		return
	}
	it, ok := a.Inventory[e.Item]
	if !ok {
		w.note(e.Agent, "Tried to eat something but it wasn't there.")
		return
	}
	delete(a.Inventory, e.Item)

	relieve(&a.Health.Hunger, it.FoodValue)
	if a.Health.Hunger < w.Tuning.Hunger.SatedThreshold {
		a.Mind.dropGoal(GoalFindFood)
	}
	w.incr(MetricMeal)
	w.note(e.Agent, "Ate a %s.", it.Name)
}

func (e *Eat) Describe(*World) string {
	return "Trying to eat something."
}

// Nap puts an agent to sleep.
type Nap struct {
	Agent AgentID
}

func (e *Nap) Apply(w *World) {
	a := w.Agent(e.Agent)
	if a == nil {
		return
	}
	a.Health.Awake = false
	w.incr(MetricNap)
	w.record(e.Agent, e)
}

func (e *Nap) Describe(*World) string {
	return "Went to sleep."
}

// Wake rouses a sleeping agent.
type Wake struct {
	Agent AgentID
}

func (e *Wake) Apply(w *World) {
	a := w.Agent(e.Agent)
	if a == nil {
		return
	}
	a.Health.Awake = true
	w.incr(MetricWake)
	w.record(e.Agent, e)
}

func (e *Wake) Describe(*World) string {
	return "Woke up."
}

// Meet introduces two co-located agents. Both form a first impression of
// the other coloured by their current cheer.
type Meet struct {
	Agent AgentID
	Other AgentID
}

func (e *Meet) Apply(w *World) {
	a, other := w.Agent(e.Agent), w.Agent(e.Other)
	if a == nil {
		return
	}
	if other == nil || e.Other == e.Agent || !other.Health.Alive || other.Location != a.Location {
		w.note(e.Agent, "Looked around for %s, but they had gone.", w.agentName(e.Other))
		return
	}

	a.Mind.OpinionsOnOthers[other.ID] += impression(&a.Mind)
	other.Mind.OpinionsOnOthers[a.ID] += impression(&other.Mind)
	w.incr(MetricMeet)
	w.record(e.Agent, e)
}

func (e *Meet) Describe(w *World) string {
	return fmt.Sprintf("Met %s.", w.agentName(e.Other))
}

func impression(m *Mind) float64 {
	if m.Cheer == 0 {
		return minImpression
	}
	return m.Cheer
}

// Die ends an agent's life. The agent keeps its roster slot but leaves the
// location's occupant list.
type Die struct {
	Agent AgentID
	Cause string
}

func (e *Die) Apply(w *World) {
	a := w.Agent(e.Agent)
	if a == nil || !a.Health.Alive {
		return
	}
	a.Health.Alive = false
	if loc := w.Map.Get(a.Location); loc != nil {
		loc.RemoveAgent(a.ID)
	}
	w.incr(MetricDeath)
	w.record(e.Agent, e)
}

func (e *Die) Describe(*World) string {
	if e.Cause == "" {
		return "Died."
	}
	return fmt.Sprintf("Died of %s.", e.Cause)
}

// Defecate empties an agent's bowels. Accident marks the version that could
// not wait for privacy.
type Defecate struct {
	Agent    AgentID
	Accident bool
}

func (e *Defecate) Apply(w *World) {
	a := w.Agent(e.Agent)
	if a == nil {
		return
	}
	a.Health.Poop = 0
	a.Mind.dropGoal(GoalShit)
	w.incr(MetricShit)
	w.record(e.Agent, e)
}

func (e *Defecate) Describe(*World) string {
	if e.Accident {
		return "Couldn't hold it any longer."
	}
	return "Took a shit."
}

// Converse applies a conversation decided during the decide phase to both
// participants and logs it for each of them.
type Converse struct {
	Conversation Conversation

	// Set on the copy logged for B so Describe names the right partner.
	narrator AgentID
	copied   bool
}

func (e *Converse) Apply(w *World) {
	c := e.Conversation
	a, b := w.Agent(c.A), w.Agent(c.B)
	if a == nil {
		return
	}
	if b == nil || !b.Health.Alive || !b.Health.Awake || b.Location != a.Location {
		w.note(c.A, "Wanted to talk to %s, but they weren't around.", w.agentName(c.B))
		return
	}

	c.apply(a, b, w.Tuning.Social)
	w.incr(MetricConversation)
	w.record(c.A, e)
	w.record(c.B, &Converse{Conversation: c, narrator: c.B, copied: true})
}

func (e *Converse) Describe(w *World) string {
	c := e.Conversation
	partner := c.B
	if e.copied && e.narrator == c.B {
		partner = c.A
	}
	return fmt.Sprintf("Had a %s conversation with %s about %s.",
		c.mood(), w.agentName(partner), c.Topic.describe(w))
}
