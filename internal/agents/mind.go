package agents

import (
	"slices"

	"github.com/talgya/novelgen/internal/world"
)

// Goal is a drive the executive can pursue. Its urgency lives in Mind.Goals.
type Goal uint8

const (
	GoalFindFood Goal = iota
	GoalRest
	GoalShit
	GoalExplore
)

func (g Goal) String() string {
	switch g {
	case GoalFindFood:
		return "find food"
	case GoalRest:
		return "rest"
	case GoalShit:
		return "shit"
	case GoalExplore:
		return "explore"
	default:
		return "unknown"
	}
}

// plan is a goal together with the strategy pursuing it.
type plan struct {
	goal     Goal
	strategy Strategy
}

// Mind holds an agent's mood, drives and what it has learned about the world.
type Mind struct {
	Cheer       float64 `json:"cheer"`
	Disposition float64 `json:"disposition"` // Fixed personality anchor cheer drifts back to
	Agitation   float64 `json:"agitation"`

	// Goals accumulate urgency and are only ever removed explicitly.
	Goals map[Goal]float64 `json:"goals"`

	OpinionsOnOthers map[AgentID]float64                            `json:"opinions_on_others"`
	OpinionsOnPlaces map[world.LocationID]float64                   `json:"opinions_on_places"`
	LocationEdges    map[world.LocationID]map[world.LocationID]bool `json:"location_edges"`
	ObjectsSeen      map[world.ItemID]world.LocationID              `json:"objects_seen"`

	// Fixed bias toward each acquaintance, drawn the first time their
	// company colours the agent's opinion.
	Preconceptions map[AgentID]float64 `json:"preconceptions"`

	// A goal key is never both current and paused; only the plan methods
	// below touch these fields.
	current *plan
	paused  []plan
}

// NewMind returns an empty mind whose cheer starts at its disposition.
func NewMind(disposition float64) Mind {
	return Mind{
		Cheer:            disposition,
		Disposition:      disposition,
		Goals:            make(map[Goal]float64),
		OpinionsOnOthers: make(map[AgentID]float64),
		OpinionsOnPlaces: make(map[world.LocationID]float64),
		LocationEdges:    make(map[world.LocationID]map[world.LocationID]bool),
		ObjectsSeen:      make(map[world.ItemID]world.LocationID),
		Preconceptions:   make(map[AgentID]float64),
	}
}

// CurrentGoal returns the goal being pursued, if any.
func (m *Mind) CurrentGoal() (Goal, bool) {
	if m.current == nil {
		return 0, false
	}
	return m.current.goal, true
}

// PausedGoals returns the preempted goals in the order they were paused.
func (m *Mind) PausedGoals() []Goal {
	out := make([]Goal, len(m.paused))
	for i, p := range m.paused {
		out[i] = p.goal
	}
	return out
}

func (m *Mind) boostGoal(g Goal, by float64) {
	m.Goals[g] += by
}

func (m *Mind) dropGoal(g Goal) {
	delete(m.Goals, g)
}

func (m *Mind) pausedIndex(g Goal) int {
	return slices.IndexFunc(m.paused, func(p plan) bool { return p.goal == g })
}

// adopt makes g the current goal. If g was paused its saved strategy is
// restored and s is discarded; any other current plan is paused first.
func (m *Mind) adopt(g Goal, s Strategy) {
	if m.current != nil {
		if m.current.goal == g {
			return
		}
		m.pauseCurrent()
	}
	if i := m.pausedIndex(g); i >= 0 {
		m.resume(i)
		return
	}
	m.current = &plan{goal: g, strategy: s}
}

// pauseCurrent shelves the current plan, strategy state and all.
func (m *Mind) pauseCurrent() {
	if m.current == nil {
		return
	}
	m.paused = append(m.paused, *m.current)
	m.current = nil
}

// resume moves the i-th paused plan back to current. The caller must have
// no current plan.
func (m *Mind) resume(i int) {
	p := m.paused[i]
	m.paused = slices.Delete(m.paused, i, i+1)
	m.current = &p
}

// finish discards the current plan.
func (m *Mind) finish() {
	m.current = nil
}

// forgetSatisfied discards plans whose goal has been dropped from Goals.
func (m *Mind) forgetSatisfied() {
	if m.current != nil {
		if _, ok := m.Goals[m.current.goal]; !ok {
			m.current = nil
		}
	}
	m.paused = slices.DeleteFunc(m.paused, func(p plan) bool {
		_, ok := m.Goals[p.goal]
		return !ok
	})
}

// learnEdge records that from leads to to.
func (m *Mind) learnEdge(from, to world.LocationID) {
	if from == to {
		return
	}
	exits, ok := m.LocationEdges[from]
	if !ok {
		exits = make(map[world.LocationID]bool)
		m.LocationEdges[from] = exits
	}
	exits[to] = true
}

// observe memorises a location's exits and the items lying there.
func (m *Mind) observe(loc *world.Location) {
	for _, exit := range loc.Exits {
		m.learnEdge(loc.ID, exit)
	}
	for id := range loc.Items {
		m.ObjectsSeen[id] = loc.ID
	}
}

// opinionOf returns the opinion held of another agent and whether one exists.
func (m *Mind) opinionOf(id AgentID) (float64, bool) {
	v, ok := m.OpinionsOnOthers[id]
	return v, ok
}
