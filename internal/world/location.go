// Package world provides the location graph agents live in: places, the
// exits between them, the items lying around, and who is standing where.
package world

import (
	"slices"
)

// LocationID indexes a location in the Map arena.
type LocationID int

// ItemID uniquely identifies an item across the whole world.
type ItemID int

// AgentID indexes an agent in the simulation roster. It lives here so that
// locations can record their occupants without depending on the agent model.
type AgentID int

// Kind classifies a location for naming and item placement.
type Kind uint8

const (
	KindForest  Kind = iota // Sparse berries, many winding exits
	KindVillage             // Rich gardens, clustered streets
)

// Item is a portable object. It belongs to exactly one container at a time:
// a location's item set or an agent's inventory.
type Item struct {
	ID        ItemID  `json:"id"`
	Name      string  `json:"name"`
	FoodValue float64 `json:"food_value"`
}

// Location is a node in the world graph.
type Location struct {
	ID    LocationID   `json:"id"`
	Name  string       `json:"name"`
	Kind  Kind         `json:"kind"`
	Exits []LocationID `json:"exits"`

	// Agents present, in arrival order.
	Agents []AgentID `json:"agents"`

	Items map[ItemID]Item `json:"-"`
}

func newLocation(id LocationID, name string, kind Kind) *Location {
	return &Location{
		ID:    id,
		Name:  name,
		Kind:  kind,
		Items: make(map[ItemID]Item),
	}
}

// HasExit reports whether the location leads directly to id.
func (l *Location) HasExit(id LocationID) bool {
	return slices.Contains(l.Exits, id)
}

// HasAgent reports whether the agent is present.
func (l *Location) HasAgent(id AgentID) bool {
	return slices.Contains(l.Agents, id)
}

// AddAgent records an arrival. Adding an agent already present is a no-op.
func (l *Location) AddAgent(id AgentID) {
	if !l.HasAgent(id) {
		l.Agents = append(l.Agents, id)
	}
}

// RemoveAgent records a departure and reports whether the agent was there.
func (l *Location) RemoveAgent(id AgentID) bool {
	i := slices.Index(l.Agents, id)
	if i < 0 {
		return false
	}
	l.Agents = slices.Delete(l.Agents, i, i+1)
	return true
}

// PutItem drops an item here.
func (l *Location) PutItem(it Item) {
	l.Items[it.ID] = it
}

// TakeItem removes and returns an item. The second result is false when the
// item is not here (already picked up, eaten, or never existed).
func (l *Location) TakeItem(id ItemID) (Item, bool) {
	it, ok := l.Items[id]
	if ok {
		delete(l.Items, id)
	}
	return it, ok
}

// ItemIDs returns the ids of items present in ascending order.
func (l *Location) ItemIDs() []ItemID {
	ids := make([]ItemID, 0, len(l.Items))
	for id := range l.Items {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// FirstFood returns the lowest-id item with positive food value.
func (l *Location) FirstFood() (Item, bool) {
	return FirstFood(l.Items)
}

// FirstFood returns the lowest-id item with positive food value from any
// item container.
func FirstFood(items map[ItemID]Item) (Item, bool) {
	var best Item
	found := false
	for _, it := range items {
		if it.FoodValue <= 0 {
			continue
		}
		if !found || it.ID < best.ID {
			best = it
			found = true
		}
	}
	return best, found
}
