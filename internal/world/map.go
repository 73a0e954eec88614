package world

import (
	"fmt"
	"slices"
)

// Map is the arena of all locations, addressed by LocationID.
type Map struct {
	Locations []*Location `json:"locations"`

	// Villages groups village location ids by settlement, seed first.
	Villages [][]LocationID `json:"villages"`

	nextItem ItemID
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{}
}

// AddLocation appends a new location and returns it.
func (m *Map) AddLocation(name string, kind Kind) *Location {
	loc := newLocation(LocationID(len(m.Locations)), name, kind)
	m.Locations = append(m.Locations, loc)
	return loc
}

// Get returns the location with the given id, or nil if out of range.
func (m *Map) Get(id LocationID) *Location {
	if id < 0 || int(id) >= len(m.Locations) {
		return nil
	}
	return m.Locations[id]
}

// Connect joins two locations in both directions. Self-loops and duplicate
// exits are ignored.
func (m *Map) Connect(a, b LocationID) {
	if a == b {
		return
	}
	la, lb := m.Get(a), m.Get(b)
	if la == nil || lb == nil {
		return
	}
	if !la.HasExit(b) {
		la.Exits = append(la.Exits, b)
	}
	if !lb.HasExit(a) {
		lb.Exits = append(lb.Exits, a)
	}
}

// PlaceItem creates a new item at a location and returns it.
func (m *Map) PlaceItem(at LocationID, name string, food float64) (Item, error) {
	loc := m.Get(at)
	if loc == nil {
		return Item{}, fmt.Errorf("place item: no location %d", at)
	}
	it := Item{ID: m.nextItem, Name: name, FoodValue: food}
	m.nextItem++
	loc.PutItem(it)
	return it, nil
}

// Locate returns the id of the location currently holding an item.
func (m *Map) Locate(id ItemID) (LocationID, bool) {
	for _, loc := range m.Locations {
		if _, ok := loc.Items[id]; ok {
			return loc.ID, true
		}
	}
	return 0, false
}

// LocationCount returns the number of locations.
func (m *Map) LocationCount() int {
	return len(m.Locations)
}

// ItemCount returns the number of items lying on the ground.
func (m *Map) ItemCount() int {
	n := 0
	for _, loc := range m.Locations {
		n += len(loc.Items)
	}
	return n
}

// Reachable returns every location reachable from start, including start.
func (m *Map) Reachable(start LocationID) []LocationID {
	if m.Get(start) == nil {
		return nil
	}
	seen := map[LocationID]bool{start: true}
	queue := []LocationID{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range m.Locations[cur].Exits {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	out := make([]LocationID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// KindCounts returns a summary of location kinds.
func KindCounts(m *Map) map[Kind]int {
	counts := make(map[Kind]int)
	for _, loc := range m.Locations {
		counts[loc.Kind]++
	}
	return counts
}

// KindName returns the human-readable name for a location kind.
func KindName(k Kind) string {
	switch k {
	case KindForest:
		return "forest"
	case KindVillage:
		return "village"
	default:
		return "unknown"
	}
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(locations=%d, villages=%d, items=%d)", m.LocationCount(), len(m.Villages), m.ItemCount())
}
