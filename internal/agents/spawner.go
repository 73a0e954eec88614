// Agent spawning: names, temperaments and starting places for the initial
// population.
package agents

import (
	"fmt"
	"math/rand"

	"github.com/talgya/novelgen/internal/entropy"
	"github.com/talgya/novelgen/internal/world"
)

// Spawn describes one agent to be placed by NewWorld.
type Spawn struct {
	Name        string           `json:"name"`
	Location    world.LocationID `json:"location"`
	Disposition float64          `json:"disposition"`
}

// Spawner creates rosters for the simulation.
type Spawner struct {
	rng *rand.Rand
}

// NewSpawner creates a spawner with the given seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{rng: rand.New(rand.NewSource(seed + 300))}
}

// Roster creates count agents, each standing in a random location of a
// random village. Maps without villages spread agents over the whole map.
func (s *Spawner) Roster(m *world.Map, count int) ([]Spawn, error) {
	if m.LocationCount() == 0 {
		return nil, fmt.Errorf("roster: map has no locations")
	}

	var villages [][]world.LocationID
	for _, v := range m.Villages {
		if len(v) > 0 {
			villages = append(villages, v)
		}
	}

	roster := make([]Spawn, 0, count)
	for range count {
		at := world.LocationID(s.rng.Intn(m.LocationCount()))
		if village, ok := entropy.Pick(s.rng, villages); ok {
			at, _ = entropy.Pick(s.rng, village)
		}
		roster = append(roster, Spawn{
			Name:        s.generateName(),
			Location:    at,
			Disposition: s.rng.Float64()*2 - 1,
		})
	}
	return roster, nil
}

func (s *Spawner) generateName() string {
	firsts := maleNames
	if s.rng.Float32() < 0.5 {
		firsts = femaleNames
	}
	first := firsts[s.rng.Intn(len(firsts))]
	last := lastNames[s.rng.Intn(len(lastNames))]
	return first + " " + last
}

// Name pools for procedural generation.
var maleNames = []string{
	"Aldric", "Bram", "Cedric", "Doran", "Erik", "Finn", "Gareth",
	"Halvard", "Ivan", "Jasper", "Kael", "Leif", "Magnus", "Nils",
	"Oswin", "Per", "Quinn", "Rowan", "Stellan", "Theron", "Ulric",
	"Liam", "Noah", "Mateo", "Diego", "Samuel", "Iker", "Elijah",
}

var femaleNames = []string{
	"Astrid", "Brenna", "Calla", "Daria", "Elara", "Freya", "Greta",
	"Helene", "Iris", "Juno", "Kira", "Lena", "Mira", "Nessa",
	"Olwen", "Petra", "Runa", "Senna", "Thea", "Una", "Vera",
	"Emma", "Olivia", "Valentina", "Sofia", "Dorothy", "Salome",
}

var lastNames = []string{
	"Voss", "Thornwood", "Blackwood", "Ashford", "Dunmore", "Greenvale",
	"Hearthstone", "Millward", "Copperfield", "Ravenmoor", "Silverdale",
	"Deepwell", "Brightwater", "Riverstone", "Holloway", "Farrow",
	"Thatcher", "Caldwell", "Harper", "Mercer", "Garcia", "Walker",
	"Robinson", "Young", "Lopez", "Clark",
}
