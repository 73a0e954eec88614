// World generation: a tangled greenwood with a handful of villages grown out
// of it. Simplex noise decides how fertile each place is.
package world

import (
	"fmt"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/novelgen/internal/entropy"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Scale       int     // Number of agents the world is sized for; 20 locations each
	Seed        int64   // Random seed (0 = random)
	MaxVillages int     // Villages are drawn from 1..MaxVillages
	VillageSize int     // Target locations per village
	MaxItems    int     // Upper bound on items generated per location
	BerryFood   float64 // Food value of forest berries
	CarrotFood  float64 // Food value of village carrots
}

// DefaultGenConfig returns the standard world shape.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Scale:       10,
		Seed:        0,
		MaxVillages: 4,
		VillageSize: 10,
		MaxItems:    15,
		BerryFood:   1.0,
		CarrotFood:  10.0,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	cfg := DefaultGenConfig()
	cfg.Scale = 2
	cfg.Seed = 42
	cfg.MaxVillages = 2
	cfg.VillageSize = 4
	return cfg
}

// Generate creates a connected location graph with items placed.
func Generate(cfg GenConfig) (*Map, error) {
	if cfg.Scale <= 0 {
		return nil, fmt.Errorf("generate: scale must be positive, got %d", cfg.Scale)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = entropy.CryptoSeed()
	}
	rng := rand.New(rand.NewSource(seed))

	// Independent fertility fields for wild and cultivated land.
	berryNoise := opensimplex.NewNormalized(seed)
	gardenNoise := opensimplex.NewNormalized(seed + 1)

	total := cfg.Scale * 20
	villageCount := 1
	if cfg.MaxVillages > 1 {
		villageCount = 1 + rng.Intn(cfg.MaxVillages)
	}
	if villageCount > total/2 {
		villageCount = max(1, total/2)
	}
	villageSize := cfg.VillageSize
	for villageSize > 1 && villageCount*villageSize > total/2 {
		villageSize--
	}
	if villageSize < 1 {
		villageSize = 1
	}
	forestCount := total - villageCount*(villageSize-1)

	m := NewMap()
	width := int(math.Ceil(math.Sqrt(float64(total))))

	// The greenwood: a random spanning tree plus a few extra paths so that
	// every glade is reachable but the woods still loop back on themselves.
	forest := make([]LocationID, 0, forestCount)
	for i := 0; i < forestCount; i++ {
		loc := m.AddLocation("the forest", KindForest)
		forest = append(forest, loc.ID)
		if i > 0 {
			m.Connect(loc.ID, forest[rng.Intn(i)])
		}
		fertility := fieldAt(berryNoise, int(loc.ID), width)
		scatter(m, rng, loc.ID, "berry", cfg.BerryFood, fertility, cfg.MaxItems)
	}
	for _, id := range forest {
		for extra := rng.Intn(3); extra > 0; extra-- {
			m.Connect(id, forest[rng.Intn(len(forest))])
		}
	}

	// Villages start from a forest glade, which keeps its berries, and grow
	// street by street.
	names := villageNames(rng, villageCount)
	seeds := rng.Perm(len(forest))[:villageCount]
	for v := 0; v < villageCount; v++ {
		seedLoc := m.Get(forest[seeds[v]])
		seedLoc.Name = names[v]
		seedLoc.Kind = KindVillage
		village := []LocationID{seedLoc.ID}

		for len(village) < villageSize {
			loc := m.AddLocation(names[v], KindVillage)
			m.Connect(loc.ID, village[rng.Intn(len(village))])
			village = append(village, loc.ID)
		}
		for _, id := range village {
			fertility := fieldAt(gardenNoise, int(id), width)
			scatter(m, rng, id, "carrot", cfg.CarrotFood, fertility, cfg.MaxItems)
		}
		m.Villages = append(m.Villages, village)
	}

	return m, nil
}

// scatter drops up to limit items at a location, scaled by a fertility in [0, 1].
func scatter(m *Map, rng *rand.Rand, at LocationID, name string, food, fertility float64, limit int) {
	if limit <= 0 {
		return
	}
	n := int(math.Round(fertility * float64(rng.Intn(limit+1))))
	for i := 0; i < n; i++ {
		// at always exists here; PlaceItem cannot fail.
		_, _ = m.PlaceItem(at, name, food)
	}
}

// fieldAt samples a noise field at the grid cell for a location index.
func fieldAt(noise opensimplex.Noise, index, width int) float64 {
	x := float64(index % width)
	y := float64(index / width)
	return octaveNoise(noise, x, y, 3, 0.15, 0.5)
}

func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// villageNames produces procedural village names by combining syllables.
func villageNames(rng *rand.Rand, count int) []string {
	prefixes := []string{
		"Iron", "Green", "Ash", "Stone", "Mill", "Cross", "Black",
		"Silver", "Red", "White", "Dark", "Bright", "High", "Low",
		"Old", "New", "Far", "Deep", "Long", "Broad", "Gold", "Frost",
		"Storm", "Thorn", "Elm", "Oak", "Pine", "Copper", "River",
	}
	suffixes := []string{
		"haven", "ford", "hollow", "wick", "bridge", "gate", "keep",
		"stead", "wood", "field", "dale", "crest", "vale", "port",
		"town", "bury", "marsh", "well", "brook", "cliff", "moor",
		"ridge", "watch", "fall", "rest", "point", "reach", "helm",
	}

	combos := len(prefixes) * len(suffixes)
	used := make(map[string]bool)
	names := make([]string, 0, count)

	for len(names) < count {
		name := prefixes[rng.Intn(len(prefixes))] + suffixes[rng.Intn(len(suffixes))]
		// Every pairing is taken: number the next round of them.
		if round := len(names) / combos; round > 0 {
			name = fmt.Sprintf("%s %d", name, round+1)
		}
		if !used[name] {
			used[name] = true
			names = append(names, name)
		}
	}

	return names
}
