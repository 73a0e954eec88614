package world

import (
	"math/rand"
	"testing"
)

func TestGenerateConnectedAndSymmetric(t *testing.T) {
	for _, seed := range []int64{1, 2, 42, 99} {
		cfg := SmallTestConfig()
		cfg.Seed = seed
		m, err := Generate(cfg)
		if err != nil {
			t.Fatalf("seed %d: generate: %v", seed, err)
		}

		if got, want := m.LocationCount(), cfg.Scale*20; got != want {
			t.Errorf("seed %d: %d locations, want %d", seed, got, want)
		}
		if reach := m.Reachable(0); len(reach) != m.LocationCount() {
			t.Errorf("seed %d: only %d of %d locations reachable", seed, len(reach), m.LocationCount())
		}
		for _, loc := range m.Locations {
			for _, exit := range loc.Exits {
				if exit == loc.ID {
					t.Errorf("seed %d: location %d has a self exit", seed, loc.ID)
				}
				if !m.Get(exit).HasExit(loc.ID) {
					t.Errorf("seed %d: exit %d -> %d is one-way", seed, loc.ID, exit)
				}
			}
		}
	}
}

func TestGenerateVillages(t *testing.T) {
	m, err := Generate(SmallTestConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(m.Villages) == 0 {
		t.Fatal("expected at least one village")
	}
	for _, village := range m.Villages {
		if len(village) == 0 {
			t.Fatal("empty village")
		}
		for i, id := range village {
			loc := m.Get(id)
			if loc.Kind != KindVillage {
				t.Errorf("village location %d has kind %s", id, KindName(loc.Kind))
			}
			for _, it := range loc.Items {
				// The founding glade keeps the berries it grew as forest.
				if i == 0 && it.Name == "berry" && it.FoodValue == 1 {
					continue
				}
				if it.Name != "carrot" || it.FoodValue != 10 {
					t.Errorf("unexpected item %+v at village location %d", it, i)
				}
			}
		}
	}
	counts := KindCounts(m)
	if counts[KindForest] == 0 || counts[KindVillage] == 0 {
		t.Errorf("expected both kinds, got %v", counts)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(SmallTestConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := Generate(SmallTestConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if a.String() != b.String() {
		t.Fatalf("same seed produced %s and %s", a, b)
	}
	for i := range a.Locations {
		if len(a.Locations[i].Exits) != len(b.Locations[i].Exits) {
			t.Fatalf("location %d exits differ", i)
		}
	}
}

func TestGenerateRejectsZeroScale(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Scale = 0
	if _, err := Generate(cfg); err == nil {
		t.Fatal("expected error for zero scale")
	}
}

func TestLocationOccupantsAndItems(t *testing.T) {
	m := NewMap()
	a := m.AddLocation("glade", KindForest)
	b := m.AddLocation("Ashford", KindVillage)
	m.Connect(a.ID, b.ID)
	m.Connect(a.ID, b.ID)
	m.Connect(a.ID, a.ID)
	if len(a.Exits) != 1 || len(b.Exits) != 1 {
		t.Fatalf("expected one exit each, got %v and %v", a.Exits, b.Exits)
	}

	a.AddAgent(3)
	a.AddAgent(3)
	a.AddAgent(5)
	if len(a.Agents) != 2 {
		t.Fatalf("expected two occupants, got %v", a.Agents)
	}
	if !a.RemoveAgent(3) || a.RemoveAgent(3) {
		t.Fatal("remove should succeed exactly once")
	}

	stone, _ := m.PlaceItem(a.ID, "stone", 0)
	berry, _ := m.PlaceItem(a.ID, "berry", 1)
	if _, err := m.PlaceItem(99, "ghost", 1); err == nil {
		t.Fatal("expected error placing item at missing location")
	}

	food, ok := a.FirstFood()
	if !ok || food.ID != berry.ID {
		t.Fatalf("FirstFood = %+v, %v; want berry", food, ok)
	}
	if loc, ok := m.Locate(stone.ID); !ok || loc != a.ID {
		t.Fatalf("Locate(stone) = %d, %v", loc, ok)
	}
	if _, ok := a.TakeItem(berry.ID); !ok {
		t.Fatal("expected to take berry")
	}
	if _, ok := a.TakeItem(berry.ID); ok {
		t.Fatal("berry taken twice")
	}
	if _, ok := a.FirstFood(); ok {
		t.Fatal("stone should not count as food")
	}
	if ids := a.ItemIDs(); len(ids) != 1 || ids[0] != stone.ID {
		t.Fatalf("ItemIDs = %v", ids)
	}
	if m.ItemCount() != 1 {
		t.Fatalf("ItemCount = %d, want 1", m.ItemCount())
	}
	if m.Get(-1) != nil || m.Get(2) != nil {
		t.Fatal("out of range Get should return nil")
	}
}

func TestVillageNamesOutlastSyllables(t *testing.T) {
	count := 29*28 + 10
	names := villageNames(rand.New(rand.NewSource(3)), count)
	if len(names) != count {
		t.Fatalf("got %d names, want %d", len(names), count)
	}
	seen := make(map[string]bool, count)
	for _, n := range names {
		if seen[n] {
			t.Fatalf("duplicate name %q", n)
		}
		seen[n] = true
	}
}
