package agents

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestMoodDriftsOpinionsOfKnownCompany(t *testing.T) {
	w := newTestWorld(t, lineMap(1),
		Spawn{Name: "Ann", Location: 0, Disposition: 0.5},
		Spawn{Name: "Bob", Location: 0},
		Spawn{Name: "Cal", Location: 0},
	)
	ann := w.Agent(0)
	ann.Mind.OpinionsOnOthers[1] = 0.5
	tune := w.Tuning.Mood

	if _, ok := (MoodTracker{}).Step(ann, w); ok {
		t.Fatalf("mood tracker nominated itself")
	}
	bias, ok := ann.Mind.Preconceptions[1]
	if !ok || math.Abs(bias) > tune.Preconception {
		t.Fatalf("preconception of Bob = %v (%v), want within ±%v", bias, ok, tune.Preconception)
	}
	step := 0.5*tune.OpinionDrift + bias
	if got := ann.Mind.OpinionsOnOthers[1]; !near(got, 0.5+step) {
		t.Fatalf("opinion of Bob = %v, want %v", got, 0.5+step)
	}
	if _, ok := ann.Mind.OpinionsOnOthers[2]; ok {
		t.Fatalf("stranger Cal should be left for the encounter")
	}
	if _, ok := ann.Mind.Preconceptions[2]; ok {
		t.Fatalf("preconception drawn for a stranger")
	}
	if got := ann.Mind.OpinionsOnPlaces[0]; !near(got, 0.5*tune.PlaceDrift) {
		t.Fatalf("opinion of place = %v, want %v", got, 0.5*tune.PlaceDrift)
	}

	(MoodTracker{}).Step(ann, w)
	if ann.Mind.Preconceptions[1] != bias {
		t.Fatalf("preconception redrawn: %v then %v", bias, ann.Mind.Preconceptions[1])
	}
	if got := ann.Mind.OpinionsOnOthers[1]; !near(got, 0.5+2*step) {
		t.Fatalf("opinion of Bob after two steps = %v, want %v", got, 0.5+2*step)
	}
}

func TestMoodExhaustionAndBound(t *testing.T) {
	w := newTestWorld(t, lineMap(1),
		Spawn{Name: "Ann", Location: 0},
		Spawn{Name: "Bob", Location: 0},
	)
	ann := w.Agent(0)
	tune := w.Tuning.Mood

	ann.Mind.Cheer = 0.95
	ann.Health.Sleepiness = tune.ExhaustionThreshold + 1
	(MoodTracker{}).Step(ann, w)
	if !near(ann.Mind.Cheer, 0.95-tune.ExhaustionPenalty) {
		t.Fatalf("cheer = %v, want exhaustion penalty applied", ann.Mind.Cheer)
	}

	ann.Health.Awake = false
	ann.Mind.OpinionsOnOthers[1] = 0.5
	for _, tt := range []struct{ cheer, want float64 }{{3, tune.CheerBound}, {-4, -tune.CheerBound}} {
		ann.Mind.Cheer = tt.cheer
		(MoodTracker{}).Step(ann, w)
		if ann.Mind.Cheer != tt.want {
			t.Fatalf("cheer %v clamped to %v, want %v", tt.cheer, ann.Mind.Cheer, tt.want)
		}
	}
	if ann.Mind.OpinionsOnOthers[1] != 0.5 {
		t.Fatalf("opinion drifted while asleep: %v", ann.Mind.OpinionsOnOthers[1])
	}
}

func TestAcquaintanceOpinionsMoveWithTime(t *testing.T) {
	w := newTestWorld(t, lineMap(1),
		Spawn{Name: "Ann", Location: 0, Disposition: 0.8},
		Spawn{Name: "Bob", Location: 0, Disposition: 0.8},
	)
	ann, bob := w.Agent(0), w.Agent(1)
	ann.Mind.OpinionsOnOthers[bob.ID] = 0.1
	bob.Mind.OpinionsOnOthers[ann.ID] = 0.1

	w.Tick()

	if ann.Mind.OpinionsOnOthers[bob.ID] == 0.1 || bob.Mind.OpinionsOnOthers[ann.ID] == 0.1 {
		t.Fatalf("opinions unchanged after a tick together: %v / %v",
			ann.Mind.OpinionsOnOthers[bob.ID], bob.Mind.OpinionsOnOthers[ann.ID])
	}
}

func TestPoopWaitsForFood(t *testing.T) {
	w := newTestWorld(t, lineMap(1), Spawn{Name: "Ann", Location: 0})
	a := w.Agent(0)
	tune := w.Tuning.Poop

	a.Health.Hunger = tune.HungerGate / 2
	for range 10 {
		(PoopTracker{}).Step(a, w)
	}
	if a.Health.Poop != 0 {
		t.Fatalf("poop = %v on an empty stomach, want 0", a.Health.Poop)
	}

	a.Health.Hunger = tune.HungerGate
	(PoopTracker{}).Step(a, w)
	if !near(a.Health.Poop, tune.Rate) {
		t.Fatalf("poop = %v, want %v", a.Health.Poop, tune.Rate)
	}
}

func TestSideEffectDaemonsNeverNominate(t *testing.T) {
	w := newTestWorld(t, lineMap(1), Spawn{Name: "Ann", Location: 0})
	a := w.Agent(0)
	a.Health.Pain = 5

	wl := &Wanderlust{}
	for _, at := range []uint64{0, 10, 1000} {
		w.Time = at
		if _, ok := (PainTracker{}).Step(a, w); ok {
			t.Fatalf("pain tracker nominated itself at %d", at)
		}
		if _, ok := wl.Step(a, w); ok {
			t.Fatalf("wanderlust nominated itself at %d", at)
		}
	}
}

func TestWanderlustCapsExploreUrgency(t *testing.T) {
	w := newTestWorld(t, lineMap(1), Spawn{Name: "Ann", Location: 0})
	a := w.Agent(0)
	tune := w.Tuning.Wanderlust
	wl := &Wanderlust{}

	wl.Step(a, w)
	if _, ok := a.Mind.Goals[GoalExplore]; ok {
		t.Fatalf("explore urge before any wait")
	}

	w.Time = 10
	wl.Step(a, w)
	if got, want := a.Mind.Goals[GoalExplore], 10/tune.MaxWait; !near(got, want) {
		t.Fatalf("explore urgency after 10 ticks = %v, want %v", got, want)
	}

	w.Time = 1000
	wl.Step(a, w)
	if got := a.Mind.Goals[GoalExplore]; got != tune.Cap {
		t.Fatalf("explore urgency = %v, want capped at %v", got, tune.Cap)
	}
}
