// Package config holds the simulation's tunable constants. Every threshold
// the daemons, executive and conversation layer compare against lives here
// so a run can be reshaped from a YAML file without recompiling.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning is the full set of simulation knobs.
type Tuning struct {
	Hunger     Hunger     `yaml:"hunger"`
	Sleep      Sleep      `yaml:"sleep"`
	Poop       Poop       `yaml:"poop"`
	Pain       Pain       `yaml:"pain"`
	Mood       Mood       `yaml:"mood"`
	Encounter  Encounter  `yaml:"encounter"`
	Wanderlust Wanderlust `yaml:"wanderlust"`
	Executive  Executive  `yaml:"executive"`
	Social     Social     `yaml:"social"`
	Places     Places     `yaml:"places"`
}

type Hunger struct {
	RateAwake           float64 `yaml:"rate_awake"`
	RateAsleep          float64 `yaml:"rate_asleep"`
	GoalThreshold       float64 `yaml:"goal_threshold"`
	GoalBoost           float64 `yaml:"goal_boost"`
	SatedThreshold      float64 `yaml:"sated_threshold"` // Eating below this clears FindFood
	PainThreshold       float64 `yaml:"pain_threshold"`
	PainRate            float64 `yaml:"pain_rate"`
	StarvationThreshold float64 `yaml:"starvation_threshold"`
}

type Sleep struct {
	RateAwake          float64 `yaml:"rate_awake"`
	RecoveryAsleep     float64 `yaml:"recovery_asleep"`
	GoalThreshold      float64 `yaml:"goal_threshold"`
	GoalBoost          float64 `yaml:"goal_boost"`
	ForcedNapThreshold float64 `yaml:"forced_nap_threshold"`
	WakeUrgency        float64 `yaml:"wake_urgency"`
}

type Poop struct {
	Rate              float64 `yaml:"rate"`
	HungerGate        float64 `yaml:"hunger_gate"` // No accumulation while hunger is below this
	GoalThreshold     float64 `yaml:"goal_threshold"`
	GoalBoost         float64 `yaml:"goal_boost"`
	PainThreshold     float64 `yaml:"pain_threshold"`
	PainRate          float64 `yaml:"pain_rate"`
	AccidentThreshold float64 `yaml:"accident_threshold"`
}

type Pain struct {
	AgitationFactor float64 `yaml:"agitation_factor"`
	CheerFactor     float64 `yaml:"cheer_factor"`
	Recovery        float64 `yaml:"recovery"`
	CheerDrift      float64 `yaml:"cheer_drift"` // Pull of cheer back toward disposition
	AgitationDecay  float64 `yaml:"agitation_decay"`
}

// Mood covers the waking drift of cheer and opinions.
type Mood struct {
	OpinionDrift        float64 `yaml:"opinion_drift"` // Share of cheer added to opinions of present company
	Preconception       float64 `yaml:"preconception"` // Bound of the fixed per-acquaintance bias
	PlaceDrift          float64 `yaml:"place_drift"`
	CheerBound          float64 `yaml:"cheer_bound"`
	ExhaustionThreshold float64 `yaml:"exhaustion_threshold"`
	ExhaustionPenalty   float64 `yaml:"exhaustion_penalty"`
}

type Encounter struct {
	Urgency float64 `yaml:"urgency"`
}

type Wanderlust struct {
	MinWait float64 `yaml:"min_wait"`
	MaxWait float64 `yaml:"max_wait"`
	Cap     float64 `yaml:"cap"`
}

type Executive struct {
	ActiveUrgency     float64 `yaml:"active_urgency"`
	PreemptionFactor  float64 `yaml:"preemption_factor"`
	ExploreIterations int     `yaml:"explore_iterations"`
}

type Social struct {
	RelevanceThreshold float64 `yaml:"relevance_threshold"`
	Urgency            float64 `yaml:"urgency"`
	CheerFactor        float64 `yaml:"cheer_factor"`
	LearnRate          float64 `yaml:"learn_rate"`
}

type Places struct {
	MoveOpinionFactor float64 `yaml:"move_opinion_factor"`
}

// Default returns the stock tuning. One tick is one simulated hour, so the
// starvation threshold is thirty days of waking hunger.
func Default() Tuning {
	return Tuning{
		Hunger: Hunger{
			RateAwake:           0.1,
			RateAsleep:          0.05,
			GoalThreshold:       5.0,
			GoalBoost:           0.5,
			SatedThreshold:      5.0,
			PainThreshold:       10.0,
			PainRate:            0.1,
			StarvationThreshold: 24 * 30,
		},
		Sleep: Sleep{
			RateAwake:          0.1,
			RecoveryAsleep:     0.3,
			GoalThreshold:      8.0,
			GoalBoost:          0.5,
			ForcedNapThreshold: 16.0,
			WakeUrgency:        1.0,
		},
		Poop: Poop{
			Rate:              0.1,
			HungerGate:        0.5,
			GoalThreshold:     4.0,
			GoalBoost:         0.5,
			PainThreshold:     8.0,
			PainRate:          0.1,
			AccidentThreshold: 12.0,
		},
		Pain: Pain{
			AgitationFactor: 0.1,
			CheerFactor:     0.02,
			Recovery:        0.01,
			CheerDrift:      0.001,
			AgitationDecay:  0.05,
		},
		Mood: Mood{
			OpinionDrift:        0.1,
			Preconception:       0.1,
			PlaceDrift:          0.1,
			CheerBound:          1.0,
			ExhaustionThreshold: 16.0,
			ExhaustionPenalty:   0.1,
		},
		Encounter: Encounter{Urgency: 0.25},
		Wanderlust: Wanderlust{
			MinWait: 5,
			MaxWait: 50,
			Cap:     0.5,
		},
		Executive: Executive{
			ActiveUrgency:     1.0,
			PreemptionFactor:  1.20,
			ExploreIterations: 5,
		},
		Social: Social{
			RelevanceThreshold: 0.4,
			Urgency:            0.2,
			CheerFactor:        0.1,
			LearnRate:          0.1,
		},
		Places: Places{MoveOpinionFactor: 0.1},
	}
}

// Load reads a YAML tuning file on top of Default. Keys absent from the file
// keep their default values.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Validate rejects settings the simulation cannot run with.
func (t Tuning) Validate() error {
	if t.Executive.PreemptionFactor < 1 {
		return fmt.Errorf("executive.preemption_factor must be >= 1, got %v", t.Executive.PreemptionFactor)
	}
	if t.Executive.ExploreIterations < 0 {
		return fmt.Errorf("executive.explore_iterations must be >= 0, got %d", t.Executive.ExploreIterations)
	}
	if t.Hunger.StarvationThreshold <= t.Hunger.PainThreshold {
		return fmt.Errorf("hunger.starvation_threshold (%v) must exceed hunger.pain_threshold (%v)",
			t.Hunger.StarvationThreshold, t.Hunger.PainThreshold)
	}
	if t.Sleep.ForcedNapThreshold <= t.Sleep.GoalThreshold {
		return fmt.Errorf("sleep.forced_nap_threshold (%v) must exceed sleep.goal_threshold (%v)",
			t.Sleep.ForcedNapThreshold, t.Sleep.GoalThreshold)
	}
	if t.Mood.CheerBound <= 0 {
		return fmt.Errorf("mood.cheer_bound must be positive, got %v", t.Mood.CheerBound)
	}
	if t.Mood.Preconception < 0 {
		return fmt.Errorf("mood.preconception must be >= 0, got %v", t.Mood.Preconception)
	}
	if t.Wanderlust.MaxWait <= 0 {
		return fmt.Errorf("wanderlust.max_wait must be positive, got %v", t.Wanderlust.MaxWait)
	}
	return nil
}
