package agents

import (
	"math"
	"testing"

	"github.com/talgya/novelgen/internal/config"
	"github.com/talgya/novelgen/internal/world"
)

func TestSocialTriggerNeedsRelevance(t *testing.T) {
	w := newTestWorld(t, lineMap(1),
		Spawn{Name: "Ann", Location: 0},
		Spawn{Name: "Bob", Location: 0},
	)
	ann := w.Agent(0)
	s := &Sociability{}

	ann.Mind.OpinionsOnOthers[1] = 0.3
	if _, ok := s.Step(ann, w); ok {
		t.Fatalf("opinion 0.3 should not start a conversation")
	}

	ann.Mind.OpinionsOnOthers[1] = -0.5
	urgency, ok := s.Step(ann, w)
	if !ok || urgency != w.Tuning.Social.Urgency {
		t.Fatalf("step = (%v, %v), want social urgency", urgency, ok)
	}
	if s.partner != 1 {
		t.Fatalf("partner = %d, want 1", s.partner)
	}

	w.Agent(1).Health.Awake = false
	if _, ok := s.Step(ann, w); ok {
		t.Fatalf("should not talk to a sleeping agent")
	}
}

func TestConversationToneAndSmallTalkFallback(t *testing.T) {
	w := newTestWorld(t, lineMap(1),
		Spawn{Name: "Ann", Location: 0},
		Spawn{Name: "Bob", Location: 0},
	)
	ann, bob := w.Agent(0), w.Agent(1)
	ann.Mind.OpinionsOnOthers[bob.ID] = 2
	bob.Mind.OpinionsOnOthers[ann.ID] = 1

	// Nobody else is known, no place has an opinion and nothing was seen.
	for range 50 {
		c := simulateConversation(ann, bob, w)
		if c.Tone != 1.5 {
			t.Fatalf("tone = %v, want 1.5", c.Tone)
		}
		if c.Topic.Kind != TopicSmallTalk {
			t.Fatalf("topic = %v, want small talk", c.Topic.Kind)
		}
		if c.mood() != "nice" {
			t.Fatalf("mood = %q, want nice", c.mood())
		}
	}
}

func TestPersonTopicExcludesParticipants(t *testing.T) {
	w := newTestWorld(t, lineMap(1),
		Spawn{Name: "Ann", Location: 0},
		Spawn{Name: "Bob", Location: 0},
		Spawn{Name: "Cal", Location: 0},
	)
	ann, bob := w.Agent(0), w.Agent(1)
	ann.Mind.OpinionsOnOthers[bob.ID] = 5
	bob.Mind.OpinionsOnOthers[ann.ID] = 5
	ann.Mind.OpinionsOnOthers[2] = 0.1

	for range 200 {
		topic, ok := personTopic(ann, bob, w)
		if !ok || topic.Person != 2 {
			t.Fatalf("person topic = %+v (%v), want Cal", topic, ok)
		}
	}

	delete(ann.Mind.OpinionsOnOthers, 2)
	if _, ok := personTopic(ann, bob, w); ok {
		t.Fatalf("no third party known, want small talk")
	}
}

func TestConversationLearning(t *testing.T) {
	tune := config.Default().Social
	w := newTestWorld(t, lineMap(3),
		Spawn{Name: "Ann", Location: 0},
		Spawn{Name: "Bob", Location: 0},
		Spawn{Name: "Cal", Location: 2},
	)
	ann, bob := w.Agent(0), w.Agent(1)
	ann.Mind.OpinionsOnOthers[2] = 1

	c := Conversation{A: 0, B: 1, Tone: 2, Topic: Topic{Kind: TopicPerson, Person: 2}}
	c.apply(ann, bob, tune)

	wantAnn := 1 - tune.LearnRate
	wantBob := tune.LearnRate
	if math.Abs(ann.Mind.OpinionsOnOthers[2]-wantAnn) > 1e-9 || math.Abs(bob.Mind.OpinionsOnOthers[2]-wantBob) > 1e-9 {
		t.Fatalf("opinions of Cal = %v / %v, want %v / %v",
			ann.Mind.OpinionsOnOthers[2], bob.Mind.OpinionsOnOthers[2], wantAnn, wantBob)
	}
	if math.Abs(ann.Mind.Cheer-2*tune.CheerFactor) > 1e-9 || math.Abs(bob.Mind.Cheer-2*tune.CheerFactor) > 1e-9 {
		t.Fatalf("cheer = %v / %v, want both shifted by tone", ann.Mind.Cheer, bob.Mind.Cheer)
	}

	path := Conversation{A: 0, B: 1, Topic: Topic{Kind: TopicPath, From: 1, To: 2}}
	path.apply(ann, bob, tune)
	if !ann.Mind.LocationEdges[1][2] || !bob.Mind.LocationEdges[1][2] {
		t.Fatalf("path topic did not teach the edge")
	}

	thing := Conversation{A: 0, B: 1, Topic: Topic{Kind: TopicThing, Item: 9, Place: 2}}
	thing.apply(ann, bob, tune)
	if ann.Mind.ObjectsSeen[9] != 2 || bob.Mind.ObjectsSeen[9] != 2 {
		t.Fatalf("thing topic did not teach the item location")
	}
}

func TestThingTopicNamesTheItem(t *testing.T) {
	m := lineMap(2)
	if _, err := m.PlaceItem(1, "carrot", 10); err != nil {
		t.Fatalf("place item: %v", err)
	}
	w := newTestWorld(t, m,
		Spawn{Name: "Ann", Location: 1},
		Spawn{Name: "Bob", Location: 0},
	)

	topic, ok := thingTopic(w.Agent(0), w.Agent(1), w)
	if !ok || topic.ItemName != "carrot" || topic.Place != 1 {
		t.Fatalf("thing topic = %+v (%v)", topic, ok)
	}
}

func TestConverseLogsForBoth(t *testing.T) {
	w := newTestWorld(t, lineMap(1),
		Spawn{Name: "Ann", Location: 0},
		Spawn{Name: "Bob", Location: 0},
	)
	ev := &Converse{Conversation: Conversation{A: 0, B: 1, Topic: Topic{Kind: TopicSmallTalk}}}
	ev.Apply(w)

	if w.Metrics()[MetricConversation] != 1 {
		t.Fatalf("conversation metric = %d, want 1", w.Metrics()[MetricConversation])
	}
	annLog, bobLog := w.AgentEventLog(0), w.AgentEventLog(1)
	if len(annLog) != 1 || len(bobLog) != 1 {
		t.Fatalf("logs = %v / %v", annLog, bobLog)
	}
	if want := "Had a neutral conversation with Bob about nothing in particular."; annLog[0] != want {
		t.Fatalf("ann log = %q, want %q", annLog[0], want)
	}
	if want := "Had a neutral conversation with Ann about nothing in particular."; bobLog[0] != want {
		t.Fatalf("bob log = %q, want %q", bobLog[0], want)
	}
}

func TestConverseWithAbsentPartnerFails(t *testing.T) {
	w := newTestWorld(t, lineMap(2),
		Spawn{Name: "Ann", Location: 0},
		Spawn{Name: "Bob", Location: 1},
	)
	(&Converse{Conversation: Conversation{A: 0, B: 1, Tone: 3}}).Apply(w)

	if w.Metrics()[MetricConversation] != 0 {
		t.Fatalf("conversation counted without a partner")
	}
	if w.Agent(0).Mind.Cheer != 0 {
		t.Fatalf("cheer changed by a failed conversation")
	}
	if got := countRecords[*Narrative](w.Agent(0)); got != 1 {
		t.Fatalf("failure narratives = %d, want 1", got)
	}
}

func TestPlaceWeightsSumBothAgents(t *testing.T) {
	w := newTestWorld(t, lineMap(3),
		Spawn{Name: "Ann", Location: 0},
		Spawn{Name: "Bob", Location: 2},
	)
	ann, bob := w.Agent(0), w.Agent(1)
	ann.Mind.OpinionsOnPlaces[0] = 0.2
	bob.Mind.OpinionsOnPlaces[0] = -0.6
	bob.Mind.OpinionsOnPlaces[1] = 0.3
	ann.Mind.OpinionsOnPlaces[2] = 0.1

	got := placeWeights(ann, bob)
	want := map[world.LocationID]float64{0: 0.8, 1: 0.3, 2: 0.1}
	if len(got) != len(want) {
		t.Fatalf("weights = %v, want %v", got, want)
	}
	for id, wt := range want {
		if math.Abs(got[id]-wt) > 1e-9 {
			t.Fatalf("weight of place %d = %v, want %v", id, got[id], wt)
		}
	}
}

func TestPathWeightsTakeStrongerEnd(t *testing.T) {
	// Ann starts at 0 knowing 0 -> 1; Bob starts at 2 knowing 2 -> 1.
	w := newTestWorld(t, lineMap(3),
		Spawn{Name: "Ann", Location: 0},
		Spawn{Name: "Bob", Location: 2},
	)
	ann, bob := w.Agent(0), w.Agent(1)
	ann.Mind.OpinionsOnPlaces[0] = 0.2
	bob.Mind.OpinionsOnPlaces[0] = -0.6
	bob.Mind.OpinionsOnPlaces[1] = 0.3
	ann.Mind.OpinionsOnPlaces[2] = 0.1

	got := pathWeights(ann, bob)
	want := map[edge]float64{{0, 1}: 0.6, {2, 1}: 0.3}
	if len(got) != len(want) {
		t.Fatalf("weights = %v, want %v", got, want)
	}
	for e, wt := range want {
		if math.Abs(got[e]-wt) > 1e-9 {
			t.Fatalf("weight of %v = %v, want %v", e, got[e], wt)
		}
	}
}

func TestZeroWeightTopicsFallBackToSmallTalk(t *testing.T) {
	w := newTestWorld(t, lineMap(1),
		Spawn{Name: "Ann", Location: 0},
		Spawn{Name: "Bob", Location: 0},
		Spawn{Name: "Cal", Location: 0},
	)
	ann, bob := w.Agent(0), w.Agent(1)
	ann.Mind.OpinionsOnOthers[bob.ID] = 1
	bob.Mind.OpinionsOnOthers[ann.ID] = 1
	// Known, but nobody feels anything about them.
	ann.Mind.OpinionsOnOthers[2] = 0
	bob.Mind.OpinionsOnOthers[2] = 0
	ann.Mind.OpinionsOnPlaces[0] = 0
	bob.Mind.OpinionsOnPlaces[0] = 0

	for range 50 {
		if c := simulateConversation(ann, bob, w); c.Topic.Kind != TopicSmallTalk {
			t.Fatalf("topic = %v, want small talk", c.Topic.Kind)
		}
	}
}
