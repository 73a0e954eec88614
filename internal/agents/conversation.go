package agents

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/talgya/novelgen/internal/config"
	"github.com/talgya/novelgen/internal/entropy"
	"github.com/talgya/novelgen/internal/world"
)

// TopicKind is the category a conversation is about.
type TopicKind uint8

const (
	TopicPerson TopicKind = iota
	TopicPlace
	TopicPath
	TopicThing
	TopicSmallTalk
)

var topicKinds = []TopicKind{TopicPerson, TopicPlace, TopicPath, TopicThing, TopicSmallTalk}

func (k TopicKind) String() string {
	switch k {
	case TopicPerson:
		return "person"
	case TopicPlace:
		return "place"
	case TopicPath:
		return "path"
	case TopicThing:
		return "thing"
	default:
		return "small talk"
	}
}

// Topic is the subject of a conversation. Which fields are meaningful
// depends on Kind: Person for people, Place for places and the location of
// a thing, From/To for paths, Item and ItemName for things.
type Topic struct {
	Kind     TopicKind
	Person   AgentID
	Place    world.LocationID
	From, To world.LocationID
	Item     world.ItemID
	ItemName string
}

func (t Topic) describe(w *World) string {
	switch t.Kind {
	case TopicPerson:
		return w.agentName(t.Person)
	case TopicPlace:
		return w.placeName(t.Place)
	case TopicPath:
		return fmt.Sprintf("the way from %s to %s", w.placeName(t.From), w.placeName(t.To))
	case TopicThing:
		return fmt.Sprintf("a %s in %s", t.ItemName, w.placeName(t.Place))
	default:
		return "nothing in particular"
	}
}

// Conversation is decided against start-of-tick state and applied later by
// a Converse event.
type Conversation struct {
	A, B  AgentID
	Tone  float64
	Topic Topic
}

func (c Conversation) mood() string {
	switch {
	case c.Tone > 1:
		return "nice"
	case c.Tone < -1:
		return "angry"
	default:
		return "neutral"
	}
}

// simulateConversation picks a category uniformly, then a topic within it
// weighted by how much the pair cares about it. A category with nothing
// worth discussing falls back to small talk.
func simulateConversation(a, b *Agent, w *World) Conversation {
	abTone, _ := a.Mind.opinionOf(b.ID)
	baTone, _ := b.Mind.opinionOf(a.ID)
	c := Conversation{A: a.ID, B: b.ID, Tone: (abTone + baTone) / 2}

	kind, _ := entropy.Pick(w.rng, topicKinds)
	var (
		topic Topic
		ok    bool
	)
	switch kind {
	case TopicPerson:
		topic, ok = personTopic(a, b, w)
	case TopicPlace:
		topic, ok = placeTopic(a, b, w)
	case TopicPath:
		topic, ok = pathTopic(a, b, w)
	case TopicThing:
		topic, ok = thingTopic(a, b, w)
	}
	if !ok {
		topic = Topic{Kind: TopicSmallTalk}
	}
	c.Topic = topic
	return c
}

func personTopic(a, b *Agent, w *World) (Topic, bool) {
	weights := make(map[AgentID]float64)
	for _, p := range []*Agent{a, b} {
		for id, op := range p.Mind.OpinionsOnOthers {
			if id == a.ID || id == b.ID {
				continue
			}
			weights[id] += math.Abs(op)
		}
	}
	id, ok := entropy.Choose(w.rng, sortedWeights(weights))
	return Topic{Kind: TopicPerson, Person: id}, ok
}

func placeTopic(a, b *Agent, w *World) (Topic, bool) {
	id, ok := entropy.Choose(w.rng, sortedWeights(placeWeights(a, b)))
	return Topic{Kind: TopicPlace, Place: id}, ok
}

// placeWeights sums how strongly either agent feels about each place.
func placeWeights(a, b *Agent) map[world.LocationID]float64 {
	weights := make(map[world.LocationID]float64)
	for _, p := range []*Agent{a, b} {
		for id, op := range p.Mind.OpinionsOnPlaces {
			weights[id] += math.Abs(op)
		}
	}
	return weights
}

type edge struct{ from, to world.LocationID }

// pathWeights rates every edge either agent knows by the stronger feeling
// either of them holds about one of its ends.
func pathWeights(a, b *Agent) map[edge]float64 {
	placeOpinion := func(id world.LocationID) float64 {
		return math.Max(math.Abs(a.Mind.OpinionsOnPlaces[id]), math.Abs(b.Mind.OpinionsOnPlaces[id]))
	}

	weights := make(map[edge]float64)
	for _, p := range []*Agent{a, b} {
		for from, exits := range p.Mind.LocationEdges {
			for to := range exits {
				weights[edge{from, to}] = math.Max(placeOpinion(from), placeOpinion(to))
			}
		}
	}
	return weights
}

func pathTopic(a, b *Agent, w *World) (Topic, bool) {
	weights := pathWeights(a, b)
	candidates := make([]entropy.Weighted[edge], 0, len(weights))
	for e, wt := range weights {
		candidates = append(candidates, entropy.Weighted[edge]{Item: e, Weight: wt})
	}
	slices.SortFunc(candidates, func(x, y entropy.Weighted[edge]) int {
		if c := cmp.Compare(x.Item.from, y.Item.from); c != 0 {
			return c
		}
		return cmp.Compare(x.Item.to, y.Item.to)
	})

	e, ok := entropy.Choose(w.rng, candidates)
	return Topic{Kind: TopicPath, From: e.from, To: e.to}, ok
}

type sighting struct {
	item world.ItemID
	at   world.LocationID
}

func thingTopic(a, b *Agent, w *World) (Topic, bool) {
	seen := make(map[sighting]bool)
	for _, p := range []*Agent{a, b} {
		for id, at := range p.Mind.ObjectsSeen {
			seen[sighting{id, at}] = true
		}
	}
	sightings := make([]sighting, 0, len(seen))
	for s := range seen {
		sightings = append(sightings, s)
	}
	slices.SortFunc(sightings, func(x, y sighting) int {
		if c := cmp.Compare(x.item, y.item); c != 0 {
			return c
		}
		return cmp.Compare(x.at, y.at)
	})

	s, ok := entropy.Pick(w.rng, sightings)
	if !ok {
		return Topic{}, false
	}
	name := "something"
	if loc := w.Map.Get(s.at); loc != nil {
		if it, there := loc.Items[s.item]; there {
			name = it.Name
		}
	}
	return Topic{Kind: TopicThing, Item: s.item, Place: s.at, ItemName: name}, true
}

// sortedWeights flattens a weight map in key order so a seeded run draws
// the same topic every time.
func sortedWeights[K cmp.Ordered](weights map[K]float64) []entropy.Weighted[K] {
	keys := make([]K, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]entropy.Weighted[K], len(keys))
	for i, k := range keys {
		out[i] = entropy.Weighted[K]{Item: k, Weight: weights[k]}
	}
	return out
}

// apply shifts both moods by the tone and lets each participant learn the
// topic from the other. Learning reads both minds before writing either.
func (c Conversation) apply(a, b *Agent, t config.Social) {
	shift := c.Tone * t.CheerFactor
	a.Mind.Cheer += shift
	b.Mind.Cheer += shift

	switch c.Topic.Kind {
	case TopicPerson:
		id := c.Topic.Person
		if id == a.ID || id == b.ID {
			return
		}
		learnOpinion(a.Mind.OpinionsOnOthers, b.Mind.OpinionsOnOthers, id, t.LearnRate)
	case TopicPlace:
		learnOpinion(a.Mind.OpinionsOnPlaces, b.Mind.OpinionsOnPlaces, c.Topic.Place, t.LearnRate)
	case TopicPath:
		a.Mind.learnEdge(c.Topic.From, c.Topic.To)
		b.Mind.learnEdge(c.Topic.From, c.Topic.To)
	case TopicThing:
		a.Mind.ObjectsSeen[c.Topic.Item] = c.Topic.Place
		b.Mind.ObjectsSeen[c.Topic.Item] = c.Topic.Place
	}
}

// learnOpinion moves each side's opinion of key toward the other's.
func learnOpinion[K comparable](x, y map[K]float64, key K, rate float64) {
	ox, oy := x[key], y[key]
	x[key] = ox + rate*(oy-ox)
	y[key] = oy + rate*(ox-oy)
}
