package agents

// Health tracks an agent's body. The need levels grow over time and are
// relieved by events; none of them ever goes below zero.
type Health struct {
	Alive bool `json:"alive"`
	Awake bool `json:"awake"`

	Hunger     float64 `json:"hunger"`
	Sleepiness float64 `json:"sleepiness"`
	Poop       float64 `json:"poop"`
	Pain       float64 `json:"pain"`
}

// NewHealth returns a fresh, rested, fed body.
func NewHealth() Health {
	return Health{Alive: true, Awake: true}
}

// relieve lowers a need level without letting it go negative.
func relieve(level *float64, by float64) {
	*level -= by
	if *level < 0 {
		*level = 0
	}
}
