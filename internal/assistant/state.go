package assistant

// State is a step of the per-turn state machine.
type State int

// Turn states, in the order a successful turn visits them.
const (
	Idle State = iota
	Recording
	Transcribing
	Analyzing
	Recommending
	Rendering
	Done
	Aborted
)

var stateNames = [...]string{
	Idle:         "idle",
	Recording:    "recording",
	Transcribing: "transcribing",
	Analyzing:    "analyzing",
	Recommending: "recommending",
	Rendering:    "rendering",
	Done:         "done",
	Aborted:      "aborted",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Done || s == Aborted
}
