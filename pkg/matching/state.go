package matching

// State is the lifecycle position of a single run.
type State int

const (
	StateIdle State = iota
	StateBlocking
	StateScoring
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBlocking:
		return "blocking"
	case StateScoring:
		return "scoring"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether no further transition can follow.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// StateHook observes run state transitions.
type StateHook func(runID string, from, to State)

type run struct {
	id    string
	state State
	hook  StateHook
}

func (r *run) transition(to State) {
	from := r.state
	if from == to || from.Terminal() {
		return
	}
	r.state = to
	if r.hook != nil {
		r.hook(r.id, from, to)
	}
}
