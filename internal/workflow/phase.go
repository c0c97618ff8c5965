package workflow

// Phase is the lifecycle of one controller's single outstanding request.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInFlight
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInFlight:
		return "in-flight"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// next lists the only legal successor of each phase.
var next = map[Phase]Phase{
	PhaseIdle:      PhaseInFlight,
	PhaseInFlight:  PhaseCompleted,
	PhaseCompleted: PhaseIdle,
}

// machine guards a controller's phase. Every change goes through advance,
// so a second submit while in flight is rejected rather than queued.
type machine struct {
	phase    Phase
	watchers []func(Phase)
}

// advance moves to to if that is the legal successor and reports whether it did.
func (m *machine) advance(to Phase) bool {
	if next[m.phase] != to {
		return false
	}
	m.phase = to
	for _, w := range m.watchers {
		w(to)
	}
	return true
}

// finish runs publish while Completed and then returns to Idle.
func (m *machine) finish(publish func()) bool {
	if !m.advance(PhaseCompleted) {
		return false
	}
	publish()
	m.advance(PhaseIdle)
	return true
}

func (m *machine) watch(fn func(Phase)) {
	m.watchers = append(m.watchers, fn)
}
