package wakecore

import (
	"log/slog"
	"sync"

	"github.com/tphakala/marvin-go/internal/errors"
	"github.com/tphakala/marvin-go/internal/logging"
)

// State is one mode of the audio-driven application, with an explicit
// lifecycle: Enter is called exactly once before the first Run tick, Exit
// exactly once when the state is replaced. Run performs one processing tick
// and returns true to remain active or false to request a transition.
type State interface {
	// Name returns a short identifier for logging.
	Name() string

	// Enter prepares the state. Called exactly once, before any Run.
	Enter()

	// Run performs one processing tick. Returns false when the state is
	// ready to hand over.
	Run() bool

	// Exit releases the state. Called exactly once, after the final Run.
	Exit()
}

// TransitionFunc selects the next state when the current one requests a
// transition. Returning nil or the current state keeps it active without
// re-running its lifecycle.
type TransitionFunc func(current State) State

// Application holds exactly one live state and delegates each processing tick
// to it. At most one state is live (post-Enter, pre-Exit) at any instant, and
// the old state's Exit always completes before the new state's Enter begins.
type Application struct {
	mu      sync.Mutex
	current State
	next    TransitionFunc
	logger  *slog.Logger
}

// NewApplication creates an application seeded with initial and enters it.
func NewApplication(initial State, next TransitionFunc) (*Application, error) {
	if initial == nil {
		return nil, errors.ValidationError("initial state is required")
	}

	logger := logging.ForService("wakecore")
	if logger == nil {
		logger = slog.Default()
	}

	a := &Application{
		current: initial,
		next:    next,
		logger:  logger.With("component", "application"),
	}
	a.current.Enter()
	a.logger.Info("initial state entered", "state", a.current.Name())
	return a, nil
}

// Run delegates one tick to the active state. When the state requests a
// transition the old state exits, the TransitionFunc picks a successor and
// the successor enters, all before Run returns; no tick is ever delivered to
// a state mid-transition.
func (a *Application) Run() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current.Run() {
		return
	}
	a.transition()
}

func (a *Application) transition() {
	var next State
	if a.next != nil {
		next = a.next(a.current)
	}
	if next == nil || next == a.current {
		// no replacement available; the current state stays live
		return
	}

	old := a.current
	old.Exit()
	next.Enter()
	a.current = next
	a.logger.Debug("state transition", "from", old.Name(), "to", next.Name())
}

// CurrentName returns the name of the live state, for diagnostics.
func (a *Application) CurrentName() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current.Name()
}
