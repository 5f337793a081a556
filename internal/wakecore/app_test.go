package wakecore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedState records its lifecycle calls into a shared event log and
// requests a transition after stayFor successful ticks.
type scriptedState struct {
	name    string
	log     *[]string
	stayFor int
	runs    int
}

func (s *scriptedState) Name() string { return s.name }

func (s *scriptedState) Enter() {
	*s.log = append(*s.log, "enter:"+s.name)
}

func (s *scriptedState) Run() bool {
	*s.log = append(*s.log, "run:"+s.name)
	s.runs++
	return s.runs <= s.stayFor
}

func (s *scriptedState) Exit() {
	*s.log = append(*s.log, "exit:"+s.name)
}

func TestApplicationRequiresInitialState(t *testing.T) {
	t.Parallel()

	_, err := NewApplication(nil, nil)
	assert.Error(t, err)
}

func TestApplicationEntersInitialStateBeforeAnyRun(t *testing.T) {
	t.Parallel()

	var log []string
	initial := &scriptedState{name: "a", log: &log, stayFor: 10}

	app, err := NewApplication(initial, nil)
	require.NoError(t, err)

	app.Run()
	require.GreaterOrEqual(t, len(log), 2)
	assert.Equal(t, "enter:a", log[0])
	assert.Equal(t, "run:a", log[1])
}

func TestApplicationTransitionOrdering(t *testing.T) {
	t.Parallel()

	var log []string
	a := &scriptedState{name: "a", log: &log, stayFor: 2}
	b := &scriptedState{name: "b", log: &log, stayFor: 100}

	app, err := NewApplication(a, func(current State) State {
		if current == State(a) {
			return b
		}
		return a
	})
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		app.Run()
	}

	// the old state's exit fully precedes the new state's enter, and no
	// run is ever delivered mid-transition
	assert.Equal(t, []string{
		"enter:a",
		"run:a",
		"run:a",
		"run:a", // returns false, triggers the transition
		"exit:a",
		"enter:b",
		"run:b",
	}, log)
	assert.Equal(t, "b", app.CurrentName())
}

func TestApplicationNilTransitionKeepsCurrentState(t *testing.T) {
	t.Parallel()

	var log []string
	a := &scriptedState{name: "a", log: &log, stayFor: 0}

	app, err := NewApplication(a, nil)
	require.NoError(t, err)

	app.Run() // requests transition, but there is nowhere to go
	app.Run()

	// the state stays live: no exit, no re-enter
	assert.Equal(t, []string{"enter:a", "run:a", "run:a"}, log)
	assert.Equal(t, "a", app.CurrentName())
}

func TestApplicationSelfTransitionDoesNotReenter(t *testing.T) {
	t.Parallel()

	var log []string
	a := &scriptedState{name: "a", log: &log, stayFor: 0}

	app, err := NewApplication(a, func(current State) State {
		return current
	})
	require.NoError(t, err)

	app.Run()

	assert.Equal(t, []string{"enter:a", "run:a"}, log)
}
