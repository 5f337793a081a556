package detection

import (
	"log/slog"
	"time"

	"github.com/tphakala/marvin-go/internal/logging"
	"github.com/tphakala/marvin-go/internal/wakecore"
)

// CooldownState is the refractory period after a detection: the system keeps
// consuming notifications but scores nothing, so one utterance cannot fire
// twice. Transitions back to detection when the period elapses.
type CooldownState struct {
	duration time.Duration
	deadline time.Time
	logger   *slog.Logger
	now      func() time.Time
}

// NewCooldownState creates a cooldown state with the given duration.
func NewCooldownState(duration time.Duration) *CooldownState {
	logger := logging.ForService("detection")
	if logger == nil {
		logger = slog.Default()
	}
	return &CooldownState{
		duration: duration,
		logger:   logger.With("component", "cooldown_state"),
		now:      time.Now,
	}
}

// Name implements wakecore.State.
func (s *CooldownState) Name() string {
	return "cooldown"
}

// Enter starts the refractory period.
func (s *CooldownState) Enter() {
	s.deadline = s.now().Add(s.duration)
	s.logger.Debug("cooldown started", "duration", s.duration)
}

// Run returns false once the period has elapsed.
func (s *CooldownState) Run() bool {
	return s.now().Before(s.deadline)
}

// Exit implements wakecore.State.
func (s *CooldownState) Exit() {
	s.logger.Debug("cooldown finished")
}

// NewTransitions returns the wake-word transition policy:
// detect -> cooldown -> detect.
func NewTransitions(detect *DetectState, cooldown *CooldownState) wakecore.TransitionFunc {
	return func(current wakecore.State) wakecore.State {
		switch current {
		case detect:
			return cooldown
		case cooldown:
			return detect
		default:
			return nil
		}
	}
}
