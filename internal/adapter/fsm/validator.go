package fsm

import (
	"context"
	"fmt"

	loopfsm "github.com/looplab/fsm"

	"github.com/neomorfeo/roomkeeper/internal/domain"
)

var _ domain.TransitionValidator = (*Validator)(nil)

// Validator implements domain.TransitionValidator using looplab/fsm.
// looplab/fsm machines are stateful, so every Apply runs on a fresh machine
// seeded with the booking's status.
type Validator struct {
	events loopfsm.Events
}

// New creates a validator for the booking lifecycle in domain.Transitions.
func New() *Validator {
	events := make(loopfsm.Events, 0, len(domain.Transitions))
	for _, t := range domain.Transitions {
		events = append(events, loopfsm.EventDesc{
			Name: string(t.Event),
			Src:  []string{string(t.Src)},
			Dst:  string(t.Dst),
		})
	}
	return &Validator{events: events}
}

// Apply returns the status a booking in current moves to when event fires, or
// a *domain.TransitionError naming the status the event requires.
func (v *Validator) Apply(ctx context.Context, current domain.BookingStatus, event domain.Event) (domain.BookingStatus, error) {
	if !current.Valid() {
		return "", fmt.Errorf("unknown booking status %q", current)
	}

	machine := loopfsm.NewFSM(string(current), v.events, nil)
	if !machine.Can(string(event)) {
		expected, _ := domain.ExpectedStatus(event)
		return "", &domain.TransitionError{
			Event:    event,
			Current:  current,
			Expected: expected,
		}
	}

	if err := machine.Event(ctx, string(event)); err != nil {
		return "", fmt.Errorf("firing %s on %s booking: %w", event, current, err)
	}
	return domain.BookingStatus(machine.Current()), nil
}
