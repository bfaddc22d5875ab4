package booking

import "github.com/sharekit/sharekit-api/internal/pkg/apperror"

// State is a list-query selector narrowing bookings by time relation to now
// or by exact status. Tokens are case-sensitive.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState parses a state filter token. An empty token means ALL.
func ParseState(s string) (State, error) {
	switch State(s) {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return State(s), nil
	case "":
		return StateAll, nil
	}
	return "", apperror.Validation("Unknown state: %s", s)
}

type action string

const (
	actionApprove action = "approve"
	actionReject  action = "reject"
	actionCancel  action = "cancel"
)

// transitions is the status state machine: current status × action → next
// status. Absent entries are invalid transitions. Approve and reject are only
// reachable from WAITING; cancel from WAITING or APPROVED.
var transitions = map[Status]map[action]Status{
	StatusWaiting: {
		actionApprove: StatusApproved,
		actionReject:  StatusRejected,
		actionCancel:  StatusCanceled,
	},
	StatusApproved: {
		actionCancel: StatusCanceled,
	},
}

func nextStatus(current Status, a action) (Status, error) {
	if next, ok := transitions[current][a]; ok {
		return next, nil
	}
	return "", apperror.Conflict("Cannot %s booking in status %s", a, current)
}
