package reservation

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusSeated    Status = "seated"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusSeated, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status ends the reservation's lifecycle.
// Terminal reservations no longer block the table slot.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo validates a status transition. The happy path is
// pending → confirmed → seated → completed, with cancelled reachable from
// any non-terminal state. confirmed → pending is allowed because an explicit
// edit may return an auto-confirmed booking to review.
func (s Status) CanTransitionTo(next Status) bool {
	if !next.IsValid() || s == next {
		return false
	}
	if s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusSeated
	case StatusConfirmed:
		return next == StatusPending || next == StatusSeated
	case StatusSeated:
		return next == StatusCompleted
	default:
		return false
	}
}

// InUseStatuses is the set of statuses that occupy a table slot. Both the
// conflict checker and the availability search filter on exactly this set so
// a table reported free is acceptable to a following create call.
func InUseStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusSeated}
}

// InUseStatusStrings returns InUseStatuses as plain strings for query layers.
func InUseStatusStrings() []string {
	statuses := InUseStatuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}
