package invoicing

// Status represents the lifecycle status of an invoice
type Status string

const (
	StatusProforma  Status = "proforma"
	StatusValidated Status = "validated"
	StatusFinal     Status = "final"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// AllStatuses returns every invoice status in lifecycle order
func AllStatuses() []Status {
	return []Status{StatusProforma, StatusValidated, StatusFinal, StatusPaid, StatusCancelled}
}

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusProforma, StatusValidated, StatusFinal, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further business transition is expected
func (s Status) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// CanTransitionTo reports whether the lifecycle table allows moving to target.
// It is only consulted in strict mode; by default any status may be set.
func (s Status) CanTransitionTo(target Status) bool {
	if !target.IsValid() || s == target {
		return false
	}
	switch s {
	case StatusProforma:
		return target == StatusValidated || target == StatusCancelled
	case StatusValidated:
		return target == StatusFinal || target == StatusCancelled
	case StatusFinal:
		return target == StatusPaid || target == StatusCancelled
	case StatusPaid, StatusCancelled:
		return false
	}
	return false
}
