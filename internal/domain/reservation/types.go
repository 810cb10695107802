package reservation

type Status string

const (
	StatusActive   Status = "active"
	StatusReturned Status = "returned"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusReturned:
		return true
	default:
		return false
	}
}

// DueClass buckets a reservation for the reminder sweep and the return-table
// badge. Both derive from the same DaysUntilDue value.
type DueClass string

const (
	DueToday    DueClass = "today"
	DueTomorrow DueClass = "tomorrow"
	DueOverdue  DueClass = "overdue"
	DueLater    DueClass = "later"
)

func ClassifyDue(daysUntilDue int) DueClass {
	switch {
	case daysUntilDue < 0:
		return DueOverdue
	case daysUntilDue == 0:
		return DueToday
	case daysUntilDue == 1:
		return DueTomorrow
	default:
		return DueLater
	}
}
