package service

// Job statuses reported to the scheduler besides the calendar skip statuses.
const (
	StatusSuccess       = "success"
	StatusNoHoldings    = "no holdings"
	StatusAlreadyExists = "already exists"
)
