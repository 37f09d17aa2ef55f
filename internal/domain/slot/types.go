package slot

type Status string

const (
	StatusActive Status = "active"
	StatusFull   Status = "full"
	StatusClosed Status = "closed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusFull, StatusClosed:
		return true
	default:
		return false
	}
}

type BookingStatus string

const (
	BookingReserved  BookingStatus = "reserved"
	BookingCancelled BookingStatus = "cancelled"
	BookingVerified  BookingStatus = "verified"
)

func (s BookingStatus) String() string {
	return string(s)
}
