package ticket

type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusActivated      Status = "activated"
	StatusReserved       Status = "reserved"
	StatusVerified       Status = "verified"
	StatusExpired        Status = "expired"
	StatusCancelled      Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPendingPayment, StatusActivated, StatusReserved,
		StatusVerified, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusVerified, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}
