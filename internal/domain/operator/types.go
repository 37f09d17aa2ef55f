package operator

type Type string

const (
	TypeInternal Type = "internal"
	TypeOTA      Type = "ota"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeInternal, TypeOTA:
		return true
	default:
		return false
	}
}

// State is an explicit lifecycle value so authorization can branch on an
// enumerated state instead of a soft-delete timestamp.
type State string

const (
	StateActive   State = "active"
	StateDisabled State = "disabled"
	StateDeleted  State = "deleted"
)

func (s State) String() string {
	return string(s)
}

func (s State) IsValid() bool {
	switch s {
	case StateActive, StateDisabled, StateDeleted:
		return true
	default:
		return false
	}
}
