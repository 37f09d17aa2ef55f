package product

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive:
		return true
	default:
		return false
	}
}

type Channel string

const (
	ChannelOnline Channel = "online"
	ChannelOTA    Channel = "ota"
	ChannelOnsite Channel = "onsite"
)

func (c Channel) String() string {
	return string(c)
}

func (c Channel) IsValid() bool {
	switch c {
	case ChannelOnline, ChannelOTA, ChannelOnsite:
		return true
	default:
		return false
	}
}

// Channels lists every sellable channel in a fixed order.
func Channels() []Channel {
	return []Channel{ChannelOnline, ChannelOTA, ChannelOnsite}
}
