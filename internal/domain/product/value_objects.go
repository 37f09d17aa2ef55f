package product

import "errors"

var (
	ErrInvalidCap        = errors.New("sellable cap must not be negative")
	ErrInvalidAllocation = errors.New("channel allocation must not be negative")
	ErrUnknownChannel    = errors.New("unknown sales channel")
)

// ChannelAllocations fixes a sub-quota per known channel. The set of channels
// is closed on purpose: an open map would let a typoed channel bypass its quota.
// Quotas are independent ceilings, not a partition of the sellable cap; their
// sum may exceed it, and the cap is enforced separately at reserve time.
type ChannelAllocations struct {
	Online int
	OTA    int
	Onsite int
}

func NewChannelAllocations(online, ota, onsite int) (ChannelAllocations, error) {
	if online < 0 || ota < 0 || onsite < 0 {
		return ChannelAllocations{}, ErrInvalidAllocation
	}
	return ChannelAllocations{Online: online, OTA: ota, Onsite: onsite}, nil
}

func (a ChannelAllocations) Quota(ch Channel) (int, error) {
	switch ch {
	case ChannelOnline:
		return a.Online, nil
	case ChannelOTA:
		return a.OTA, nil
	case ChannelOnsite:
		return a.Onsite, nil
	default:
		return 0, ErrUnknownChannel
	}
}

func (a ChannelAllocations) Total() int {
	return a.Online + a.OTA + a.Onsite
}

// ChannelCounters tracks committed and in-flight held units for one channel.
type ChannelCounters struct {
	Sold int
	Held int
}

// Usage carries the per-channel counters of a product inventory.
type Usage struct {
	Online ChannelCounters
	OTA    ChannelCounters
	Onsite ChannelCounters
}

func (u *Usage) counters(ch Channel) (*ChannelCounters, error) {
	switch ch {
	case ChannelOnline:
		return &u.Online, nil
	case ChannelOTA:
		return &u.OTA, nil
	case ChannelOnsite:
		return &u.Onsite, nil
	default:
		return nil, ErrUnknownChannel
	}
}

func (u Usage) TotalSold() int {
	return u.Online.Sold + u.OTA.Sold + u.Onsite.Sold
}

func (u Usage) TotalHeld() int {
	return u.Online.Held + u.OTA.Held + u.Onsite.Held
}
