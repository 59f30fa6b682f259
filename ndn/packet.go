package ndn

import "time"

// DefaultInterestLifetime is used when an Interest does not specify one.
const DefaultInterestLifetime = 4 * time.Second

// Delegation is one (preference, name) pair inside a forwarding hint.
type Delegation struct {
	Preference uint64
	Name       Name
}

// ForwardingHint is an ordered list of delegations carried by an Interest
// so it can be routed toward a non-local producer network.
type ForwardingHint []Delegation

// Interest requests named content.
type Interest struct {
	Name        Name
	Nonce       uint32
	Lifetime    time.Duration
	MustBeFresh bool
	CanBePrefix bool
	Hint        ForwardingHint

	// SelectedDelegation records which hint delegation is currently being
	// forwarded, set by the forwarding-hint resolution algorithm and reused
	// on retransmission.
	SelectedDelegation Name

	// IncomingFaceId is stamped by the forwarder on every Interest it
	// accepts, the NDNLPv2 IncomingFaceIdTag.
	IncomingFaceId uint64
}

// EffectiveLifetime returns Lifetime, defaulting to DefaultInterestLifetime
// if unset.
func (i *Interest) EffectiveLifetime() time.Duration {
	if i.Lifetime <= 0 {
		return DefaultInterestLifetime
	}
	return i.Lifetime
}

// Data satisfies an Interest.
type Data struct {
	Name            Name
	Content         []byte
	FreshnessPeriod time.Duration // zero means "never fresh"

	IncomingFaceId uint64
}

// NackReason explains why an upstream could not satisfy an Interest.
type NackReason int

const (
	NackReasonNone NackReason = iota
	NackReasonCongestion
	NackReasonDuplicate
	NackReasonNoRoute
	NackReasonOther
)

func (r NackReason) String() string {
	switch r {
	case NackReasonCongestion:
		return "congestion"
	case NackReasonDuplicate:
		return "duplicate"
	case NackReasonNoRoute:
		return "no-route"
	case NackReasonOther:
		return "other"
	default:
		return "none"
	}
}

// Nack signals that an upstream cannot satisfy the carried Interest.
type Nack struct {
	Interest Interest
	Reason   NackReason

	// IncomingFaceId is stamped by the forwarder on every Nack it accepts,
	// mirroring Interest/Data tagging.
	IncomingFaceId uint64
}
