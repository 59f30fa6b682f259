package table

import "time"

// RouteFlag is a bitset of per-route behaviors.
type RouteFlag uint32

const (
	// RouteFlagChildInherit marks a route as propagating to descendant
	// RIB entries unless blocked by an intervening capture.
	RouteFlagChildInherit RouteFlag = 1 << iota
	// RouteFlagCapture marks an entry as blocking inherited routes from
	// ancestors above it from reaching its descendants.
	RouteFlagCapture
)

// Well-known route origins. Origin plus faceId uniquely
// identifies a route within an entry.
const (
	OriginApp        = "app"
	OriginStatic     = "static"
	OriginNLSR       = "nlsr"
	OriginClient     = "client"
	OriginAutoconf   = "autoconf"
	OriginPrefixAnn  = "prefixann"
)

// PrefixAnnouncementCost is the fixed cost assigned to routes installed
// from a validated PrefixAnnouncement.
const PrefixAnnouncementCost = 2048

// Route is one forwarding contribution to a RIB entry: a face, an
// origin, a cost, and behavior flags.
type Route struct {
	FaceId uint64
	Origin string
	Cost   uint64
	Flags  RouteFlag

	// Expires is the deadline set from a register command's expiration
	// period, or nil when none was given. It is only recorded: no event
	// removes the route when the deadline passes.
	Expires *time.Time

	// Announcement and AnnExpires are set only for OriginPrefixAnn routes
	//.
	Announcement *string
	AnnExpires   *time.Time
}

// ChildInherit reports whether the route propagates to descendants.
func (r *Route) ChildInherit() bool { return r.Flags&RouteFlagChildInherit != 0 }

// Capture reports whether the route captures its entry.
func (r *Route) Capture() bool { return r.Flags&RouteFlagCapture != 0 }

// sameKey reports whether other identifies the same (faceId, origin) key.
func (r *Route) sameKey(other *Route) bool {
	return r.FaceId == other.FaceId && r.Origin == other.Origin
}
