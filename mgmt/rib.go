package mgmt

import (
	"time"

	"github.com/ndn-fwd/corefwd/ndn"
	"github.com/ndn-fwd/corefwd/table"
)

// RIBModule handles `rib register` / `unregister` / `announce`, including
// the self-registration substitution rule and prefix announcement
// validation.
type RIBModule struct{ m *Manager }

func (r *RIBModule) String() string { return "mgmt-rib" }

// resolveFaceId applies the self-registration rule: faceId==0
// (or absent) substitutes incomingFaceId, the face the command itself
// arrived on.
func resolveFaceId(params ControlParameters, incomingFaceId uint64) uint64 {
	if params.FaceId == nil || *params.FaceId == 0 {
		return incomingFaceId
	}
	return *params.FaceId
}

// Register handles `rib register`: name, faceId?, origin, cost, flags,
// expirationPeriod?. incomingFaceId is the face the command Interest
// itself arrived on, used for self-registration.
func (r *RIBModule) Register(params ControlParameters, incomingFaceId uint64) ControlResponse {
	if params.Name == nil {
		resp := malformed("ControlParameters is incorrect (missing Name)")
		r.m.record("rib", "register", params, resp)
		return resp
	}
	if len(params.Name) > MaxFibNameDepth {
		resp := nameTooLong()
		r.m.record("rib", "register", params, resp)
		return resp
	}

	faceId := resolveFaceId(params, incomingFaceId)
	if r.m.faceTable().Get(faceId) == nil {
		resp := ControlResponse{Code: CodeFaceDoesNotExist, Text: "Face does not exist"}
		r.m.record("rib", "register", params, resp)
		return resp
	}

	origin := params.Origin
	if origin == "" {
		origin = table.OriginApp
	}
	cost := uint64(0)
	if params.Cost != nil {
		cost = *params.Cost
	}
	flags := table.RouteFlag(0)
	if params.Flags != nil {
		flags = table.RouteFlag(*params.Flags)
	}

	route := &table.Route{FaceId: faceId, Origin: origin, Cost: cost, Flags: flags}
	if params.ExpirationPeriodMs != nil {
		exp := r.m.rt.Clock.Now().Add(time.Duration(*params.ExpirationPeriodMs) * time.Millisecond)
		route.Expires = &exp
	}

	code, msg := r.apply(&table.RibUpdate{
		Action: table.RibUpdateRegister,
		Name:   params.Name,
		Route:  route,
	})
	if code != CodeOK {
		resp := ControlResponse{Code: code, Text: msg}
		r.m.record("rib", "register", params, resp)
		return resp
	}

	resp := ok(RibRegisterResult{Name: params.Name, FaceId: faceId, Origin: origin, Cost: cost})
	r.m.record("rib", "register", params, resp)
	return resp
}

// Unregister handles `rib unregister`: name, faceId?, origin.
func (r *RIBModule) Unregister(params ControlParameters, incomingFaceId uint64) ControlResponse {
	if params.Name == nil {
		resp := malformed("ControlParameters is incorrect (missing Name)")
		r.m.record("rib", "unregister", params, resp)
		return resp
	}

	faceId := resolveFaceId(params, incomingFaceId)
	origin := params.Origin
	if origin == "" {
		origin = table.OriginApp
	}

	code, msg := r.apply(&table.RibUpdate{
		Action: table.RibUpdateUnregister,
		Name:   params.Name,
		Route:  &table.Route{FaceId: faceId, Origin: origin},
	})
	if code != CodeOK {
		resp := ControlResponse{Code: code, Text: msg}
		r.m.record("rib", "unregister", params, resp)
		return resp
	}

	resp := ok(RibUnregisterResult{Name: params.Name, FaceId: faceId, Origin: origin})
	r.m.record("rib", "unregister", params, resp)
	return resp
}

// Announce handles `rib announce`: a
// validated PrefixAnnouncement installs an `origin=prefixann` route with
// the fixed announcement cost and child-inherit set; a rejected one
// inserts no route and answers with the §7 "Prefix announcement rejected"
// code.
func (r *RIBModule) Announce(params ControlParameters, incomingFaceId uint64) ControlResponse {
	ann := params.Announcement
	if ann == nil {
		resp := malformed("ControlParameters is incorrect (missing Announcement)")
		r.m.record("rib", "announce", params, resp)
		return resp
	}

	if reason, ok := validatePrefixAnnouncement(ann, r.m.rt.Clock.Now()); !ok {
		resp := ControlResponse{Code: CodeUnauthorized, Text: "Prefix announcement rejected: " + reason}
		r.m.record("rib", "announce", params, resp)
		return resp
	}

	annExp := r.m.rt.Clock.Now().Add(time.Duration(ann.ExpirationMs) * time.Millisecond)
	route := &table.Route{
		FaceId:       incomingFaceId,
		Origin:       table.OriginPrefixAnn,
		Cost:         table.PrefixAnnouncementCost,
		Flags:        table.RouteFlagChildInherit,
		Announcement: strPtr(ann.Name.String()),
		AnnExpires:   &annExp,
	}

	code, msg := r.apply(&table.RibUpdate{
		Action: table.RibUpdateRegister,
		Name:   ann.Name,
		Route:  route,
	})
	if code != CodeOK {
		resp := ControlResponse{Code: code, Text: msg}
		r.m.record("rib", "announce", params, resp)
		return resp
	}

	resp := ok(RibRegisterResult{Name: ann.Name, FaceId: incomingFaceId, Origin: table.OriginPrefixAnn, Cost: table.PrefixAnnouncementCost})
	r.m.record("rib", "announce", params, resp)
	return resp
}

// validatePrefixAnnouncement checks the announcement's name and expiration
// window: the name must be non-empty, the expiration must be positive,
// and now must fall within [validityFrom, validityUntil] when both are
// set.
func validatePrefixAnnouncement(ann *PrefixAnnouncement, now time.Time) (reason string, ok bool) {
	if len(ann.Name) == 0 {
		return "empty name", false
	}
	if ann.ExpirationMs <= 0 {
		return "non-positive expiration", false
	}
	if ann.ValidityFromMs != 0 && ann.ValidityUntilMs != 0 {
		nowMs := now.UnixMilli()
		if nowMs < ann.ValidityFromMs || nowMs > ann.ValidityUntilMs {
			return "outside validity window", false
		}
	}
	return "", true
}

// apply enqueues update and synchronously drains it through the
// FibUpdater, translating a FIB-update
// failure into the §7 error-handling policy: a 500 ControlResponse plus a
// scheduled face-dataset refresh.
func (r *RIBModule) apply(update *table.RibUpdate) (code int, msg string) {
	r.m.rib.BeginApplyUpdate(update)
	r.m.updater.DrainQueue(func(failed *table.RibUpdate, failCode int, failMsg string) {
		if failed == update {
			code, msg = CodeFibUpdateFailed, failMsg
			r.m.scheduleFaceRefresh()
		}
	})
	if code == 0 {
		code = CodeOK
	}
	return code, msg
}

func strPtr(s string) *string { return &s }

// RibRegisterResult is the ControlResponse body of a successful
// `rib register` / `rib announce`.
type RibRegisterResult struct {
	Name   ndn.Name
	FaceId uint64
	Origin string
	Cost   uint64
}

// RibUnregisterResult is the ControlResponse body of a successful
// `rib unregister`.
type RibUnregisterResult struct {
	Name   ndn.Name
	FaceId uint64
	Origin string
}
