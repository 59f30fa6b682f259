package mgmt

import "github.com/ndn-fwd/corefwd/ndn"

// FIBModule handles `fib add-nexthop` / `fib remove-nexthop`, taking an
// already-decoded ControlParameters rather than a raw Interest/TLV.
type FIBModule struct{ m *Manager }

func (f *FIBModule) String() string { return "mgmt-fib" }

// AddNextHop handles `fib add-nexthop`: name, faceId, cost.
func (f *FIBModule) AddNextHop(params ControlParameters) ControlResponse {
	if params.Name == nil {
		resp := malformed("ControlParameters is incorrect (missing Name)")
		f.m.record("fib", "add-nexthop", params, resp)
		return resp
	}
	if len(params.Name) > MaxFibNameDepth {
		resp := nameTooLong()
		f.m.record("fib", "add-nexthop", params, resp)
		return resp
	}
	if params.FaceId == nil {
		resp := malformed("ControlParameters is incorrect (missing FaceId)")
		f.m.record("fib", "add-nexthop", params, resp)
		return resp
	}
	if f.m.faceTable().Get(*params.FaceId) == nil {
		resp := ControlResponse{Code: CodeFaceDoesNotExist, Text: "Face does not exist"}
		f.m.record("fib", "add-nexthop", params, resp)
		return resp
	}

	cost := uint64(0)
	if params.Cost != nil {
		cost = *params.Cost
	}

	entry, _ := f.m.fwd.FIB.Insert(params.Name)
	f.m.fwd.FIB.AddNextHop(entry, *params.FaceId, cost)

	f.m.rt.Log.Info(f, "Created nexthop", "name", params.Name.String(), "faceid", *params.FaceId, "cost", cost)

	resp := ok(FibAddNextHopResult{Name: params.Name, FaceId: *params.FaceId, Cost: cost})
	f.m.record("fib", "add-nexthop", params, resp)
	return resp
}

// RemoveNextHop handles `fib remove-nexthop`: name, faceId.
func (f *FIBModule) RemoveNextHop(params ControlParameters) ControlResponse {
	if params.Name == nil || params.FaceId == nil {
		resp := malformed("ControlParameters is incorrect")
		f.m.record("fib", "remove-nexthop", params, resp)
		return resp
	}

	entry := f.m.fwd.FIB.FindLongestPrefixMatch(params.Name)
	if entry.Name().Equal(params.Name) {
		f.m.fwd.FIB.RemoveNextHop(entry, *params.FaceId)
	}

	f.m.rt.Log.Info(f, "Removed nexthop", "name", params.Name.String(), "faceid", *params.FaceId)

	resp := ok(FibRemoveNextHopResult{Name: params.Name, FaceId: *params.FaceId})
	f.m.record("fib", "remove-nexthop", params, resp)
	return resp
}

// FibAddNextHopResult is the ControlResponse body of a successful
// `fib add-nexthop`.
type FibAddNextHopResult struct {
	Name   ndn.Name
	FaceId uint64
	Cost   uint64
}

// FibRemoveNextHopResult is the ControlResponse body of a successful
// `fib remove-nexthop`.
type FibRemoveNextHopResult struct {
	Name   ndn.Name
	FaceId uint64
}
