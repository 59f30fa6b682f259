package mgmt

import "github.com/ndn-fwd/corefwd/ndn"

// csFlagAdmit / csFlagServe are the wire-level flag bits `cs config`'s
// Flags/Mask fields use to toggle the CS's admit/serve behavior.
const (
	csFlagAdmit uint32 = 1 << 0
	csFlagServe uint32 = 1 << 1
)

// csEraseLimit bounds a single `cs erase` pass.
const csEraseLimit = 256

// ContentStoreModule handles `cs config` / `cs erase`.
type ContentStoreModule struct{ m *Manager }

func (c *ContentStoreModule) String() string { return "mgmt-cs" }

// Config handles `cs config`: capacity?, flags(admit,serve)/mask.
func (c *ContentStoreModule) Config(params ControlParameters) ControlResponse {
	if (params.Flags == nil) != (params.Mask == nil) {
		resp := ControlResponse{Code: 409, Text: "Flags and Mask must either both be present or both be absent"}
		c.m.record("cs", "config", params, resp)
		return resp
	}

	cs := c.m.fwd.CS
	if params.Capacity != nil {
		c.m.rt.Log.Info(c, "Setting CS capacity", "capacity", *params.Capacity)
		cs.SetLimit(*params.Capacity)
	}
	if params.Mask != nil && params.Flags != nil {
		mask, flags := *params.Mask, *params.Flags
		if mask&csFlagAdmit != 0 {
			cs.EnableAdmit(flags&csFlagAdmit != 0)
		}
		if mask&csFlagServe != 0 {
			cs.EnableServe(flags&csFlagServe != 0)
		}
	}

	resp := ok(CsConfigResult{Capacity: cs.Size(), Flags: c.flags()})
	c.m.record("cs", "config", params, resp)
	return resp
}

func (c *ContentStoreModule) flags() uint32 {
	var f uint32
	if c.m.fwd.CS.Admit() {
		f |= csFlagAdmit
	}
	if c.m.fwd.CS.Serve() {
		f |= csFlagServe
	}
	return f
}

// Erase handles `cs erase`: name, count?.
// Erases at most csEraseLimit entries under params.Name per call; if the
// limit was hit and more matching entries remain, the response body sets
// MoreMayExist so the caller knows to re-issue erase; the body carries no
// capacity value.
func (c *ContentStoreModule) Erase(params ControlParameters) ControlResponse {
	if params.Name == nil {
		resp := malformed("ControlParameters is incorrect (missing Name)")
		c.m.record("cs", "erase", params, resp)
		return resp
	}

	limit := csEraseLimit
	if params.Count != nil && *params.Count > 0 && *params.Count < limit {
		limit = *params.Count
	}

	var erased int
	c.m.fwd.CS.Erase(params.Name, limit, func(n int) { erased = n })

	body := CsEraseResult{Name: params.Name, Count: erased}
	if erased >= limit && c.m.fwd.CS.ErasePreview(params.Name) {
		body.MoreMayExist = true
	}

	resp := ok(body)
	c.m.record("cs", "erase", params, resp)
	return resp
}

// CsConfigResult is the ControlResponse body of a successful `cs config`.
type CsConfigResult struct {
	Capacity int
	Flags    uint32
}

// CsEraseResult is the ControlResponse body of a successful `cs erase`.
type CsEraseResult struct {
	Name ndn.Name
	Count int
	// MoreMayExist hints that the erase limit was reached while entries
	// under Name may still remain, prompting the caller to erase again.
	MoreMayExist bool
}
