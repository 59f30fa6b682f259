package mgmt

import "github.com/ndn-fwd/corefwd/ndn"

// StrategyChoiceModule handles `strategy-choice set` / `unset`. This
// repo's StrategyChoice keys strategies by a plain registered name
// (fw/strategy.go StrategyRegistry), not a versioned name component, so
// there is no strategy-name/version TLV to parse here.
type StrategyChoiceModule struct{ m *Manager }

func (s *StrategyChoiceModule) String() string { return "mgmt-strategy" }

// Set handles `strategy-choice set`: name, strategy.
func (s *StrategyChoiceModule) Set(params ControlParameters) ControlResponse {
	if params.Name == nil {
		resp := malformed("ControlParameters is incorrect (missing Name)")
		s.m.record("strategy-choice", "set", params, resp)
		return resp
	}
	if params.Strategy == "" {
		resp := malformed("ControlParameters is incorrect (missing Strategy)")
		s.m.record("strategy-choice", "set", params, resp)
		return resp
	}

	entry, err := s.m.fwd.StrategyChoice.Insert(params.Name, params.Strategy)
	if err != nil {
		resp := ControlResponse{Code: CodeNotFound, Text: "Unknown strategy"}
		s.m.record("strategy-choice", "set", params, resp)
		return resp
	}

	s.m.rt.Log.Info(s, "Set strategy choice", "name", params.Name.String(), "strategy", params.Strategy)

	resp := ok(StrategyChoiceResult{Name: entry.Name(), Strategy: params.Strategy})
	s.m.record("strategy-choice", "set", params, resp)
	return resp
}

// Unset handles `strategy-choice unset`: name. Refused at the root prefix,
// which always carries the configured default strategy.
func (s *StrategyChoiceModule) Unset(params ControlParameters) ControlResponse {
	if params.Name == nil {
		resp := malformed("ControlParameters is incorrect (missing Name)")
		s.m.record("strategy-choice", "unset", params, resp)
		return resp
	}
	if len(params.Name) == 0 {
		resp := ControlResponse{Code: 409, Text: "Cannot unset the default strategy"}
		s.m.record("strategy-choice", "unset", params, resp)
		return resp
	}

	if err := s.m.fwd.StrategyChoice.Erase(params.Name); err != nil {
		resp := ControlResponse{Code: 409, Text: err.Error()}
		s.m.record("strategy-choice", "unset", params, resp)
		return resp
	}

	resp := ok(StrategyChoiceResult{Name: params.Name})
	s.m.record("strategy-choice", "unset", params, resp)
	return resp
}

// StrategyChoiceResult is the ControlResponse body of a successful
// `strategy-choice set`/`unset`.
type StrategyChoiceResult struct {
	Name     ndn.Name
	Strategy string
}
