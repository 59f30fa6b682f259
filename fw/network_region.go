package fw

import "github.com/ndn-fwd/corefwd/ndn"

// NetworkRegionTable is the set of name prefixes describing "regions" this
// forwarder instance is considered part of, consulted by forwarding-hint
// resolution: when any delegation's name falls in a local region,
// lookupFib matches the FIB on the Interest's own name and ignores the
// delegations, including any SelectedDelegation a retransmission remembers.
type NetworkRegionTable struct {
	regions []ndn.Name
}

// NewNetworkRegionTable builds a table from the given region prefixes.
func NewNetworkRegionTable(regions ...ndn.Name) *NetworkRegionTable {
	return &NetworkRegionTable{regions: regions}
}

// Add registers region as a local network region.
func (t *NetworkRegionTable) Add(region ndn.Name) {
	t.regions = append(t.regions, region)
}

// Contains reports whether name falls under any registered region, i.e. a
// region prefix is a prefix of name.
func (t *NetworkRegionTable) Contains(name ndn.Name) bool {
	for _, r := range t.regions {
		if r.IsPrefix(name) {
			return true
		}
	}
	return false
}
