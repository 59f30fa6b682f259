// Package ndn provides the in-memory packet and name types the forwarding
// core operates on. Wire encoding/decoding of these types to and from NDN
// TLV is treated as an external concern and is not implemented here.
package ndn

import (
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Component is a single opaque byte-string element of a Name.
//
// Typ distinguishes component kinds (generic, implicit digest, keyword,
// version, ...) the same way NDN TLV component types do, but no TLV
// encoding is implemented here - the type tag is only used for comparison
// and display.
type Component struct {
	Typ uint64
	Val []byte
}

const (
	TypeGenericComponent     uint64 = 0x08
	TypeImplicitSha256Digest uint64 = 0x01
	TypeVersionComponent     uint64 = 0x36
	TypeKeywordComponent     uint64 = 0x20
)

// NewGenericComponent builds a generic NDN name component from a string.
func NewGenericComponent(s string) Component {
	return Component{Typ: TypeGenericComponent, Val: []byte(s)}
}

// NewVersionComponent builds a version marker component.
func NewVersionComponent(v uint64) Component {
	return Component{Typ: TypeVersionComponent, Val: []byte(strconv.FormatUint(v, 10))}
}

// String renders the component in `type=value` form, omitting the type tag
// for generic components (the common case).
func (c Component) String() string {
	if c.Typ == TypeGenericComponent {
		return string(c.Val)
	}
	return strconv.FormatUint(c.Typ, 10) + "=" + string(c.Val)
}

// Equal reports whether two components have the same type and value.
func (c Component) Equal(rhs Component) bool {
	if c.Typ != rhs.Typ || len(c.Val) != len(rhs.Val) {
		return false
	}
	for i := range c.Val {
		if c.Val[i] != rhs.Val[i] {
			return false
		}
	}
	return true
}

// Compare orders components first by type, then by value length, then
// lexically by value bytes - the same rule NDN canonical ordering uses.
func (c Component) Compare(rhs Component) int {
	if c.Typ != rhs.Typ {
		if c.Typ < rhs.Typ {
			return -1
		}
		return 1
	}
	if len(c.Val) != len(rhs.Val) {
		if len(c.Val) < len(rhs.Val) {
			return -1
		}
		return 1
	}
	for i := range c.Val {
		if c.Val[i] != rhs.Val[i] {
			if c.Val[i] < rhs.Val[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

var xxPool = sync.Pool{New: func() any { return xxhash.New() }}

// Hash returns a 64-bit digest of the component, used by the NameTree's
// per-level hash index.
func (c Component) Hash() uint64 {
	h := xxPool.Get().(*xxhash.Digest)
	h.Reset()
	defer xxPool.Put(h)
	_, _ = h.Write([]byte{byte(c.Typ)})
	_, _ = h.Write(c.Val)
	return h.Sum64()
}

// Name is an ordered sequence of opaque components, the hierarchical
// address of Interests, Data, FIB/RIB prefixes, and strategy choices.
type Name []Component

// NameFromStr parses a slash-separated URI into a Name. Component type
// prefixes (`type=value`) are not interpreted; every component parsed this
// way is generic. This is a convenience for tests and config files, not a
// TLV decoder.
func NameFromStr(s string) Name {
	s = strings.Trim(s, "/")
	if s == "" {
		return Name{}
	}
	parts := strings.Split(s, "/")
	n := make(Name, len(parts))
	for i, p := range parts {
		n[i] = NewGenericComponent(p)
	}
	return n
}

// String renders the Name as a slash-separated URI.
func (n Name) String() string {
	if len(n) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, c := range n {
		sb.WriteByte('/')
		sb.WriteString(c.String())
	}
	return sb.String()
}

// At returns the ith component, or the zero Component if i is out of
// range. Negative indices count from the end.
func (n Name) At(i int) Component {
	if i < -len(n) || i >= len(n) {
		return Component{}
	}
	if i < 0 {
		return n[len(n)+i]
	}
	return n[i]
}

// Prefix returns the first i components of the name. A non-deep copy -
// callers that mutate the result must Clone first.
func (n Name) Prefix(i int) Name {
	if i < 0 {
		i = len(n) + i
	}
	if i <= 0 {
		return Name{}
	}
	if i >= len(n) {
		return n
	}
	return n[:i]
}

// Clone returns a deep copy of the Name.
func (n Name) Clone() Name {
	out := make(Name, len(n))
	copy(out, n)
	for i := range out {
		out[i].Val = append([]byte(nil), n[i].Val...)
	}
	return out
}

// Append returns a new Name with rest appended.
func (n Name) Append(rest ...Component) Name {
	out := make(Name, 0, len(n)+len(rest))
	out = append(out, n...)
	out = append(out, rest...)
	return out
}

// Equal reports whether two names have identical components.
func (n Name) Equal(rhs Name) bool {
	if len(n) != len(rhs) {
		return false
	}
	for i := range n {
		if !n[i].Equal(rhs[i]) {
			return false
		}
	}
	return true
}

// Compare provides a total order over names, consistent with
// component-wise comparison and shorter-is-less on common prefixes.
func (n Name) Compare(rhs Name) int {
	for i := 0; i < min(len(n), len(rhs)); i++ {
		if c := n[i].Compare(rhs[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(n) < len(rhs):
		return -1
	case len(n) > len(rhs):
		return 1
	default:
		return 0
	}
}

// IsPrefix reports whether n is a prefix of rhs (n itself included).
func (n Name) IsPrefix(rhs Name) bool {
	if len(n) > len(rhs) {
		return false
	}
	for i := range n {
		if !n[i].Equal(rhs[i]) {
			return false
		}
	}
	return true
}

// Hash returns a 64-bit digest of the full name.
func (n Name) Hash() uint64 {
	h := xxPool.Get().(*xxhash.Digest)
	h.Reset()
	defer xxPool.Put(h)
	for _, c := range n {
		_, _ = h.Write([]byte{byte(c.Typ)})
		_, _ = h.Write(c.Val)
	}
	return h.Sum64()
}

// PrefixHashes returns the hash of every prefix of n, ret[i] being the
// hash of n.Prefix(i), computed in one pass over the components.
func (n Name) PrefixHashes() []uint64 {
	ret := make([]uint64, len(n)+1)
	h := xxPool.Get().(*xxhash.Digest)
	h.Reset()
	defer xxPool.Put(h)
	ret[0] = h.Sum64()
	for i, c := range n {
		_, _ = h.Write([]byte{byte(c.Typ)})
		_, _ = h.Write(c.Val)
		ret[i+1] = h.Sum64()
	}
	return ret
}
