package fw

import (
	"github.com/ndn-fwd/corefwd/face"
	"github.com/ndn-fwd/corefwd/ndn"
	"github.com/ndn-fwd/corefwd/table"
)

// Reserved scope-control prefixes.
var (
	localhostPrefix = ndn.NameFromStr("/localhost")
	localhopPrefix  = ndn.NameFromStr("/localhop")
)

// violatesLocalhost reports whether name under /localhost may cross the
// local/non-local boundary represented by face f. Used identically by the
// incoming Interest, incoming Data, and outgoing Data pipelines.
func violatesLocalhost(f face.Face, name ndn.Name) bool {
	return f.Scope() == face.NonLocal && localhostPrefix.IsPrefix(name)
}

// violatesScope is the helper strategies must consult before sending an
// Interest: /localhost restricts to local faces in
// either direction, /localhop forbids a non-local-to-non-local hop.
func violatesScope(faces *face.Table, pitEntry *table.PitEntry, outFaceId uint64) bool {
	out := faces.Get(outFaceId)
	if out == nil {
		return true
	}
	name := pitEntry.Name()

	if localhostPrefix.IsPrefix(name) {
		return out.Scope() != face.Local
	}

	if localhopPrefix.IsPrefix(name) {
		if out.Scope() == face.Local {
			return false
		}
		for faceId := range pitEntry.InRecords {
			if in := faces.Get(faceId); in != nil && in.Scope() == face.Local {
				return false
			}
		}
		return true
	}

	return false
}
