// Package mgmt implements the management command surface: one
// module per table (fib, cs, strategy-choice, rib) dispatching a small set
// of verbs, plus the status datasets and forwarder-status report. The
// wire-level TLV codec and the command-authentication layer are out of
// scope: every module here is invoked as a plain Go method call with
// already-decoded ControlParameters.
package mgmt

import "github.com/ndn-fwd/corefwd/ndn"

// MaxFibNameDepth bounds how deep a FIB/RIB name may be before a command is
// rejected with 414.
const MaxFibNameDepth = 64

// ControlParameters carries the fields any one verb may need. Optional
// fields are pointers so "absent" and "zero value" are distinguishable.
type ControlParameters struct {
	Name   ndn.Name
	FaceId *uint64
	Origin string
	Cost   *uint64
	Flags  *uint32
	Mask   *uint32

	Capacity *int
	Count    *int

	Strategy string

	ExpirationPeriodMs *int64

	// Announcement carries the raw PrefixAnnouncement payload for
	// `rib announce`.
	Announcement *PrefixAnnouncement
}

// ControlResponse is the result of a management command:
// `{code, text, body?}`. Body is whichever *Args-shaped struct the module
// returns on success.
type ControlResponse struct {
	Code int
	Text string
	Body any
}

// Well-known ControlResponse codes.
const (
	CodeOK                  = 200
	CodeUnauthorized        = 403
	CodeMalformed           = 400
	CodeNameTooLong         = 414
	CodeUnknownVerb         = 501
	CodeFaceDoesNotExist    = 410
	CodeNotFound            = 404
	CodeFibUpdateFailed     = 500
)

func ok(body any) ControlResponse             { return ControlResponse{Code: CodeOK, Text: "OK", Body: body} }
func malformed(text string) ControlResponse   { return ControlResponse{Code: CodeMalformed, Text: text} }
func unknownVerb() ControlResponse            { return ControlResponse{Code: CodeUnknownVerb, Text: "Unknown verb"} }
func nameTooLong() ControlResponse {
	return ControlResponse{Code: CodeNameTooLong, Text: "Name too long"}
}

// PrefixAnnouncement is the app-parameters payload of `rib announce`. The
// wire signature itself is out of scope; only the fields a validator
// needs are modeled.
type PrefixAnnouncement struct {
	Name            ndn.Name
	ExpirationMs    int64
	ValidityFromMs  int64
	ValidityUntilMs int64
}
