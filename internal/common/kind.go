package common

import "errors"

// Kind is the class of a failure as seen by a caller of the service.
type Kind int

const (
	// KindSystem covers pool exhaustion, network failures, timeouts and any
	// error that was not classified more precisely.
	KindSystem Kind = iota
	// KindKey means the addressed row or object does not exist.
	KindKey
	// KindValue means a constraint (unique, foreign key, not null, check) was violated.
	KindValue
	// KindInput means the request itself was malformed.
	KindInput
	// KindTooLarge means the request body exceeded the configured cap.
	KindTooLarge
	// KindUpstream means a dependency (object store) failed.
	KindUpstream
	// KindUnauthorized means the caller did not present a valid token.
	KindUnauthorized
)

var kindNames = map[Kind]string{
	KindSystem:       "system",
	KindKey:          "key",
	KindValue:        "value",
	KindInput:        "input",
	KindTooLarge:     "too_large",
	KindUpstream:     "upstream",
	KindUnauthorized: "unauthorized",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// KindOf classifies err by the first sentinel it wraps. Unknown errors are
// system errors.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrorNotFound):
		return KindKey
	case errors.Is(err, ErrorConflict):
		return KindValue
	case errors.Is(err, ErrorInvalidInput):
		return KindInput
	case errors.Is(err, ErrorTooLarge):
		return KindTooLarge
	case errors.Is(err, ErrorUpstream):
		return KindUpstream
	case errors.Is(err, ErrorUnauthorized):
		return KindUnauthorized
	default:
		return KindSystem
	}
}
