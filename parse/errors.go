package parse

import "github.com/pkg/errors"

var (
	// ErrDataUnavailable means the log source failed or the report/fight/source did not resolve.
	ErrDataUnavailable = errors.New("combat log data unavailable")
	// ErrMalformedEventPairing means a removebuff had no open applybuff for the same ability.
	ErrMalformedEventPairing = errors.New("malformed buff event pairing")
	ErrUndefinedRate         = errors.New("rate is undefined")
	ErrInvalidFight          = errors.New("invalid fight window")
)
