package esologs

import "github.com/pkg/errors"

var (
	ErrInvalidReportURL = errors.New("invalid report url")
	ErrUnknownReport    = errors.New("report not found")
	ErrUnknownFight     = errors.New("fight not found in report")
	ErrUnknownSource    = errors.New("source is not a friendly player of the fight")
	ErrIncompleteEvents = errors.New("event pagination did not finish")
)
