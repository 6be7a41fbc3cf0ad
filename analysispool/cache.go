package analysispool

import (
	"fmt"
	"hash"
	"hash/fnv"
	"strings"

	"esologs_check/esologs"
	"esologs_check/parse"
	"esologs_check/share"

	"github.com/pkg/errors"
)

var ErrInvalidRequest = errors.New("invalid analysis request")

// RequestData is what a client sends to start an analysis: either a report url or the
// report code with optional fight and source ids.
type RequestData struct {
	URL string `json:"url"`
	parse.Request
}

// Normalize resolves URL into the report code and fight id. An explicit FightID wins over
// the one in the url.
func (rd *RequestData) Normalize() error {
	rd.URL = strings.TrimSpace(rd.URL)
	rd.ReportCode = strings.TrimSpace(rd.ReportCode)

	if rd.URL != "" {
		code, fightID, err := esologs.ExtractReportInfo(rd.URL)
		if err != nil {
			return err
		}
		rd.ReportCode = code
		if rd.FightID == 0 {
			rd.FightID = fightID
		}
	}

	switch {
	case rd.ReportCode == "":
	case len(rd.ReportCode) > 32:
	case rd.FightID < 0:
	case rd.SourceID < 0:
	default:
		return nil
	}
	return errors.Wrapf(ErrInvalidRequest, "%+v", rd.Request)
}

// Hash keys the result cache. Options are part of the key since they change the report.
func (rd *RequestData) Hash(opts parse.Options) hash.Hash {
	h := fnv.New128a()
	h.Write(share.S2b(rd.ReportCode))
	fmt.Fprint(
		h,
		"|||",
		rd.FightID, "|||",
		rd.SourceID, "|||",
		opts.WeaveGapMs, "|||",
		opts.OpenerLength, "|||",
	)

	return h
}
