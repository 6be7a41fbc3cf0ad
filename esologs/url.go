package esologs

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	reportCodePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

	rxReport     = regexp.MustCompile(`reports/([A-Za-z0-9]+)`)
	rxHashFight  = regexp.MustCompile(`#fight=(\d+)`)
	rxQueryFight = regexp.MustCompile(`[?&]fight=(\d+)`)
	rxPathFight  = regexp.MustCompile(`reports/[A-Za-z0-9]+/(\d+)`)
)

// ExtractReportInfo reads the report code and fight id out of an esologs.com report url.
// A bare report code is accepted as well. fightID is 0 when the url names no fight;
// when several fight forms are present, the path form wins over the query form over the fragment.
func ExtractReportInfo(s string) (code string, fightID int, err error) {
	s = strings.TrimSpace(s)

	if reportCodePattern.MatchString(s) {
		return s, 0, nil
	}

	m := rxReport.FindStringSubmatch(s)
	if m == nil {
		return "", 0, errors.Wrap(ErrInvalidReportURL, s)
	}
	code = m[1]

	for _, rx := range []*regexp.Regexp{rxHashFight, rxQueryFight, rxPathFight} {
		if m := rx.FindStringSubmatch(s); m != nil {
			// digits only, so the only failure is overflow
			id, err := strconv.Atoi(m[1])
			if err != nil {
				return "", 0, errors.Wrap(ErrInvalidReportURL, s)
			}
			fightID = id
		}
	}

	return code, fightID, nil
}
