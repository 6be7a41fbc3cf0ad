package esologs

import (
	"context"

	"esologs_check/parse"

	"github.com/pkg/errors"
)

func (c *Client) reportSummary(ctx context.Context, code string) (*reportSummary, error) {
	h := cacheKeyf("%s_summary", code)

	var resp respReportSummary
	if c.csReport != nil && c.csReport.Load(h, &resp) && resp.ReportData.Report != nil {
		return resp.ReportData.Report, nil
	}

	tmplData := struct {
		Code string
	}{
		Code: code,
	}
	err := c.CallGraphQL(ctx, tmplReportSummary, tmplData, &resp)
	if err != nil {
		return nil, err
	}
	if resp.ReportData.Report == nil {
		return nil, errors.Wrap(ErrUnknownReport, code)
	}

	if c.csReport != nil {
		c.csReport.Save(h, &resp)
	}
	return resp.ReportData.Report, nil
}

// selectFight resolves FightID 0 to the last fight and SourceID 0 to the first friendly player.
func (rs *reportSummary) selectFight(req parse.Request) (*reportFight, int, error) {
	if len(rs.Fights) == 0 {
		return nil, 0, errors.Wrapf(ErrUnknownFight, "report %s has no fights", rs.Code)
	}

	var fight *reportFight
	if req.FightID == 0 {
		fight = &rs.Fights[len(rs.Fights)-1]
	} else {
		for i := range rs.Fights {
			if rs.Fights[i].ID == req.FightID {
				fight = &rs.Fights[i]
				break
			}
		}
	}
	if fight == nil {
		return nil, 0, errors.Wrapf(ErrUnknownFight, "report %s fight %d", rs.Code, req.FightID)
	}

	sourceID := req.SourceID
	if sourceID == 0 {
		if len(fight.FriendlyPlayers) == 0 {
			return nil, 0, errors.Wrapf(ErrUnknownSource, "fight %d has no friendly players", fight.ID)
		}
		sourceID = fight.FriendlyPlayers[0]
	} else if len(fight.FriendlyPlayers) > 0 {
		found := false
		for _, id := range fight.FriendlyPlayers {
			if id == sourceID {
				found = true
				break
			}
		}
		if !found {
			return nil, 0, errors.Wrapf(ErrUnknownSource, "fight %d source %d", fight.ID, sourceID)
		}
	}

	return fight, sourceID, nil
}

func (rs *reportSummary) actorName(id int) string {
	for _, a := range rs.Master.Actors {
		if a.ID != id {
			continue
		}
		if a.Name == "" {
			return a.DisplayName
		}
		return a.Name
	}
	return ""
}
