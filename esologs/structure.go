package esologs

import "esologs_check/parse"

type respReportSummary struct {
	ReportData struct {
		Report *reportSummary `json:"report"`
	} `json:"reportData"`
}

type reportSummary struct {
	Code      string        `json:"code"`
	Title     string        `json:"title"`
	StartTime int64         `json:"startTime"`
	EndTime   int64         `json:"endTime"`
	Fights    []reportFight `json:"fights"`
	Master    reportMaster  `json:"masterData"`
}

type reportFight struct {
	parse.Fight
	FriendlyPlayers []int `json:"friendlyPlayers"`
}

type reportMaster struct {
	Actors []reportActor `json:"actors"`
}

type reportActor struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type respReportEvents struct {
	ReportData struct {
		Report *struct {
			Events *eventPage `json:"events"`
		} `json:"report"`
	} `json:"reportData"`
}

type eventPage struct {
	Data              []apiEvent `json:"data"`
	NextPageTimestamp *int64     `json:"nextPageTimestamp"`
}

// apiEvent is a CombatEvent plus the auras listed by combatantinfo events.
type apiEvent struct {
	parse.CombatEvent
	Auras []apiAura `json:"auras,omitempty"`
}

type apiAura struct {
	Source  int `json:"source"`
	Ability int `json:"ability"`
}
