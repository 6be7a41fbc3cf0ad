package parse

const (
	player = 1
	other  = 2

	lightAttack = 16688
	heavyAttack = 16041
	swap        = 28541
	synergy     = 41965

	skillA = 61902
	skillB = 25260
	skillC = 26869

	staminaFood = 61255
	triStatFood = 61218
	majorSlayer = 93109
	majorCourge = 109966
	unknownBuff = 999999
)

func testFight(start, end int64) *Fight {
	return &Fight{ID: 7, Name: "Target Iron Atronach", StartTime: start, EndTime: end, IsKill: true}
}

func testScope(start, end int64) Scope {
	return Scope{Fight: testFight(start, end), SourceID: player}
}

func cast(ts int64, id int) CombatEvent {
	return CombatEvent{Timestamp: ts, Type: EventCast, AbilityID: id, SourceID: player}
}

func damage(ts int64, id int, amount int64) CombatEvent {
	return CombatEvent{Timestamp: ts, Type: EventDamage, AbilityID: id, SourceID: player, TargetID: 100, Amount: amount}
}

func tick(ts int64, id int, amount int64) CombatEvent {
	e := damage(ts, id, amount)
	e.Tick = true
	return e
}

func apply(ts int64, id int) CombatEvent {
	return CombatEvent{Timestamp: ts, Type: EventApplyBuff, AbilityID: id, SourceID: player, TargetID: player}
}

func remove(ts int64, id int) CombatEvent {
	return CombatEvent{Timestamp: ts, Type: EventRemoveBuff, AbilityID: id, SourceID: player, TargetID: player}
}
