package rules

import (
	"fmt"
)

// Season is one of the four turn phases of a round. It gates the magnitude
// of every card effect and bounds the length of the game.
type Season int

const (
	SeasonSpring Season = iota
	SeasonSummer
	SeasonAutumn
	SeasonWinter
)

// SeasonCount is the number of seasons in a round.
const SeasonCount = 4

var seasonNames = map[Season]string{
	SeasonSpring: "SPRING",
	SeasonSummer: "SUMMER",
	SeasonAutumn: "AUTUMN",
	SeasonWinter: "WINTER",
}

func (s Season) String() string {
	if name, ok := seasonNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SEASON_%d", int(s))
}

// Valid reports whether s is one of the defined seasons.
func (s Season) Valid() bool {
	return s >= SeasonSpring && s <= SeasonWinter
}

// Last reports whether s is the final season of a round.
func (s Season) Last() bool {
	return s == SeasonWinter
}

// Seasons returns every season in play order.
func Seasons() []Season {
	return []Season{SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter}
}

// TurnManager tracks whose turn it is and the current season.
// Turn order is the participant index order and wraps after the last index;
// the season only advances on a wrap.
type TurnManager struct {
	orderIndex   int
	participants int
	turnNumber   int
	season       Season
	finished     bool
}

// NewTurnManager creates a turn manager at participant 0, first season.
func NewTurnManager(participants int) *TurnManager {
	if participants < 1 {
		participants = 1
	}
	return &TurnManager{
		participants: participants,
		turnNumber:   1,
		season:       SeasonSpring,
	}
}

// CurrentIndex returns the index of the participant whose turn it is.
func (tm *TurnManager) CurrentIndex() int {
	return tm.orderIndex
}

// CurrentSeason returns the season currently in progress.
func (tm *TurnManager) CurrentSeason() Season {
	return tm.season
}

// TurnNumber returns the number of turns started so far (1-based).
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// Finished reports whether the last season's final turn has been played.
func (tm *TurnManager) Finished() bool {
	return tm.finished
}

// Advance moves to the next participant. When the order wraps back to
// index 0 the season advances; wrapping past the last season finishes the
// round. seasonChanged reports whether the season moved on.
func (tm *TurnManager) Advance() (index int, season Season, seasonChanged bool) {
	if tm.finished {
		return tm.orderIndex, tm.season, false
	}

	tm.turnNumber++
	tm.orderIndex++
	if tm.orderIndex < tm.participants {
		return tm.orderIndex, tm.season, false
	}

	tm.orderIndex = 0
	if tm.season.Last() {
		tm.finished = true
		return tm.orderIndex, tm.season, false
	}

	tm.season++
	return tm.orderIndex, tm.season, true
}
