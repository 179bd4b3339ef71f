package game

import (
	"sort"

	"github.com/magefree/menhir-server-go/internal/game/cards"
	"github.com/magefree/menhir-server-go/internal/game/rules"
)

// Standing is one line of the final rankings.
type Standing struct {
	Rank        int
	Participant int
	Computer    bool
	BigTotal    int
	SmallTotal  int
}

// Standings ranks the roster by the most big units ever held, then the
// most small units ever held. Lifetime totals are used rather than the
// current field, so units lost to raids or steals still count. Equal
// totals share a rank and keep turn order.
func (r *Round) Standings() []Standing {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Standing, len(r.participants))
	for i, p := range r.participants {
		out[i] = Standing{
			Participant: p.index,
			Computer:    p.computer,
			BigTotal:    p.field.BigTotal(),
			SmallTotal:  p.field.SmallTotal(),
		}
	}
	RankStandings(out)
	return out
}

// RankStandings sorts standings best first and assigns ranks in place.
func RankStandings(list []Standing) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].BigTotal != list[j].BigTotal {
			return list[i].BigTotal > list[j].BigTotal
		}
		return list[i].SmallTotal > list[j].SmallTotal
	})
	for i := range list {
		if i > 0 && list[i].BigTotal == list[i-1].BigTotal && list[i].SmallTotal == list[i-1].SmallTotal {
			list[i].Rank = list[i-1].Rank
			continue
		}
		list[i].Rank = i + 1
	}
}

// ParticipantSnapshot captures participant data for external use.
type ParticipantSnapshot struct {
	Index      int
	Computer   bool
	Hand       []cards.Type
	Allies     []cards.Type
	Small      int
	Big        int
	SmallTotal int
	BigTotal   int
	Protection int
}

// RoundSnapshot captures a consistent view of a round.
type RoundSnapshot struct {
	ID           string
	Number       int
	State        RoundState
	Season       rules.Season
	Current      int
	TurnNumber   int
	Participants []ParticipantSnapshot
}

// Snapshot returns a consistent copy of the round state.
func (r *Round) Snapshot() RoundSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := RoundSnapshot{
		ID:           r.id,
		Number:       r.cfg.Number,
		State:        r.state,
		Season:       r.turns.CurrentSeason(),
		Current:      r.turns.CurrentIndex(),
		TurnNumber:   r.turns.TurnNumber(),
		Participants: make([]ParticipantSnapshot, len(r.participants)),
	}
	for i, p := range r.participants {
		snap.Participants[i] = ParticipantSnapshot{
			Index:      p.index,
			Computer:   p.computer,
			Hand:       cardTypes(p.hand),
			Allies:     cardTypes(p.allies),
			Small:      p.field.Small(),
			Big:        p.field.Big(),
			SmallTotal: p.field.SmallTotal(),
			BigTotal:   p.field.BigTotal(),
			Protection: p.protection.Count,
		}
	}
	return snap
}

func cardTypes(list []cards.Card) []cards.Type {
	out := make([]cards.Type, len(list))
	for i, c := range list {
		out[i] = c.Type
	}
	return out
}
