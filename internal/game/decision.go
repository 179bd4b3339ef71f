package game

import (
	"github.com/magefree/menhir-server-go/internal/game/cards"
	"github.com/magefree/menhir-server-go/internal/game/rules"
)

// Decision is the move a participant makes on its turn.
type Decision struct {
	Action cards.Action
	Card   cards.Type
	// Ally is the allied card attached to the move, empty for none.
	Ally cards.Type
	// Target is the participant the move is aimed at, nil for none.
	Target *Participant
}

// HasAlly reports whether an allied card is attached.
func (d Decision) HasAlly() bool {
	return d.Ally != ""
}

// TargetIndex returns the target's index, or -1 without a target.
func (d Decision) TargetIndex() int {
	if d.Target == nil {
		return rules.NoParticipant
	}
	return d.Target.Index()
}

// Situation is what a strategy sees when deciding: the season, the acting
// participant and the whole roster in turn order.
type Situation struct {
	Season  rules.Season
	Self    *Participant
	Players []*Participant
}

// Opponents returns every participant except Self, in roster order.
func (s Situation) Opponents() []*Participant {
	out := make([]*Participant, 0, len(s.Players))
	for _, p := range s.Players {
		if s.Self != nil && p.Index() == s.Self.Index() {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Decider chooses a move for a participant.
type Decider interface {
	Decide(s Situation) Decision
}
