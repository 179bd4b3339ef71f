package strategy

import (
	"github.com/magefree/menhir-server-go/internal/game"
	"github.com/magefree/menhir-server-go/internal/game/cards"
)

// Safe grows its own field and never attacks unless its hand leaves no
// other choice.
type Safe struct{}

// Name returns the strategy name.
func (Safe) Name() string { return string(KindSafe) }

// Decide picks the card and action with the best gain for the actor's own
// field. Fertilizing counts double since big units rank first. Ties keep the
// earlier card, and fertilizing wins a tie within a card.
func (Safe) Decide(s game.Situation) game.Decision {
	if s.Self == nil {
		return game.Decision{}
	}
	hand := s.Self.Hand()
	if len(hand) == 0 {
		return game.Decision{}
	}
	small := s.Self.Field().Small()

	var best game.Decision
	bestScore := -1
	after := 0
	for _, card := range hand {
		if card.Offers(cards.ActionFertilize) {
			n := min(card.Effect(cards.ActionFertilize, s.Season), small)
			if score := 2 * n; score > bestScore {
				best = game.Decision{Action: cards.ActionFertilize, Card: card.Type}
				bestScore, after = score, small-n
			}
		}
		if card.Offers(cards.ActionGiant) {
			n := card.Effect(cards.ActionGiant, s.Season)
			if n > bestScore {
				best = game.Decision{Action: cards.ActionGiant, Card: card.Type}
				bestScore, after = n, small+n
			}
		}
	}

	if bestScore < 0 {
		return lastResort(s, hand[0])
	}

	if after > 0 {
		for _, ally := range s.Self.Allies() {
			if ally.Offers(cards.ActionGuard) {
				best.Ally = ally.Type
				break
			}
		}
	}
	return best
}

// lastResort plays the first action the card offers, aimed at the first
// opponent when it needs a target.
func lastResort(s game.Situation, card cards.Card) game.Decision {
	d := game.Decision{Card: card.Type}
	if actions := card.Actions(); len(actions) > 0 {
		d.Action = actions[0]
	}
	if d.Action.NeedsTarget() {
		if opponents := s.Opponents(); len(opponents) > 0 {
			d.Target = opponents[0]
		}
	}
	return d
}
