package strategy

import (
	"github.com/magefree/menhir-server-go/internal/game"
	"github.com/magefree/menhir-server-go/internal/game/cards"
)

// Harass goes after the richest opponent: it steals whenever a card can
// take its full magnitude from someone, and sends a giant mole at a target
// holding more than one big unit.
type Harass struct{}

// Name returns the strategy name.
func (Harass) Name() string { return string(KindHarass) }

// Decide selects the move.
func (Harass) Decide(s game.Situation) game.Decision {
	if s.Self == nil {
		return game.Decision{}
	}
	opponents := s.Opponents()
	target := richest(opponents)

	d, ok := steal(s, target, opponents)
	if !ok {
		fallback := Safe{}.Decide(s)
		d = game.Decision{Action: fallback.Action, Card: fallback.Card, Target: target}
		if d.Action.NeedsTarget() && d.Target == nil {
			d.Target = fallback.Target
		}
	}

	if d.Target != nil && d.Target.Field().Big() > 1 {
		// No break: the last giant mole in the inventory is used.
		for _, ally := range s.Self.Allies() {
			if ally.Offers(cards.ActionTaupe) {
				d.Ally = ally.Type
			}
		}
	}
	return d
}

// richest returns the opponent with the most big units, then the most small
// units. The first one seen wins a full tie.
func richest(opponents []*game.Participant) *game.Participant {
	var best *game.Participant
	for _, p := range opponents {
		if best == nil {
			best = p
			continue
		}
		pb, bb := p.Field().Big(), best.Field().Big()
		if pb > bb || (pb == bb && p.Field().Small() > best.Field().Small()) {
			best = p
		}
	}
	return best
}

// steal returns the first card in hand whose hobgoblin magnitude can be
// taken in full, aimed at target when possible and otherwise at the first
// opponent in roster order that holds enough small units.
func steal(s game.Situation, target *game.Participant, opponents []*game.Participant) (game.Decision, bool) {
	if target == nil {
		return game.Decision{}, false
	}
	for _, card := range s.Self.Hand() {
		if !card.Offers(cards.ActionHobgoblin) {
			continue
		}
		power := card.Effect(cards.ActionHobgoblin, s.Season)

		if power <= target.Field().Small() {
			return game.Decision{Action: cards.ActionHobgoblin, Card: card.Type, Target: target}, true
		}
		for _, p := range opponents {
			if power <= p.Field().Small() {
				return game.Decision{Action: cards.ActionHobgoblin, Card: card.Type, Target: p}, true
			}
		}
	}
	return game.Decision{}, false
}
