package game

import (
	"github.com/magefree/menhir-server-go/internal/game/cards"
	"github.com/magefree/menhir-server-go/internal/game/rules"
)

// SituationBuilder assembles a Situation outside of any round, for what-if
// analysis of strategies and for tests.
type SituationBuilder struct {
	season  rules.Season
	self    int
	players []*Participant
}

// NewSituation starts a builder for the given season. Self defaults to the
// first player added.
func NewSituation(season rules.Season) *SituationBuilder {
	return &SituationBuilder{season: season}
}

// Player appends a participant with the given field, hand and allied cards.
// Hand and inventory sizes are not capped.
func (b *SituationBuilder) Player(small, big int, hand []cards.Card, allies ...cards.Card) *SituationBuilder {
	p := newParticipant(len(b.players), true, len(hand), len(allies), small)
	p.field.SetBig(big)
	for _, c := range hand {
		p.takeCard(c)
	}
	for _, c := range allies {
		p.takeAlly(c)
	}
	b.players = append(b.players, p)
	return b
}

// Protect gives the most recently added player a protection counter.
func (b *SituationBuilder) Protect(n int) *SituationBuilder {
	if len(b.players) > 0 {
		b.players[len(b.players)-1].protection.Add(n)
	}
	return b
}

// Self selects the acting participant by index.
func (b *SituationBuilder) Self(index int) *SituationBuilder {
	b.self = index
	return b
}

// Build returns the situation.
func (b *SituationBuilder) Build() Situation {
	s := Situation{Season: b.season, Players: b.players}
	if b.self >= 0 && b.self < len(b.players) {
		s.Self = b.players[b.self]
	}
	return s
}
