package cards

import (
	"github.com/magefree/menhir-server-go/internal/game/rules"
)

// Type identifies a card definition.
type Type string

// Card is an immutable card definition.
type Card struct {
	Type   Type
	Name   string
	Kind   Kind
	Supply int

	effects map[Action][rules.SeasonCount]int
}

// Effect returns the magnitude of the card for the action in the season.
// Actions the card does not offer have magnitude 0.
func (c Card) Effect(action Action, season rules.Season) int {
	if !season.Valid() {
		return 0
	}
	values, ok := c.effects[action]
	if !ok {
		return 0
	}
	return values[season]
}

// Offers reports whether the card can be played for the action.
func (c Card) Offers(action Action) bool {
	_, ok := c.effects[action]
	return ok
}

// Actions returns the actions the card can be played for.
func (c Card) Actions() []Action {
	var out []Action
	for _, a := range Actions() {
		if c.Offers(a) {
			out = append(out, a)
		}
	}
	return out
}

// IsZero reports whether c is the zero Card.
func (c Card) IsZero() bool {
	return c.Type == ""
}
