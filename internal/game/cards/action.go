package cards

import (
	"fmt"
	"strings"
)

// Action is the kind of effect a card is played for.
type Action string

const (
	// ActionGiant asks the giant for small units.
	ActionGiant Action = "GIANT"
	// ActionFertilize turns small units into big units.
	ActionFertilize Action = "FERTILIZE"
	// ActionHobgoblin steals small units from another participant.
	ActionHobgoblin Action = "HOBGOBLIN"
	// ActionTaupe destroys another participant's big units.
	ActionTaupe Action = "TAUPE"
	// ActionGuard shields the player against the next steal.
	ActionGuard Action = "GUARD"
)

// Kind separates the cards that make up a hand from allied cards.
type Kind string

const (
	KindIngredient Kind = "ingredient"
	KindAllied     Kind = "allied"
)

// Valid reports whether k is a known card kind.
func (k Kind) Valid() bool {
	return k == KindIngredient || k == KindAllied
}

// Actions returns every action in a fixed order.
func Actions() []Action {
	return []Action{ActionGiant, ActionFertilize, ActionHobgoblin, ActionTaupe, ActionGuard}
}

// Kind returns the kind of card the action belongs to.
func (a Action) Kind() Kind {
	switch a {
	case ActionGiant, ActionFertilize, ActionHobgoblin:
		return KindIngredient
	case ActionTaupe, ActionGuard:
		return KindAllied
	default:
		return ""
	}
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	return a.Kind() != ""
}

// NeedsTarget reports whether the action is aimed at another participant.
func (a Action) NeedsTarget() bool {
	return a == ActionHobgoblin || a == ActionTaupe
}

// ParseAction parses an action name, ignoring case.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToUpper(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("unknown action %q", s)
	}
	return a, nil
}
