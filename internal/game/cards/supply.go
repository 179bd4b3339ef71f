package cards

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	// ErrUnknownCard is returned for card types missing from the catalog.
	ErrUnknownCard = errors.New("unknown card type")
	// ErrSupplyExhausted is returned when no copy of a card is left to deal.
	ErrSupplyExhausted = errors.New("card supply exhausted")
)

// Supply tracks how many copies of each card type are left to deal in one
// game. It is reset at the start of every game.
type Supply struct {
	catalog   *Catalog
	remaining map[Type]int
}

// NewSupply creates a full supply for the catalog.
func NewSupply(catalog *Catalog) *Supply {
	s := &Supply{
		catalog:   catalog,
		remaining: make(map[Type]int, catalog.Len()),
	}
	s.ResetAll()
	return s
}

// ResetAll restores every card type to its catalog supply.
func (s *Supply) ResetAll() {
	for _, card := range s.catalog.cards {
		s.remaining[card.Type] = card.Supply
	}
}

// Remaining returns how many copies of a card type are left.
func (s *Supply) Remaining(t Type) int {
	return s.remaining[t]
}

// RemainingOfKind returns how many cards of a kind are left in total.
func (s *Supply) RemainingOfKind(kind Kind) int {
	total := 0
	for _, card := range s.catalog.cards {
		if card.Kind == kind {
			total += s.remaining[card.Type]
		}
	}
	return total
}

// DealNext deals one copy of a card type. The count never goes below zero;
// an exhausted type reports ErrSupplyExhausted instead.
func (s *Supply) DealNext(t Type) (Card, error) {
	card, ok := s.catalog.Card(t)
	if !ok {
		return Card{}, fmt.Errorf("%w: %s", ErrUnknownCard, t)
	}
	if s.remaining[t] <= 0 {
		return Card{}, fmt.Errorf("%w: %s", ErrSupplyExhausted, t)
	}
	s.remaining[t]--
	return card, nil
}

// Draw deals a random card of the given kind, weighted by the copies left of
// each type. Exhausted types are never drawn.
func (s *Supply) Draw(rng *rand.Rand, kind Kind) (Card, error) {
	total := s.RemainingOfKind(kind)
	if total == 0 {
		return Card{}, fmt.Errorf("%w: no %s cards left", ErrSupplyExhausted, kind)
	}

	pick := rng.IntN(total)
	for _, card := range s.catalog.cards {
		if card.Kind != kind {
			continue
		}
		left := s.remaining[card.Type]
		if pick < left {
			return s.DealNext(card.Type)
		}
		pick -= left
	}

	// Unreachable while total matches the remaining counts.
	return Card{}, fmt.Errorf("%w: no %s cards left", ErrSupplyExhausted, kind)
}
