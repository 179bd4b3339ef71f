package game

import (
	"fmt"

	"github.com/magefree/menhir-server-go/internal/game/cards"
	"github.com/magefree/menhir-server-go/internal/game/counters"
	"github.com/magefree/menhir-server-go/internal/game/field"
)

// Participant is one player of a round: a hand of ingredient cards, an
// allied card inventory, a resource field and a protection counter.
type Participant struct {
	index    int
	computer bool

	handSize int
	allySize int

	hand       []cards.Card
	allies     []cards.Card
	field      *field.Field
	protection *counters.Counter
}

func newParticipant(index int, computer bool, handSize, allySize, initialSmall int) *Participant {
	return &Participant{
		index:      index,
		computer:   computer,
		handSize:   handSize,
		allySize:   allySize,
		hand:       make([]cards.Card, 0, handSize),
		allies:     make([]cards.Card, 0, allySize),
		field:      field.New(initialSmall),
		protection: counters.NewCounter(counters.Protection, 0),
	}
}

// Index returns the participant's position in turn order.
func (p *Participant) Index() int {
	return p.index
}

// Name returns a display name such as "Player 1".
func (p *Participant) Name() string {
	return fmt.Sprintf("Player %d", p.index+1)
}

// Computer reports whether the participant is controlled by a strategy.
func (p *Participant) Computer() bool {
	return p.computer
}

// Hand returns the ingredient cards held, in hand order.
func (p *Participant) Hand() []cards.Card {
	out := make([]cards.Card, len(p.hand))
	copy(out, p.hand)
	return out
}

// Allies returns the allied cards held, in inventory order.
func (p *Participant) Allies() []cards.Card {
	out := make([]cards.Card, len(p.allies))
	copy(out, p.allies)
	return out
}

// Field returns the participant's resource field.
func (p *Participant) Field() *field.Field {
	return p.field
}

// Protection returns the standing protection against steals.
func (p *Participant) Protection() int {
	return p.protection.Count
}

// Card returns the first held ingredient card of the given type.
func (p *Participant) Card(t cards.Type) (cards.Card, bool) {
	if i := indexOf(p.hand, t); i >= 0 {
		return p.hand[i], true
	}
	return cards.Card{}, false
}

// Ally returns the first held allied card of the given type.
func (p *Participant) Ally(t cards.Type) (cards.Card, bool) {
	if i := indexOf(p.allies, t); i >= 0 {
		return p.allies[i], true
	}
	return cards.Card{}, false
}

// Copy returns a detached copy of the participant for read-only use.
func (p *Participant) Copy() *Participant {
	return &Participant{
		index:      p.index,
		computer:   p.computer,
		handSize:   p.handSize,
		allySize:   p.allySize,
		hand:       p.Hand(),
		allies:     p.Allies(),
		field:      p.field.Copy(),
		protection: p.protection.Copy(),
	}
}

func (p *Participant) reset(initialSmall int) {
	p.hand = p.hand[:0]
	p.allies = p.allies[:0]
	p.field.Reset(initialSmall)
	p.protection.Reset()
}

func (p *Participant) canTakeCard() bool {
	return len(p.hand) < p.handSize
}

func (p *Participant) canTakeAlly() bool {
	return len(p.allies) < p.allySize
}

func (p *Participant) takeCard(card cards.Card) {
	p.hand = append(p.hand, card)
}

func (p *Participant) takeAlly(card cards.Card) {
	p.allies = append(p.allies, card)
}

func (p *Participant) removeCard(t cards.Type) {
	if i := indexOf(p.hand, t); i >= 0 {
		p.hand = append(p.hand[:i], p.hand[i+1:]...)
	}
}

func (p *Participant) removeAlly(t cards.Type) {
	if i := indexOf(p.allies, t); i >= 0 {
		p.allies = append(p.allies[:i], p.allies[i+1:]...)
	}
}

func indexOf(list []cards.Card, t cards.Type) int {
	for i, c := range list {
		if c.Type == t {
			return i
		}
	}
	return -1
}
