package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/magefree/menhir-server-go/internal/game"
	"github.com/magefree/menhir-server-go/internal/game/cards"
	"github.com/magefree/menhir-server-go/internal/game/rules"
)

// errNoInput is returned when stdin closes in the middle of a prompt.
var errNoInput = errors.New("input closed")

// console is the terminal front end: it prompts human participants for
// their moves, lets the computer strategy play the others and prints what
// happens.
type console struct {
	in       *bufio.Scanner
	out      io.Writer
	computer game.Decider
}

func newConsole(in io.Reader, out io.Writer, computer game.Decider) *console {
	return &console{in: bufio.NewScanner(in), out: out, computer: computer}
}

func (c *console) decide(r *game.Round) (game.Decision, error) {
	self := r.CurrentParticipant()
	if self.Computer() {
		return r.Decide(c.computer)
	}
	return c.ask(r.Situation())
}

// ask walks a human participant through card, action, target and ally.
// Without opponents, actions and allied cards that need a target are not
// offered.
func (c *console) ask(s game.Situation) (game.Decision, error) {
	c.printRoster(s)

	hand := s.Self.Hand()
	if len(hand) == 0 {
		return game.Decision{}, fmt.Errorf("%s has no cards left", s.Self.Name())
	}
	solo := len(s.Opponents()) == 0

	fmt.Fprintf(c.out, "%s, your hand:\n", s.Self.Name())
	for i, card := range hand {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, describe(card, s.Season))
	}
	var card cards.Card
	var actions []cards.Action
	for {
		n, err := c.choose("Card", 1, len(hand))
		if err != nil {
			return game.Decision{}, err
		}
		card = hand[n-1]
		if actions = playable(card.Actions(), solo); len(actions) > 0 {
			break
		}
		fmt.Fprintf(c.out, "%s needs an opponent to play against.\n", card.Name)
	}

	for i, action := range actions {
		fmt.Fprintf(c.out, "  %d) %s %d\n", i+1, action, card.Effect(action, s.Season))
	}
	n, err := c.choose("Action", 1, len(actions))
	if err != nil {
		return game.Decision{}, err
	}
	d := game.Decision{Action: actions[n-1], Card: card.Type}

	if d.Action.NeedsTarget() {
		if d.Target, err = c.chooseTarget(s); err != nil {
			return game.Decision{}, err
		}
	}

	var allies []cards.Card
	for _, ally := range s.Self.Allies() {
		if len(playable(ally.Actions(), solo)) > 0 {
			allies = append(allies, ally)
		}
	}
	if len(allies) == 0 {
		return d, nil
	}
	fmt.Fprintln(c.out, "  0) no allied card")
	for i, ally := range allies {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, describe(ally, s.Season))
	}
	if n, err = c.choose("Allied card", 0, len(allies)); err != nil {
		return game.Decision{}, err
	}
	if n == 0 {
		return d, nil
	}
	ally := allies[n-1]
	d.Ally = ally.Type
	if d.Target == nil && ally.Actions()[0].NeedsTarget() {
		if d.Target, err = c.chooseTarget(s); err != nil {
			return game.Decision{}, err
		}
	}
	return d, nil
}

// playable drops the actions that need a target when there is nobody to aim at.
func playable(actions []cards.Action, solo bool) []cards.Action {
	if !solo {
		return actions
	}
	out := make([]cards.Action, 0, len(actions))
	for _, a := range actions {
		if !a.NeedsTarget() {
			out = append(out, a)
		}
	}
	return out
}

func (c *console) chooseTarget(s game.Situation) (*game.Participant, error) {
	opponents := s.Opponents()
	if len(opponents) == 0 {
		return nil, fmt.Errorf("%s has nobody to target", s.Self.Name())
	}
	for i, p := range opponents {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, p.Name())
	}
	n, err := c.choose("Target", 1, len(opponents))
	if err != nil {
		return nil, err
	}
	return opponents[n-1], nil
}

// choose reads a number in [lo, hi], asking again on bad input.
func (c *console) choose(prompt string, lo, hi int) (int, error) {
	for {
		fmt.Fprintf(c.out, "%s [%d-%d]: ", prompt, lo, hi)
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return 0, err
			}
			return 0, errNoInput
		}
		n, err := strconv.Atoi(strings.TrimSpace(c.in.Text()))
		if err == nil && n >= lo && n <= hi {
			return n, nil
		}
		fmt.Fprintf(c.out, "Please enter a number between %d and %d.\n", lo, hi)
	}
}

func (c *console) printRoster(s game.Situation) {
	fmt.Fprintf(c.out, "\n-- %s --\n", s.Season)
	for _, p := range s.Players {
		marker := " "
		if p.Index() == s.Self.Index() {
			marker = "*"
		}
		f := p.Field()
		fmt.Fprintf(c.out, "%s %-9s small %2d  big %2d  protection %d\n",
			marker, p.Name(), f.Small(), f.Big(), p.Protection())
	}
}

func (c *console) printEvent(e rules.Event) {
	who := playerName(e.Participant)
	switch e.Type {
	case rules.EventGameStarted:
		fmt.Fprintln(c.out, "\n== New round ==")
	case rules.EventSeasonChanged:
		fmt.Fprintf(c.out, "\n%s begins.\n", e.Season)
	case rules.EventCardPlayed, rules.EventAlliedCardPlayed:
		line := fmt.Sprintf("%s plays %s for %s %d", who, e.Card, e.Action, e.Amount)
		if e.Target != rules.NoParticipant {
			line += " against " + playerName(e.Target)
		}
		fmt.Fprintln(c.out, line)
	case rules.EventFertilized:
		fmt.Fprintf(c.out, "  %s grows %d big units.\n", who, e.Amount)
	case rules.EventGiantTrade:
		fmt.Fprintf(c.out, "  %s receives %d small units.\n", who, e.Amount)
	case rules.EventStolen:
		fmt.Fprintf(c.out, "  %s steals %d small units from %s.\n", who, e.Amount, playerName(e.Target))
	case rules.EventProtectionUsed:
		fmt.Fprintf(c.out, "  %s's guard dogs hold back %d.\n", playerName(e.Target), e.Amount)
	case rules.EventProtectionGained:
		fmt.Fprintf(c.out, "  %s is guarded against %d.\n", who, e.Amount)
	case rules.EventRaided:
		fmt.Fprintf(c.out, "  %s destroys %d big units of %s.\n", who, e.Amount, playerName(e.Target))
	case rules.EventSupplyExhausted:
		fmt.Fprintf(c.out, "The supply ran out while dealing to %s.\n", who)
	case rules.EventGameFinished:
		fmt.Fprintln(c.out, "\n== Round over ==")
	}
}

func (c *console) printStandings(title string, standings []game.Standing) {
	fmt.Fprintf(c.out, "\n%s\n", title)
	for _, s := range standings {
		kind := "human"
		if s.Computer {
			kind = "computer"
		}
		fmt.Fprintf(c.out, "%d. %-9s (%s)  big %d  small %d\n",
			s.Rank, playerName(s.Participant), kind, s.BigTotal, s.SmallTotal)
	}
}

func describe(card cards.Card, season rules.Season) string {
	parts := make([]string, 0, 3)
	for _, action := range card.Actions() {
		parts = append(parts, fmt.Sprintf("%s %d", action, card.Effect(action, season)))
	}
	return fmt.Sprintf("%s (%s)", card.Name, strings.Join(parts, ", "))
}

func playerName(index int) string {
	return fmt.Sprintf("Player %d", index+1)
}
