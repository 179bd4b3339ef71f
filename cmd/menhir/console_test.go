package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/magefree/menhir-server-go/internal/game"
	"github.com/magefree/menhir-server-go/internal/game/cards"
	"github.com/magefree/menhir-server-go/internal/game/rules"
	"github.com/magefree/menhir-server-go/internal/game/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogCard(t *testing.T, typ cards.Type) cards.Card {
	t.Helper()
	c, ok := cards.DefaultCatalog().Card(typ)
	require.True(t, ok)
	return c
}

func TestConsoleAskHobgoblin(t *testing.T) {
	s := game.NewSituation(rules.SeasonSpring).
		Player(2, 0, []cards.Card{catalogCard(t, "moonbeam")}).
		Player(3, 1, nil).
		Build()

	var out bytes.Buffer
	con := newConsole(strings.NewReader("9\n1\n3\n1\n"), &out, strategy.Safe{})

	d, err := con.ask(s)
	require.NoError(t, err)

	assert.Equal(t, cards.Type("moonbeam"), d.Card)
	assert.Equal(t, cards.ActionHobgoblin, d.Action)
	assert.Equal(t, 1, d.TargetIndex())
	assert.False(t, d.HasAlly())
	assert.Contains(t, out.String(), "Please enter a number between 1 and 1.")
	assert.Contains(t, out.String(), "Moonbeam (GIANT 1, FERTILIZE 2, HOBGOBLIN 2)")
}

func TestConsoleAskAllyNeedsTarget(t *testing.T) {
	s := game.NewSituation(rules.SeasonSpring).
		Player(2, 0, []cards.Card{catalogCard(t, "moonbeam")}, catalogCard(t, "giant-mole-1")).
		Player(3, 1, nil).
		Player(0, 4, nil).
		Build()

	con := newConsole(strings.NewReader("1\n1\n1\n2\n"), &bytes.Buffer{}, strategy.Safe{})

	d, err := con.ask(s)
	require.NoError(t, err)

	assert.Equal(t, cards.ActionGiant, d.Action)
	assert.Equal(t, cards.Type("giant-mole-1"), d.Ally)
	assert.Equal(t, 2, d.TargetIndex())
}

func TestConsoleAskClosedInput(t *testing.T) {
	s := game.NewSituation(rules.SeasonSpring).
		Player(2, 0, []cards.Card{catalogCard(t, "moonbeam")}).
		Build()

	con := newConsole(strings.NewReader("1\n"), &bytes.Buffer{}, strategy.Safe{})

	_, err := con.ask(s)
	assert.ErrorIs(t, err, errNoInput)
}

func TestConsoleAskSoloHidesTargetedMoves(t *testing.T) {
	s := game.NewSituation(rules.SeasonSpring).
		Player(2, 0, []cards.Card{catalogCard(t, "moonbeam")}, catalogCard(t, "giant-mole-1")).
		Build()

	var out bytes.Buffer
	con := newConsole(strings.NewReader("1\n3\n1\n"), &out, strategy.Safe{})

	d, err := con.ask(s)
	require.NoError(t, err)

	assert.Equal(t, cards.ActionGiant, d.Action)
	assert.Nil(t, d.Target)
	assert.False(t, d.HasAlly(), "a giant mole has nobody to raid")
	assert.Contains(t, out.String(), "Action [1-2]")
	assert.NotContains(t, out.String(), "Allied card")
}

func TestConsoleAskSoloRejectsTargetOnlyCard(t *testing.T) {
	catalog, err := cards.ParseCatalog([]byte(`
cards:
  - type: thief
    name: Thief
    kind: ingredient
    supply: 1
    effects:
      HOBGOBLIN: [1, 1, 1, 1]
  - type: seed
    name: Seed
    kind: ingredient
    supply: 1
    effects:
      GIANT: [1, 1, 1, 1]
`))
	require.NoError(t, err)
	thief, _ := catalog.Card("thief")
	seed, _ := catalog.Card("seed")

	s := game.NewSituation(rules.SeasonSpring).
		Player(2, 0, []cards.Card{thief, seed}).
		Build()

	var out bytes.Buffer
	con := newConsole(strings.NewReader("1\n2\n1\n"), &out, strategy.Safe{})

	d, err := con.ask(s)
	require.NoError(t, err)

	assert.Equal(t, cards.Type("seed"), d.Card)
	assert.Equal(t, cards.ActionGiant, d.Action)
	assert.Contains(t, out.String(), "Thief needs an opponent to play against.")
}

func TestConsoleComputerTurn(t *testing.T) {
	r, err := game.Configure(2, 2, game.WithSeed(3))
	require.NoError(t, err)
	r.Start()

	con := newConsole(strings.NewReader(""), &bytes.Buffer{}, strategy.Harass{})
	got, err := con.decide(r)
	require.NoError(t, err)

	want, err := r.Decide(strategy.Harass{})
	require.NoError(t, err)
	assert.Equal(t, want.Action, got.Action)
	assert.Equal(t, want.Card, got.Card)
	assert.Equal(t, want.Ally, got.Ally)
	assert.Equal(t, want.TargetIndex(), got.TargetIndex())
	require.NoError(t, r.PlayTurn(got))
}

func TestConsolePrinting(t *testing.T) {
	var out bytes.Buffer
	con := newConsole(strings.NewReader(""), &out, strategy.Safe{})

	con.printEvent(rules.NewEventWithAmount(rules.EventStolen, "r", 0, 2, rules.SeasonSummer, 3))
	con.printStandings("Final rankings", []game.Standing{
		{Rank: 1, Participant: 1, Computer: true, BigTotal: 5, SmallTotal: 9},
		{Rank: 2, Participant: 0, BigTotal: 2, SmallTotal: 11},
	})

	text := out.String()
	assert.Contains(t, text, "Player 1 steals 3 small units from Player 3.")
	assert.Contains(t, text, "1. Player 2  (computer)  big 5  small 9")
	assert.Contains(t, text, "2. Player 1  (human)  big 2  small 11")
}
