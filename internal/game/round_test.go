package game

import (
	"errors"
	"testing"

	"github.com/magefree/menhir-server-go/internal/game/cards"
	"github.com/magefree/menhir-server-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// seedCatalog has a single ingredient type so hands are predictable.
const seedCatalog = `
cards:
  - type: seed
    kind: ingredient
    supply: 24
    effects:
      GIANT: [1, 2, 3, 4]
      FERTILIZE: [5, 5, 5, 5]
      HOBGOBLIN: [5, 5, 5, 5]
  - type: mole
    kind: allied
    supply: 6
    effects:
      TAUPE: [5, 5, 5, 5]
`

const dogCatalog = `
cards:
  - type: seed
    kind: ingredient
    supply: 24
    effects:
      GIANT: [1, 2, 3, 4]
      FERTILIZE: [5, 5, 5, 5]
      HOBGOBLIN: [5, 5, 5, 5]
  - type: dog
    kind: allied
    supply: 6
    effects:
      GUARD: [2, 2, 2, 2]
`

func newTestRound(t *testing.T, participants int, catalogYAML string) *Round {
	t.Helper()
	catalog, err := cards.ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)

	r, err := Configure(participants, 0,
		WithLogger(zaptest.NewLogger(t)),
		WithCatalog(catalog),
		WithSeed(7),
	)
	require.NoError(t, err)
	return r
}

func TestConfigureBounds(t *testing.T) {
	tests := []struct {
		name         string
		participants int
		computers    int
		field        string
	}{
		{"no participants", 0, 0, "participants"},
		{"too many participants", MaxParticipants + 1, 0, "participants"},
		{"negative computers", 3, -1, "computers"},
		{"more computers than participants", 3, 4, "computers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Configure(tt.participants, tt.computers)
			require.Error(t, err)
			assert.Nil(t, r)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.True(t, IsConfigurationError(err))
		})
	}
}

func TestConfigureComputersTakeLastSeats(t *testing.T) {
	r, err := Configure(4, 2)
	require.NoError(t, err)

	computers := []bool{}
	for _, p := range r.Participants() {
		computers = append(computers, p.Computer())
	}
	assert.Equal(t, []bool{false, false, true, true}, computers)
	assert.Equal(t, RoundStateConfigured, r.State())
	assert.False(t, r.Running())
	assert.NotEmpty(t, r.ID())
}

func TestNewRoundValidatesDealing(t *testing.T) {
	cfg := NewRoundConfig(2, 0)
	cfg.CardsInHand = 0
	_, err := NewRound(cfg)
	assert.True(t, IsConfigurationError(err))

	cfg = NewRoundConfig(2, 0)
	cfg.InitialSmallUnits = -1
	_, err = NewRound(cfg)
	assert.True(t, IsConfigurationError(err))
}

func TestStartDealsAndResets(t *testing.T) {
	r, err := Configure(6, 3, WithLogger(zaptest.NewLogger(t)), WithSeed(1))
	require.NoError(t, err)

	r.Start()

	assert.True(t, r.Running())
	assert.Equal(t, rules.SeasonSpring, r.CurrentSeason())
	assert.Equal(t, 0, r.CurrentParticipant().Index())
	for _, p := range r.Participants() {
		assert.Len(t, p.Hand(), CardsInHand)
		assert.Len(t, p.Allies(), AlliedCardsInHand)
		assert.Equal(t, InitialSmallUnits, p.Field().Small())
		assert.Equal(t, 0, p.Field().Big())
		assert.Equal(t, 0, p.Protection())
	}

	// Six players take the whole default supply.
	for _, card := range r.Catalog().Cards() {
		assert.Equal(t, 0, r.SupplyRemaining(card.Type), "card %s", card.Type)
	}

	// Starting again refills the supply instead of failing.
	r.Start()
	for _, p := range r.Participants() {
		assert.Len(t, p.Hand(), CardsInHand)
	}
}

func TestStartClampsHandsWhenSupplyRunsOut(t *testing.T) {
	small := `
cards:
  - type: seed
    kind: ingredient
    supply: 5
    effects:
      GIANT: [1, 1, 1, 1]
`
	r := newTestRound(t, 2, small)
	r.Start()

	sizes := []int{len(r.Participants()[0].Hand()), len(r.Participants()[1].Hand())}
	assert.Equal(t, []int{3, 2}, sizes)
	assert.Equal(t, 0, r.SupplyRemaining("seed"))
	assert.Empty(t, r.Participants()[0].Allies())
}

func TestNextTurnBeforeStartAndAfterFinish(t *testing.T) {
	r := newTestRound(t, 1, seedCatalog)

	err := r.NextTurn("seed", cards.ActionGiant, nil)
	assert.ErrorIs(t, err, ErrGameNotRunning)

	r.Start()
	for i := 0; i < rules.SeasonCount; i++ {
		require.NoError(t, r.NextTurn("seed", cards.ActionGiant, nil))
	}
	assert.False(t, r.Running())
	assert.Equal(t, RoundStateFinished, r.State())

	before := r.Snapshot()
	err = r.NextTurn("seed", cards.ActionGiant, nil)
	assert.ErrorIs(t, err, ErrGameFinished)
	assert.Equal(t, before, r.Snapshot())
}

func TestFullRoundVisitsEveryParticipantPerSeason(t *testing.T) {
	r := newTestRound(t, 4, seedCatalog)
	r.Start()

	type turn struct {
		season rules.Season
		index  int
	}
	var visited []turn
	for r.Running() {
		visited = append(visited, turn{r.CurrentSeason(), r.CurrentParticipant().Index()})
		require.NoError(t, r.NextTurn("seed", cards.ActionGiant, nil))
	}

	var expected []turn
	for _, s := range rules.Seasons() {
		for i := 0; i < 4; i++ {
			expected = append(expected, turn{s, i})
		}
	}
	assert.Equal(t, expected, visited)
	assert.Equal(t, 0, r.CurrentParticipant().Index())

	// GIANT gives 1+2+3+4 small units on top of the initial two.
	for _, p := range r.Participants() {
		assert.Equal(t, 12, p.Field().Small())
		assert.Empty(t, p.Hand())
	}
}

func TestNextTurnValidation(t *testing.T) {
	r := newTestRound(t, 2, seedCatalog)
	r.Start()
	actor := r.CurrentParticipant()
	other := r.Participants()[1]

	tests := []struct {
		name   string
		card   cards.Type
		action cards.Action
		target *Participant
		want   error
	}{
		{"card not held", "moonbeam", cards.ActionGiant, nil, ErrCardNotHeld},
		{"allied action from hand", "seed", cards.ActionTaupe, other, ErrInvalidAction},
		{"unknown action", "seed", cards.Action("DANCE"), nil, ErrInvalidAction},
		{"missing target", "seed", cards.ActionHobgoblin, nil, ErrTargetRequired},
		{"self target", "seed", cards.ActionHobgoblin, actor, ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := r.Snapshot()
			err := r.NextTurn(tt.card, tt.action, tt.target)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, r.Snapshot(), "failed turn must not change state")
		})
	}
}

func TestNextTurnResolvesHobgoblin(t *testing.T) {
	r := newTestRound(t, 2, seedCatalog)
	r.Start()
	thief := r.Participants()[0]
	victim := r.Participants()[1]
	victim.Field().SetSmall(10)
	victim.protection.Add(2)

	var stolen []rules.Event
	r.Events().SubscribeTyped(rules.EventStolen, func(e rules.Event) {
		stolen = append(stolen, e)
		// Listeners run after the turn lock is released.
		assert.Equal(t, 1, r.CurrentParticipant().Index())
	})

	require.NoError(t, r.NextTurn("seed", cards.ActionHobgoblin, victim))

	assert.Equal(t, 7, victim.Field().Small())
	assert.Equal(t, 5, thief.Field().Small())
	assert.Equal(t, 0, victim.Protection())
	assert.Len(t, thief.Hand(), CardsInHand-1)
	require.Len(t, stolen, 1)
	assert.Equal(t, 3, stolen[0].Amount)
	assert.Equal(t, 1, stolen[0].Target)
}

func TestNextTurnAcceptsDetachedTarget(t *testing.T) {
	r := newTestRound(t, 2, seedCatalog)
	r.Start()
	copyOfVictim := r.Participants()[1].Copy()

	require.NoError(t, r.NextTurn("seed", cards.ActionHobgoblin, copyOfVictim))
	assert.Equal(t, 0, r.Participants()[1].Field().Small())
	assert.Equal(t, 4, r.Participants()[0].Field().Small())
}

func TestPlayTurnWithTaupeAlly(t *testing.T) {
	r := newTestRound(t, 2, seedCatalog)
	r.Start()
	actor := r.Participants()[0]
	victim := r.Participants()[1]
	victim.Field().SetBig(3)
	require.Len(t, actor.Allies(), 1)

	err := r.PlayTurn(Decision{
		Action: cards.ActionFertilize,
		Card:   "seed",
		Ally:   "mole",
		Target: victim,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, victim.Field().Big())
	assert.Equal(t, 2, actor.Field().Big(), "fertilize converts the two initial small units")
	assert.Empty(t, actor.Allies())
}

func TestPlayTurnWithGuardAlly(t *testing.T) {
	r := newTestRound(t, 2, dogCatalog)
	r.Start()
	first := r.Participants()[0]
	second := r.Participants()[1]

	require.NoError(t, r.PlayTurn(Decision{Action: cards.ActionGiant, Card: "seed", Ally: "dog"}))
	assert.Equal(t, 2, first.Protection())
	assert.Empty(t, first.Allies())

	// The shield absorbs two of the five units stolen next turn.
	require.NoError(t, r.NextTurn("seed", cards.ActionHobgoblin, first))
	assert.Equal(t, 0, first.Protection())
	assert.Equal(t, 0, first.Field().Small())
	assert.Equal(t, 5, second.Field().Small())
}

func TestPlayTurnAllyValidation(t *testing.T) {
	r := newTestRound(t, 2, seedCatalog)
	r.Start()

	before := r.Snapshot()
	err := r.PlayTurn(Decision{Action: cards.ActionGiant, Card: "seed", Ally: "dog"})
	assert.ErrorIs(t, err, ErrAllyNotHeld)

	err = r.PlayTurn(Decision{Action: cards.ActionGiant, Card: "seed", Ally: "mole"})
	assert.ErrorIs(t, err, ErrTargetRequired)
	assert.Equal(t, before, r.Snapshot())
}

func TestRoundEventsSequence(t *testing.T) {
	r := newTestRound(t, 1, seedCatalog)

	var types []rules.EventType
	r.Events().Subscribe(func(e rules.Event) {
		if e.Type == rules.EventCardDealt {
			return
		}
		types = append(types, e.Type)
	})

	r.Start()
	for r.Running() {
		require.NoError(t, r.NextTurn("seed", cards.ActionGiant, nil))
	}

	expected := []rules.EventType{rules.EventGameStarted}
	for i := 0; i < rules.SeasonCount; i++ {
		expected = append(expected, rules.EventCardPlayed, rules.EventGiantTrade, rules.EventTurnEnded)
		if i < rules.SeasonCount-1 {
			expected = append(expected, rules.EventSeasonChanged)
		}
	}
	expected = append(expected, rules.EventGameFinished)
	assert.Equal(t, expected, types)
}

type fixedDecider struct {
	got Situation
	d   Decision
}

func (f *fixedDecider) Decide(s Situation) Decision {
	f.got = s
	return f.d
}

func TestDecideUsesDetachedSituation(t *testing.T) {
	r := newTestRound(t, 3, seedCatalog)

	_, err := r.Decide(&fixedDecider{})
	assert.ErrorIs(t, err, ErrGameNotRunning)

	r.Start()
	decider := &fixedDecider{d: Decision{Action: cards.ActionGiant, Card: "seed"}}
	d, err := r.Decide(decider)
	require.NoError(t, err)
	assert.Equal(t, decider.d, d)

	s := decider.got
	assert.Equal(t, rules.SeasonSpring, s.Season)
	assert.Equal(t, 0, s.Self.Index())
	require.Len(t, s.Players, 3)
	opponents := s.Opponents()
	require.Len(t, opponents, 2)
	assert.Equal(t, 1, opponents[0].Index())
	assert.Equal(t, 2, opponents[1].Index())

	// Mutating the view leaves the round untouched.
	s.Self.Field().SetSmall(50)
	assert.Equal(t, InitialSmallUnits, r.CurrentParticipant().Field().Small())
}
