package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/magefree/menhir-server-go/internal/game/cards"
	"github.com/magefree/menhir-server-go/internal/game/rules"
	"go.uber.org/zap"
)

const (
	// MaxParticipants is the largest roster a round accepts.
	MaxParticipants = 6
	// CardsInHand is the default number of ingredient cards dealt.
	CardsInHand = 4
	// AlliedCardsInHand is the default number of allied cards dealt.
	AlliedCardsInHand = 1
	// InitialSmallUnits is the default number of small units on a fresh field.
	InitialSmallUnits = 2
)

// RoundState represents the lifecycle state of a round.
type RoundState int

const (
	RoundStateConfigured RoundState = iota
	RoundStateRunning
	RoundStateFinished
)

func (s RoundState) String() string {
	switch s {
	case RoundStateConfigured:
		return "CONFIGURED"
	case RoundStateRunning:
		return "RUNNING"
	case RoundStateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// RoundConfig holds the roster and dealing parameters of a round.
type RoundConfig struct {
	Participants      int
	Computers         int
	CardsInHand       int
	AlliedCardsInHand int
	InitialSmallUnits int
	// Number is the index of the round inside a multi-round match.
	Number int
}

// NewRoundConfig returns a configuration with the default dealing rules.
func NewRoundConfig(participants, computers int) RoundConfig {
	return RoundConfig{
		Participants:      participants,
		Computers:         computers,
		CardsInHand:       CardsInHand,
		AlliedCardsInHand: AlliedCardsInHand,
		InitialSmallUnits: InitialSmallUnits,
	}
}

// Validate checks the configuration bounds.
func (c RoundConfig) Validate() error {
	switch {
	case c.Participants < 1:
		return &ConfigurationError{Field: "participants", Value: c.Participants, Reason: "at least one participant is required"}
	case c.Participants > MaxParticipants:
		return &ConfigurationError{Field: "participants", Value: c.Participants, Reason: fmt.Sprintf("at most %d participants are allowed", MaxParticipants)}
	case c.Computers < 0 || c.Computers > c.Participants:
		return &ConfigurationError{Field: "computers", Value: c.Computers, Reason: "must be between 0 and the number of participants"}
	case c.CardsInHand < 1:
		return &ConfigurationError{Field: "cards_in_hand", Value: c.CardsInHand, Reason: "must be at least 1"}
	case c.AlliedCardsInHand < 0:
		return &ConfigurationError{Field: "allied_cards_in_hand", Value: c.AlliedCardsInHand, Reason: "must not be negative"}
	case c.InitialSmallUnits < 0:
		return &ConfigurationError{Field: "initial_small_units", Value: c.InitialSmallUnits, Reason: "must not be negative"}
	}
	return nil
}

// RoundOption customizes a round at construction.
type RoundOption func(*Round)

// WithLogger sets the logger used for turn logging.
func WithLogger(logger *zap.Logger) RoundOption {
	return func(r *Round) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithCatalog replaces the built-in card catalog.
func WithCatalog(catalog *cards.Catalog) RoundOption {
	return func(r *Round) {
		if catalog != nil {
			r.catalog = catalog
		}
	}
}

// WithSeed makes dealing reproducible.
func WithSeed(seed uint64) RoundOption {
	return func(r *Round) {
		r.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithEventBus publishes round events on an existing bus.
func WithEventBus(bus *rules.EventBus) RoundOption {
	return func(r *Round) {
		if bus != nil {
			r.events = bus
		}
	}
}

// Round is one game session: a fixed roster playing once through every
// season. All state changes go through Start, NextTurn and PlayTurn, which
// are serialized by a single turn lock so that the card supply and the
// fields touched in one turn change together.
type Round struct {
	id     string
	cfg    RoundConfig
	logger *zap.Logger

	mu           sync.RWMutex
	state        RoundState
	participants []*Participant
	turns        *rules.TurnManager
	catalog      *cards.Catalog
	supply       *cards.Supply
	rng          *rand.Rand

	events  *rules.EventBus
	pending []rules.Event
}

// Configure creates a round for the given roster with the default dealing
// rules. The last computerCount participants are computer-controlled.
func Configure(participantCount, computerCount int, opts ...RoundOption) (*Round, error) {
	return NewRound(NewRoundConfig(participantCount, computerCount), opts...)
}

// NewRound creates a configured, not yet started, round.
func NewRound(cfg RoundConfig, opts ...RoundOption) (*Round, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Round{
		id:      uuid.NewString(),
		cfg:     cfg,
		logger:  zap.NewNop(),
		state:   RoundStateConfigured,
		catalog: cards.DefaultCatalog(),
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		events:  rules.NewEventBus(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.supply = cards.NewSupply(r.catalog)
	r.turns = rules.NewTurnManager(cfg.Participants)
	r.participants = make([]*Participant, cfg.Participants)
	for i := range r.participants {
		computer := i >= cfg.Participants-cfg.Computers
		r.participants[i] = newParticipant(i, computer, cfg.CardsInHand, cfg.AlliedCardsInHand, cfg.InitialSmallUnits)
	}

	r.logger = r.logger.With(zap.String("round_id", r.id), zap.Int("round", cfg.Number))
	r.logger.Debug("round configured",
		zap.Int("participants", cfg.Participants),
		zap.Int("computers", cfg.Computers),
	)
	return r, nil
}

// ID returns the round's unique identifier.
func (r *Round) ID() string {
	return r.id
}

// Number returns the index of the round inside a match.
func (r *Round) Number() int {
	return r.cfg.Number
}

// Config returns the configuration the round was built with.
func (r *Round) Config() RoundConfig {
	return r.cfg
}

// Catalog returns the card catalog in use.
func (r *Round) Catalog() *cards.Catalog {
	return r.catalog
}

// Events returns the bus round events are published on.
func (r *Round) Events() *rules.EventBus {
	return r.events
}

// State returns the lifecycle state.
func (r *Round) State() RoundState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Running reports whether the round accepts turns.
func (r *Round) Running() bool {
	return r.State() == RoundStateRunning
}

// CurrentSeason returns the season in progress.
func (r *Round) CurrentSeason() rules.Season {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.turns.CurrentSeason()
}

// CurrentParticipant returns the participant whose turn it is.
func (r *Round) CurrentParticipant() *Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.participants[r.turns.CurrentIndex()]
}

// TurnNumber returns the number of turns started in this game (1-based).
func (r *Round) TurnNumber() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.turns.TurnNumber()
}

// Participants returns the roster in turn order.
func (r *Round) Participants() []*Participant {
	out := make([]*Participant, len(r.participants))
	copy(out, r.participants)
	return out
}

// Participant returns the participant at index i.
func (r *Round) Participant(i int) (*Participant, bool) {
	if i < 0 || i >= len(r.participants) {
		return nil, false
	}
	return r.participants[i], true
}

// SupplyRemaining returns how many copies of a card type are left to deal.
func (r *Round) SupplyRemaining(t cards.Type) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.supply.Remaining(t)
}

// Start begins a new game: the card supply is refilled, every participant
// is reset and dealt a fresh hand, and the first participant plays first
// in the first season. Calling Start again restarts from scratch.
func (r *Round) Start() {
	defer r.flush()
	r.mu.Lock()
	defer r.mu.Unlock()

	r.supply.ResetAll()
	for _, p := range r.participants {
		p.reset(r.cfg.InitialSmallUnits)
	}
	r.turns = rules.NewTurnManager(len(r.participants))

	r.deal(cards.KindIngredient, r.cfg.CardsInHand, (*Participant).canTakeCard, (*Participant).takeCard)
	r.deal(cards.KindAllied, r.cfg.AlliedCardsInHand, (*Participant).canTakeAlly, (*Participant).takeAlly)

	r.state = RoundStateRunning
	r.emit(rules.NewEvent(rules.EventGameStarted, r.id, rules.NoParticipant, r.turns.CurrentSeason()))
	r.logger.Info("round started",
		zap.Int("participants", len(r.participants)),
		zap.Int("ingredients_left", r.supply.RemainingOfKind(cards.KindIngredient)),
		zap.Int("allies_left", r.supply.RemainingOfKind(cards.KindAllied)),
	)
}

// deal hands out count cards of a kind to every participant, one slot at a
// time in turn order. An exhausted supply leaves the remaining slots empty.
func (r *Round) deal(kind cards.Kind, count int, canTake func(*Participant) bool, take func(*Participant, cards.Card)) {
	for slot := 0; slot < count; slot++ {
		for _, p := range r.participants {
			if !canTake(p) {
				continue
			}
			card, err := r.supply.Draw(r.rng, kind)
			if err != nil {
				r.logger.Warn("card supply exhausted while dealing",
					zap.String("kind", string(kind)),
					zap.Int("participant", p.index),
					zap.Error(err),
				)
				r.emit(rules.NewEvent(rules.EventSupplyExhausted, r.id, p.index, r.turns.CurrentSeason()))
				return
			}
			take(p, card)
			evt := rules.NewEvent(rules.EventCardDealt, r.id, p.index, r.turns.CurrentSeason())
			evt.Card = string(card.Type)
			r.emit(evt)
		}
	}
}

// NextTurn plays card for action on behalf of the current participant,
// resolves its effect and passes the turn. target is required for actions
// aimed at another participant and ignored otherwise. A failed call leaves
// the round unchanged.
func (r *Round) NextTurn(card cards.Type, action cards.Action, target *Participant) error {
	return r.PlayTurn(Decision{Action: action, Card: card, Target: target})
}

// PlayTurn plays a full decision for the current participant: the attached
// allied card, if any, is resolved first, then the primary card, then the
// turn passes.
func (r *Round) PlayTurn(d Decision) error {
	defer r.flush()
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkRunning(); err != nil {
		return err
	}
	actor := r.participants[r.turns.CurrentIndex()]

	card, target, err := r.validatePrimary(actor, d)
	if err != nil {
		return err
	}
	var ally cards.Card
	var allyTarget *Participant
	if d.HasAlly() {
		if ally, allyTarget, err = r.validateAlly(actor, d); err != nil {
			return err
		}
	}

	if !ally.IsZero() {
		actor.removeAlly(ally.Type)
		r.resolve(actor, ally, ally.Actions()[0], allyTarget, rules.EventAlliedCardPlayed)
	}
	actor.removeCard(card.Type)
	r.resolve(actor, card, d.Action, target, rules.EventCardPlayed)

	r.advance(actor)
	return nil
}

func (r *Round) checkRunning() error {
	switch r.state {
	case RoundStateConfigured:
		return ErrGameNotRunning
	case RoundStateFinished:
		return ErrGameFinished
	}
	return nil
}

func (r *Round) validatePrimary(actor *Participant, d Decision) (cards.Card, *Participant, error) {
	if d.Action.Kind() != cards.KindIngredient {
		return cards.Card{}, nil, fmt.Errorf("%w: %q cannot be played from the hand", ErrInvalidAction, d.Action)
	}
	card, ok := actor.Card(d.Card)
	if !ok {
		return cards.Card{}, nil, fmt.Errorf("%s plays %s: %w", actor.Name(), d.Card, ErrCardNotHeld)
	}
	if !card.Offers(d.Action) {
		return cards.Card{}, nil, fmt.Errorf("%w: %s has no %s effect", ErrInvalidAction, card.Type, d.Action)
	}
	if !d.Action.NeedsTarget() {
		return card, nil, nil
	}
	target, err := r.resolveTarget(actor, d.Target)
	if err != nil {
		return cards.Card{}, nil, fmt.Errorf("%s with %s: %w", d.Action, card.Type, err)
	}
	return card, target, nil
}

func (r *Round) validateAlly(actor *Participant, d Decision) (cards.Card, *Participant, error) {
	ally, ok := actor.Ally(d.Ally)
	if !ok {
		return cards.Card{}, nil, fmt.Errorf("%s plays %s: %w", actor.Name(), d.Ally, ErrAllyNotHeld)
	}
	actions := ally.Actions()
	if ally.Kind != cards.KindAllied || len(actions) == 0 {
		return cards.Card{}, nil, fmt.Errorf("%w: %s is not an allied card", ErrInvalidAction, ally.Type)
	}
	if !actions[0].NeedsTarget() {
		return ally, nil, nil
	}
	target, err := r.resolveTarget(actor, d.Target)
	if err != nil {
		return cards.Card{}, nil, fmt.Errorf("%s with %s: %w", actions[0], ally.Type, err)
	}
	return ally, target, nil
}

// resolveTarget maps a target, which may be a detached copy handed to a
// strategy, onto the round's own participant.
func (r *Round) resolveTarget(actor, target *Participant) (*Participant, error) {
	if target == nil {
		return nil, ErrTargetRequired
	}
	p, ok := r.Participant(target.Index())
	if !ok {
		return nil, fmt.Errorf("%w: no participant %d", ErrInvalidTarget, target.Index())
	}
	if p == actor {
		return nil, fmt.Errorf("%w: %s cannot target itself", ErrInvalidTarget, actor.Name())
	}
	return p, nil
}

func (r *Round) resolve(actor *Participant, card cards.Card, action cards.Action, target *Participant, played rules.EventType) {
	season := r.turns.CurrentSeason()
	magnitude := card.Effect(action, season)
	targetIndex := rules.NoParticipant
	if target != nil {
		targetIndex = target.index
	}

	evt := rules.NewEventWithAmount(played, r.id, actor.index, targetIndex, season, magnitude)
	evt.Card = string(card.Type)
	evt.Action = string(action)
	r.emit(evt)

	var resultType rules.EventType
	var amount int
	switch action {
	case cards.ActionFertilize:
		resultType, amount = rules.EventFertilized, fertilize(actor, magnitude)
	case cards.ActionGiant:
		resultType, amount = rules.EventGiantTrade, giantTrade(actor, magnitude)
	case cards.ActionHobgoblin:
		stolen, absorbed := hobgoblin(actor, target, magnitude)
		if absorbed > 0 {
			r.emit(rules.NewEventWithAmount(rules.EventProtectionUsed, r.id, actor.index, targetIndex, season, absorbed))
		}
		resultType, amount = rules.EventStolen, stolen
	case cards.ActionTaupe:
		resultType, amount = rules.EventRaided, taupe(target, magnitude)
	case cards.ActionGuard:
		resultType, amount = rules.EventProtectionGained, guard(actor, magnitude)
	}

	result := rules.NewEventWithAmount(resultType, r.id, actor.index, targetIndex, season, amount)
	result.Card = string(card.Type)
	result.Action = string(action)
	r.emit(result)

	r.logger.Debug("card resolved",
		zap.Int("participant", actor.index),
		zap.Int("target", targetIndex),
		zap.String("season", season.String()),
		zap.String("card", string(card.Type)),
		zap.String("action", string(action)),
		zap.Int("magnitude", magnitude),
		zap.Int("amount", amount),
	)
}

// advance passes the turn to the next participant, moving to the next
// season when the order wraps and finishing the round after the last one.
func (r *Round) advance(actor *Participant) {
	played := r.turns.CurrentSeason()
	_, season, changed := r.turns.Advance()
	r.emit(rules.NewEvent(rules.EventTurnEnded, r.id, actor.index, played))

	switch {
	case r.turns.Finished():
		r.state = RoundStateFinished
		r.emit(rules.NewEvent(rules.EventGameFinished, r.id, rules.NoParticipant, season))
		r.logger.Info("round finished", zap.Int("turns", r.turns.TurnNumber()-1))
	case changed:
		r.emit(rules.NewEvent(rules.EventSeasonChanged, r.id, rules.NoParticipant, season))
		r.logger.Info("season changed", zap.String("season", season.String()))
	}
}

func (r *Round) emit(evt rules.Event) {
	r.pending = append(r.pending, evt)
}

// flush publishes the events gathered during the last call once the turn
// lock is released, so listeners may read the round.
func (r *Round) flush() {
	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	r.mu.Unlock()

	for _, evt := range pending {
		r.events.Publish(evt)
	}
}

// Situation returns a detached view of the round for the current
// participant. Strategies decide from it without touching live state.
func (r *Round) Situation() Situation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]*Participant, len(r.participants))
	for i, p := range r.participants {
		players[i] = p.Copy()
	}
	return Situation{
		Season:  r.turns.CurrentSeason(),
		Self:    players[r.turns.CurrentIndex()],
		Players: players,
	}
}

// Decide asks decider for the current participant's move.
func (r *Round) Decide(decider Decider) (Decision, error) {
	if decider == nil {
		return Decision{}, errors.New("no decider")
	}
	if err := func() error {
		r.mu.RLock()
		defer r.mu.RUnlock()
		return r.checkRunning()
	}(); err != nil {
		return Decision{}, err
	}
	return decider.Decide(r.Situation()), nil
}
