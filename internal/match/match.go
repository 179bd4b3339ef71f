// Package match plays several rounds with the same roster and keeps the
// running totals used for the final rankings.
package match

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/magefree/menhir-server-go/internal/game"
	"github.com/magefree/menhir-server-go/internal/game/cards"
	"github.com/magefree/menhir-server-go/internal/game/rules"
	"go.uber.org/zap"
)

var (
	ErrMatchFinished   = errors.New("match already finished")
	ErrRoundInProgress = errors.New("round still in progress")
	ErrNoRound         = errors.New("no round in progress")
)

// State represents the state of a match
type State int

const (
	StateWaiting State = iota
	StateInProgress
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "WAITING"
	case StateInProgress:
		return "IN_PROGRESS"
	case StateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// RoundResult records how one finished round ended.
type RoundResult struct {
	Number    int
	RoundID   string
	Standings []game.Standing
}

// Snapshot captures a consistent view of a match.
type Snapshot struct {
	ID         string
	State      State
	NumRounds  int
	Played     int
	Results    []RoundResult
	Standings  []game.Standing
	CreateTime time.Time
	StartTime  *time.Time
	EndTime    *time.Time
}

// Option customizes a match.
type Option func(*Match)

// WithLogger sets the logger shared by the match and its rounds.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Match) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithCatalog plays every round with the given card catalog.
func WithCatalog(catalog *cards.Catalog) Option {
	return func(m *Match) { m.catalog = catalog }
}

// WithSeed makes every deal reproducible. Each round derives its own seed
// from it so consecutive rounds are not dealt identically.
func WithSeed(seed uint64) Option {
	return func(m *Match) {
		m.seed = seed
		m.seeded = true
	}
}

// WithEventBus publishes the events of every round on bus.
func WithEventBus(bus *rules.EventBus) Option {
	return func(m *Match) { m.events = bus }
}

// Match is a sequence of rounds played by one roster.
type Match struct {
	id     string
	base   game.RoundConfig
	rounds int
	logger *zap.Logger

	catalog *cards.Catalog
	events  *rules.EventBus
	seed    uint64
	seeded  bool

	mu         sync.RWMutex
	state      State
	current    *game.Round
	results    []RoundResult
	totals     []game.Standing
	createTime time.Time
	startTime  *time.Time
	endTime    *time.Time
}

// New creates a match of numRounds rounds. Every round uses base with its
// Number set to the round's position, starting at 1.
func New(base game.RoundConfig, numRounds int, opts ...Option) (*Match, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}
	if numRounds < 1 {
		return nil, &game.ConfigurationError{Field: "rounds", Value: numRounds, Reason: "must be at least 1"}
	}

	m := &Match{
		id:         uuid.New().String(),
		base:       base,
		rounds:     numRounds,
		logger:     zap.NewNop(),
		state:      StateWaiting,
		createTime: time.Now(),
		totals:     make([]game.Standing, base.Participants),
	}
	for _, opt := range opts {
		opt(m)
	}
	for i := range m.totals {
		m.totals[i] = game.Standing{Participant: i, Computer: i >= base.Participants-base.Computers}
	}
	m.logger = m.logger.With(zap.String("match_id", m.id))
	return m, nil
}

// ID returns the match identifier.
func (m *Match) ID() string {
	return m.id
}

// NumRounds returns how many rounds the match lasts.
func (m *Match) NumRounds() int {
	return m.rounds
}

// State returns the current match state.
func (m *Match) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Played returns the number of finished rounds.
func (m *Match) Played() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.results)
}

// Current returns the round being played, or nil between rounds.
func (m *Match) Current() *game.Round {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// NextRound creates and starts the next round.
func (m *Match) NextRound() (*game.Round, error) {
	round, err := m.openRound()
	if err != nil {
		return nil, err
	}
	// Started outside the match lock: round listeners may read the match.
	round.Start()
	return round, nil
}

func (m *Match) openRound() (*game.Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateFinished {
		return nil, ErrMatchFinished
	}
	if m.current != nil {
		return nil, ErrRoundInProgress
	}

	number := len(m.results) + 1
	cfg := m.base
	cfg.Number = number

	opts := []game.RoundOption{
		game.WithLogger(m.logger),
		game.WithCatalog(m.catalog),
		game.WithEventBus(m.events),
	}
	if m.seeded {
		opts = append(opts, game.WithSeed(m.seed+uint64(number-1)))
	}

	round, err := game.NewRound(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create round %d: %w", number, err)
	}

	if m.state == StateWaiting {
		now := time.Now()
		m.startTime = &now
		m.state = StateInProgress
	}
	m.current = round
	m.logger.Info("match round started",
		zap.Int("round", number),
		zap.Int("rounds", m.rounds),
		zap.String("round_id", round.ID()),
	)
	return round, nil
}

// FinishRound records the standings of the current round, which must have
// finished, and closes the match after the last round.
func (m *Match) FinishRound() (RoundResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return RoundResult{}, ErrNoRound
	}
	if m.current.State() != game.RoundStateFinished {
		return RoundResult{}, ErrRoundInProgress
	}

	result := RoundResult{
		Number:    m.current.Number(),
		RoundID:   m.current.ID(),
		Standings: m.current.Standings(),
	}
	for _, s := range result.Standings {
		m.totals[s.Participant].BigTotal += s.BigTotal
		m.totals[s.Participant].SmallTotal += s.SmallTotal
	}
	m.results = append(m.results, result)
	m.current = nil

	if len(m.results) >= m.rounds {
		now := time.Now()
		m.endTime = &now
		m.state = StateFinished
		m.logger.Info("match finished", zap.Int("rounds", len(m.results)))
	}
	return result, nil
}

// DecideFunc supplies the move of the current participant of a round.
type DecideFunc func(r *game.Round) (game.Decision, error)

// Computers decides every move with decider.
func Computers(decider game.Decider) DecideFunc {
	return func(r *game.Round) (game.Decision, error) {
		return r.Decide(decider)
	}
}

// Play runs the remaining rounds to completion, asking decide for every
// move. It stops between turns when ctx is cancelled.
func (m *Match) Play(ctx context.Context, decide DecideFunc) error {
	for m.State() != StateFinished {
		round := m.Current()
		if round == nil {
			var err error
			if round, err = m.NextRound(); err != nil {
				return err
			}
		}

		for round.Running() {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := decide(round)
			if err != nil {
				return fmt.Errorf("round %d: %w", round.Number(), err)
			}
			if err := round.PlayTurn(d); err != nil {
				return fmt.Errorf("round %d: %w", round.Number(), err)
			}
		}

		if _, err := m.FinishRound(); err != nil {
			return err
		}
	}
	return nil
}

// Standings ranks the roster by the totals summed over finished rounds.
func (m *Match) Standings() []game.Standing {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.standingsLocked()
}

func (m *Match) standingsLocked() []game.Standing {
	out := make([]game.Standing, len(m.totals))
	copy(out, m.totals)
	game.RankStandings(out)
	return out
}

// Snapshot returns a consistent copy of the match state.
func (m *Match) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]RoundResult, len(m.results))
	for i, r := range m.results {
		results[i] = RoundResult{
			Number:    r.Number,
			RoundID:   r.RoundID,
			Standings: append([]game.Standing(nil), r.Standings...),
		}
	}

	return Snapshot{
		ID:         m.id,
		State:      m.state,
		NumRounds:  m.rounds,
		Played:     len(m.results),
		Results:    results,
		Standings:  m.standingsLocked(),
		CreateTime: m.createTime,
		StartTime:  cloneTime(m.startTime),
		EndTime:    cloneTime(m.endTime),
	}
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	cp := *src
	return &cp
}
