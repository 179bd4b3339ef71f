package match

import (
	"sync"

	"github.com/magefree/menhir-server-go/internal/game"
	"go.uber.org/zap"
)

// Manager manages matches
type Manager struct {
	matches map[string]*Match
	order   []string // creation order
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewManager creates a new match manager
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		matches: make(map[string]*Match),
		logger:  logger,
	}
}

// CreateMatch creates and registers a new match. The manager's logger is
// used unless opts set another.
func (m *Manager) CreateMatch(base game.RoundConfig, numRounds int, opts ...Option) (*Match, error) {
	opts = append([]Option{WithLogger(m.logger)}, opts...)
	match, err := New(base, numRounds, opts...)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.matches[match.ID()] = match
	m.order = append(m.order, match.ID())
	m.mu.Unlock()

	m.logger.Info("match created",
		zap.String("match_id", match.ID()),
		zap.Int("participants", base.Participants),
		zap.Int("computers", base.Computers),
		zap.Int("rounds", numRounds),
	)
	return match, nil
}

// GetMatch retrieves a match by ID
func (m *Manager) GetMatch(matchID string) (*Match, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	match, ok := m.matches[matchID]
	return match, ok
}

// RemoveMatch removes a match
func (m *Manager) RemoveMatch(matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.matches, matchID)
	for i, id := range m.order {
		if id == matchID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	m.logger.Info("match removed", zap.String("match_id", matchID))
}

// GetAllMatches returns all matches, oldest first.
func (m *Manager) GetAllMatches() []*Match {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]*Match, 0, len(m.order))
	for _, id := range m.order {
		if match, ok := m.matches[id]; ok {
			matches = append(matches, match)
		}
	}
	return matches
}

// GetActiveMatchCount returns the count of unfinished matches
func (m *Manager) GetActiveMatchCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, match := range m.matches {
		if match.State() != StateFinished {
			count++
		}
	}
	return count
}
