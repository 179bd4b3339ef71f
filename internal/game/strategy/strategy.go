// Package strategy chooses moves for computer-controlled participants.
//
// A strategy is a pure function of a game.Situation: it reads the detached
// roster it is handed and returns a game.Decision without keeping state, so
// a single value can serve every computer participant.
package strategy

import (
	"fmt"
	"strings"

	"github.com/magefree/menhir-server-go/internal/game"
)

// Kind names a strategy.
type Kind string

const (
	KindSafe   Kind = "safe"
	KindHarass Kind = "harass"
)

// Strategy is a named decision maker.
type Strategy interface {
	game.Decider
	Name() string
}

// Kinds returns every known strategy kind.
func Kinds() []Kind {
	return []Kind{KindSafe, KindHarass}
}

// New creates the strategy of the given kind.
func New(kind Kind) (Strategy, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(string(kind)))) {
	case KindSafe:
		return Safe{}, nil
	case KindHarass:
		return Harass{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy: %q", kind)
	}
}
