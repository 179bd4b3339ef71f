package cards

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/magefree/menhir-server-go/internal/game/rules"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// catalogFile represents the top-level YAML structure.
type catalogFile struct {
	Cards []cardEntry `yaml:"cards"`
}

// cardEntry represents a single card definition in the YAML file.
type cardEntry struct {
	Type    string           `yaml:"type"`
	Name    string           `yaml:"name"`
	Kind    string           `yaml:"kind"`
	Supply  int              `yaml:"supply"`
	Effects map[string][]int `yaml:"effects"`
}

// Catalog is the fixed set of card definitions available to a game.
type Catalog struct {
	cards []Card
	index map[Type]int
}

// DefaultCatalog returns the built-in card catalog.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		c, err := ParseCatalog(defaultCatalogYAML)
		if err != nil {
			panic(fmt.Sprintf("invalid built-in card catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// LoadCatalog reads a YAML card catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read card catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses a YAML card catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse card catalog YAML: %w", err)
	}

	list := make([]Card, 0, len(cf.Cards))
	for i, entry := range cf.Cards {
		card, err := entry.toCard()
		if err != nil {
			return nil, fmt.Errorf("card %d (%s): %w", i, entry.Type, err)
		}
		list = append(list, card)
	}
	return NewCatalog(list)
}

func (e cardEntry) toCard() (Card, error) {
	card := Card{
		Type:    Type(e.Type),
		Name:    e.Name,
		Kind:    Kind(e.Kind),
		Supply:  e.Supply,
		effects: make(map[Action][rules.SeasonCount]int, len(e.Effects)),
	}
	if card.Name == "" {
		card.Name = e.Type
	}

	for name, values := range e.Effects {
		action, err := ParseAction(name)
		if err != nil {
			return Card{}, err
		}
		if len(values) != rules.SeasonCount {
			return Card{}, fmt.Errorf("action %s: expected %d seasonal values, got %d", action, rules.SeasonCount, len(values))
		}
		var table [rules.SeasonCount]int
		copy(table[:], values)
		card.effects[action] = table
	}
	return card, nil
}

// NewCatalog builds a catalog from card definitions, validating them.
func NewCatalog(list []Card) (*Catalog, error) {
	if len(list) == 0 {
		return nil, errors.New("card catalog is empty")
	}

	c := &Catalog{
		cards: make([]Card, 0, len(list)),
		index: make(map[Type]int, len(list)),
	}
	for _, card := range list {
		if err := validateCard(card); err != nil {
			return nil, fmt.Errorf("card %s: %w", card.Type, err)
		}
		if _, dup := c.index[card.Type]; dup {
			return nil, fmt.Errorf("duplicate card type %s", card.Type)
		}
		c.index[card.Type] = len(c.cards)
		c.cards = append(c.cards, card)
	}
	return c, nil
}

func validateCard(card Card) error {
	if card.Type == "" {
		return errors.New("missing type")
	}
	if !card.Kind.Valid() {
		return fmt.Errorf("unknown kind %q", card.Kind)
	}
	if card.Supply < 0 {
		return fmt.Errorf("negative supply %d", card.Supply)
	}
	if len(card.effects) == 0 {
		return errors.New("no effects")
	}
	for action, values := range card.effects {
		if action.Kind() != card.Kind {
			return fmt.Errorf("action %s not allowed on %s card", action, card.Kind)
		}
		for _, v := range values {
			if v < 0 {
				return fmt.Errorf("action %s: negative magnitude %d", action, v)
			}
		}
	}
	return nil
}

// Card returns the definition for a card type.
func (c *Catalog) Card(t Type) (Card, bool) {
	i, ok := c.index[t]
	if !ok {
		return Card{}, false
	}
	return c.cards[i], true
}

// Effect returns the magnitude of a card type for the action in the season.
// Unknown card types have magnitude 0.
func (c *Catalog) Effect(t Type, action Action, season rules.Season) int {
	card, ok := c.Card(t)
	if !ok {
		return 0
	}
	return card.Effect(action, season)
}

// Cards returns every card definition in catalog order.
func (c *Catalog) Cards() []Card {
	out := make([]Card, len(c.cards))
	copy(out, c.cards)
	return out
}

// OfKind returns the card definitions of one kind in catalog order.
func (c *Catalog) OfKind(kind Kind) []Card {
	var out []Card
	for _, card := range c.cards {
		if card.Kind == kind {
			out = append(out, card)
		}
	}
	return out
}

// Len returns the number of card definitions.
func (c *Catalog) Len() int {
	return len(c.cards)
}
