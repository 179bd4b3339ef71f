package main

import (
	"testing"

	"github.com/magefree/menhir-server-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withFlags(t *testing.T, p, c int) {
	t.Helper()
	oldPlayers, oldComputers := *players, *computers
	*players, *computers = p, c
	t.Cleanup(func() { *players, *computers = oldPlayers, oldComputers })
}

func TestOverrideConfigPlayersClampsComputers(t *testing.T) {
	withFlags(t, 2, 0)
	cfg := config.Default()
	require.Equal(t, 3, cfg.Game.Computers)

	overrideConfig(cfg, map[string]bool{"players": true})

	assert.Equal(t, 2, cfg.Game.Participants)
	assert.Equal(t, 2, cfg.Game.Computers)
	assert.NoError(t, cfg.Validate())
}

func TestOverrideConfigExplicitComputers(t *testing.T) {
	withFlags(t, 2, 1)
	cfg := config.Default()

	overrideConfig(cfg, map[string]bool{"players": true, "computers": true})

	assert.Equal(t, 2, cfg.Game.Participants)
	assert.Equal(t, 1, cfg.Game.Computers)
	assert.NoError(t, cfg.Validate())
}

func TestOverrideConfigKeepsComputersThatFit(t *testing.T) {
	withFlags(t, 6, 0)
	cfg := config.Default()

	overrideConfig(cfg, map[string]bool{"players": true})

	assert.Equal(t, 6, cfg.Game.Participants)
	assert.Equal(t, 3, cfg.Game.Computers)
}

func TestStrategyNames(t *testing.T) {
	assert.Equal(t, "safe, harass", strategyNames())
}
