package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession("abcdef12")

	assert.Equal(t, "player_abcd", s.Profile.Username)
	assert.Equal(t, Playfield{Width: 10, Height: 20}, s.Playfield)
	assert.True(t, s.Profile.Playfield.ShowGhost)
	assert.Equal(t, "#071022", s.Profile.Playfield.BGColor)
	assert.Len(t, s.Profile.Playfield.BlockColors, 7)
	assert.Zero(t, s.Score)
	assert.Zero(t, s.ComboCount)
	assert.False(t, s.BackToBack)
	assert.Equal(t, ClearNone, s.LastClearType)
}

func TestProfileApplyMergesOnlyProvidedFields(t *testing.T) {
	s := NewSession("abcdef12")
	name := "speedster"
	ghost := false

	s.Profile.Apply(ProfileUpdate{Username: &name, ShowGhost: &ghost})

	assert.Equal(t, "speedster", s.Profile.Username)
	assert.False(t, s.Profile.Playfield.ShowGhost)
	// untouched fields keep their defaults
	assert.Equal(t, "#071022", s.Profile.Playfield.BGColor)
	assert.Equal(t, "#3dd3ff", s.Profile.AccentColor)
	assert.Equal(t, 14, s.Profile.FontSize)
}

func TestProfileApplyReplacesBlockColorsWholesale(t *testing.T) {
	s := NewSession("abcdef12")

	s.Profile.Apply(ProfileUpdate{BlockColors: map[string]string{"I": "#ffffff"}})

	assert.Equal(t, map[string]string{"I": "#ffffff"}, s.Profile.Playfield.BlockColors)
}

func TestProfileApplyEmptyUpdateIsNoOp(t *testing.T) {
	s := NewSession("abcdef12")
	before := s.Profile
	beforeColors := s.Profile.Playfield.BlockColors

	s.Profile.Apply(ProfileUpdate{})

	assert.Equal(t, before.Username, s.Profile.Username)
	assert.Equal(t, beforeColors, s.Profile.Playfield.BlockColors)
}
