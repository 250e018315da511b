package matchtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionCompatibility(t *testing.T) {
	tests := []struct {
		name     string
		player   Player
		slot     Position
		expected float64
	}{
		{"exact primary match", Player{PrimaryPosition: PosCM}, PosCM, 1.0},
		{"secondary position match", Player{PrimaryPosition: PosCM, SecondaryPositions: []Position{PosST}}, PosST, 0.7},
		{"neighbor position", Player{PrimaryPosition: PosDM}, PosCM, 0.7},
		{"neighbor the other direction", Player{PrimaryPosition: PosAM}, PosCM, 0.7},
		{"out-of-group outfield", Player{PrimaryPosition: PosCB}, PosST, 0.3},
		{"gk vs outfield mismatch", Player{PrimaryPosition: PosGK}, PosST, 0.0},
		{"outfield vs gk slot", Player{PrimaryPosition: PosCB}, PosGK, 0.0},
		{"gk exact match", Player{PrimaryPosition: PosGK}, PosGK, 1.0},
		{"striker family neighbor", Player{PrimaryPosition: PosCF}, PosST, 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PositionCompatibility(tt.player, tt.slot)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSideOther(t *testing.T) {
	assert.Equal(t, SideAway, SideHome.Other())
	assert.Equal(t, SideHome, SideAway.Other())
}

func TestAttributeBundleDefaults(t *testing.T) {
	var bundle AttributeBundle
	assert.Equal(t, 10.0, bundle.Finishing(), "unset attribute should default to 10")
	assert.Equal(t, 10.0, bundle.Reflexes())

	bundle.Technical.Finishing = 18
	assert.Equal(t, 18.0, bundle.Finishing())

	bundle.Technical.Finishing = 25
	assert.Equal(t, 20.0, bundle.Finishing(), "attribute value should clamp to 20")
}

func TestAttributeBundleAbilityDefault(t *testing.T) {
	var bundle AttributeBundle
	assert.Equal(t, 100, bundle.Ability(), "unset current_ability should default to 100")

	bundle.CurrentAbility = 145
	assert.Equal(t, 145, bundle.Ability())
}
