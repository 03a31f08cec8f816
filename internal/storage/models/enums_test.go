package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseColor(t *testing.T) {
	for _, c := range AllColors() {
		got, ok := ParseColor(string(c))
		assert.True(t, ok, "color %s", c)
		assert.Equal(t, c, got)
		assert.NotEmpty(t, c.Display())
	}

	_, ok := ParseColor("C")
	assert.False(t, ok, "colorless is not a tracked color")

	_, ok = ParseColor("u")
	assert.False(t, ok, "symbols match exactly")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want FormatName
		ok   bool
	}{
		{"Standard", FormatStandard, true},
		{"Modern", FormatModern, true},
		{"Commander", FormatCommander, true},
		{"EDH", FormatCommander, true},
		{"Pioneer", "", false},
		{"standard", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseFormat(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseRarity(t *testing.T) {
	tests := []struct {
		in   string
		want RaritySymbol
		ok   bool
	}{
		{"common", RarityCommon, true},
		{"uncommon", RarityUncommon, true},
		{"rare", RarityRare, true},
		{"mythic", RarityMythic, true},
		{"special", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRarity(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
				assert.Equal(t, tt.want.Display()[:1], string(got))
			}
		})
	}
}

func TestLanguageAndCondition(t *testing.T) {
	assert.True(t, LanguageJapanese.Valid())
	assert.Equal(t, "Chinese", LanguageChinese.Display())
	assert.False(t, Language("XX").Valid())

	assert.True(t, ConditionLightlyPlayed.Valid())
	assert.Equal(t, "Nearly Mint", ConditionNearlyMint.Display())
	assert.False(t, Condition("MT").Valid())
}
