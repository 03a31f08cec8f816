package models

import "strings"

// ColorSymbol is one of the five mana colors.
type ColorSymbol string

const (
	ColorWhite ColorSymbol = "W"
	ColorBlue  ColorSymbol = "U"
	ColorBlack ColorSymbol = "B"
	ColorRed   ColorSymbol = "R"
	ColorGreen ColorSymbol = "G"
)

var colorNames = map[ColorSymbol]string{
	ColorWhite: "White",
	ColorBlue:  "Blue",
	ColorBlack: "Black",
	ColorRed:   "Red",
	ColorGreen: "Green",
}

// AllColors returns every color in WUBRG order.
func AllColors() []ColorSymbol {
	return []ColorSymbol{ColorWhite, ColorBlue, ColorBlack, ColorRed, ColorGreen}
}

// Valid reports whether c is a known color.
func (c ColorSymbol) Valid() bool {
	_, ok := colorNames[c]
	return ok
}

// Display returns the color name (e.g., "Blue").
func (c ColorSymbol) Display() string {
	return colorNames[c]
}

// ParseColor maps an upstream symbol (exact match) to a ColorSymbol.
func ParseColor(s string) (ColorSymbol, bool) {
	c := ColorSymbol(s)
	return c, c.Valid()
}

// FormatName is a tracked play format.
type FormatName string

const (
	FormatStandard  FormatName = "Standard"
	FormatModern    FormatName = "Modern"
	FormatLegacy    FormatName = "Legacy"
	FormatPauper    FormatName = "Pauper"
	FormatVintage   FormatName = "Vintage"
	FormatCommander FormatName = "Commander"
)

var formatNames = map[FormatName]string{
	FormatStandard:  "Standard",
	FormatModern:    "Modern",
	FormatLegacy:    "Legacy",
	FormatPauper:    "Pauper",
	FormatVintage:   "Vintage",
	FormatCommander: "Commander/EDH",
}

// AllFormats returns every tracked format.
func AllFormats() []FormatName {
	return []FormatName{FormatStandard, FormatModern, FormatLegacy, FormatPauper, FormatVintage, FormatCommander}
}

// Valid reports whether f is a tracked format.
func (f FormatName) Valid() bool {
	_, ok := formatNames[f]
	return ok
}

// Display returns the human readable format name.
func (f FormatName) Display() string {
	return formatNames[f]
}

// ParseFormat maps a capitalized format name to a FormatName.
// "EDH" is accepted as the older name for Commander.
func ParseFormat(s string) (FormatName, bool) {
	if s == "EDH" {
		return FormatCommander, true
	}
	f := FormatName(s)
	return f, f.Valid()
}

// RaritySymbol is the single-letter rarity code.
type RaritySymbol string

const (
	RarityCommon   RaritySymbol = "C"
	RarityUncommon RaritySymbol = "U"
	RarityRare     RaritySymbol = "R"
	RarityMythic   RaritySymbol = "M"
)

var rarityNames = map[RaritySymbol]string{
	RarityCommon:   "Common",
	RarityUncommon: "Uncommon",
	RarityRare:     "Rare",
	RarityMythic:   "Mythic",
}

// AllRarities returns every rarity from most to least common.
func AllRarities() []RaritySymbol {
	return []RaritySymbol{RarityCommon, RarityUncommon, RarityRare, RarityMythic}
}

// Valid reports whether r is a known rarity.
func (r RaritySymbol) Valid() bool {
	_, ok := rarityNames[r]
	return ok
}

// Display returns the rarity name.
func (r RaritySymbol) Display() string {
	return rarityNames[r]
}

// ParseRarity maps an upstream rarity string ("common", "mythic", ...)
// to the rarity whose display name starts with the same letter.
func ParseRarity(s string) (RaritySymbol, bool) {
	if s == "" {
		return "", false
	}
	r := RaritySymbol(strings.ToUpper(s[:1]))
	return r, r.Valid()
}

// Language is the printed language of an owned copy.
type Language string

const (
	LanguageEnglish    Language = "EN"
	LanguageSpanish    Language = "ES"
	LanguageFrench     Language = "FR"
	LanguageGerman     Language = "DE"
	LanguageItalian    Language = "IT"
	LanguagePortuguese Language = "PT"
	LanguageJapanese   Language = "JA"
	LanguageKorean     Language = "KO"
	LanguageRussian    Language = "RU"
	LanguageChinese    Language = "CH"
)

var languageNames = map[Language]string{
	LanguageEnglish:    "English",
	LanguageSpanish:    "Spanish",
	LanguageFrench:     "French",
	LanguageGerman:     "German",
	LanguageItalian:    "Italian",
	LanguagePortuguese: "Portuguese",
	LanguageJapanese:   "Japanese",
	LanguageKorean:     "Korean",
	LanguageRussian:    "Russian",
	LanguageChinese:    "Chinese",
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	_, ok := languageNames[l]
	return ok
}

// Display returns the language name.
func (l Language) Display() string {
	return languageNames[l]
}

// Condition is the physical state of an owned copy.
type Condition string

const (
	ConditionNearlyMint    Condition = "NM"
	ConditionExcellent     Condition = "EX"
	ConditionLightlyPlayed Condition = "LP"
	ConditionPlayed        Condition = "PL"
)

var conditionNames = map[Condition]string{
	ConditionNearlyMint:    "Nearly Mint",
	ConditionExcellent:     "Excellent",
	ConditionLightlyPlayed: "Lightly Played",
	ConditionPlayed:        "Played",
}

// Valid reports whether c is a known condition.
func (c Condition) Valid() bool {
	_, ok := conditionNames[c]
	return ok
}

// Display returns the condition name.
func (c Condition) Display() string {
	return conditionNames[c]
}
