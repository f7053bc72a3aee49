// Package strength scores passwords on a 0..100 scale from simple
// composition rules. The score is a heuristic, not an entropy estimate.
package strength

import (
	"strings"
	"unicode/utf8"
)

// Symbols are the punctuation characters that count towards the symbol rule.
const Symbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// NeutralColor is shown for an empty password.
const NeutralColor = "#e9ecef"

const maxScore = 100

type Level int

const (
	LevelNone Level = iota
	LevelVeryWeak
	LevelWeak
	LevelMedium
	LevelGood
	LevelExcellent
)

var levels = [...]struct {
	label string
	color string
}{
	LevelNone:      {"", NeutralColor},
	LevelVeryWeak:  {"Very Weak", "#dc3545"},
	LevelWeak:      {"Weak", "#fd7e14"},
	LevelMedium:    {"Medium", "#ffc107"},
	LevelGood:      {"Good", "#20c997"},
	LevelExcellent: {"Excellent", "#28a745"},
}

func (l Level) Label() string { return levels[l].label }

func (l Level) Color() string { return levels[l].color }

type Result struct {
	Score int
	Level Level
	Label string
	Color string
}

// Dots is the number of filled segments of a five-segment meter.
func (r Result) Dots() int {
	return Dots(r.Score)
}

// Score rates password. It is total: the empty string scores 0 with no label.
func Score(password string) Result {
	if password == "" {
		return newResult(0, LevelNone)
	}

	length := utf8.RuneCountInString(password)

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(Symbols, r):
			hasSymbol = true
		}
	}

	score := 0
	for _, ok := range []bool{length >= 8, hasUpper, hasLower, hasDigit, hasSymbol} {
		if ok {
			score += 20
		}
	}
	if length >= 12 {
		score += 10
	}
	if length >= 16 {
		score += 10
	}
	score = min(score, maxScore)

	return newResult(score, levelFor(score))
}

func newResult(score int, level Level) Result {
	return Result{Score: score, Level: level, Label: level.Label(), Color: level.Color()}
}

func levelFor(score int) Level {
	switch {
	case score < 40:
		return LevelVeryWeak
	case score < 60:
		return LevelWeak
	case score < 80:
		return LevelMedium
	case score < 100:
		return LevelGood
	default:
		return LevelExcellent
	}
}

// Dots returns ceil(score/20) clamped to [0,5].
func Dots(score int) int {
	d := (score + 19) / 20
	return max(0, min(d, 5))
}
