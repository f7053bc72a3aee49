// Package generator builds random passwords that contain at least one
// lowercase letter, uppercase letter, digit and symbol.
//
// The randomness comes from math/rand/v2, which is fast but NOT
// cryptographically secure. Use the output as a convenience suggestion only.
package generator

import (
	"errors"
	"math/rand/v2"
)

const (
	Lowercase = "abcdefghijklmnopqrstuvwxyz"
	Uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Digits    = "0123456789"
	Symbols   = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	// MinLength is the shortest password that can hold all four classes.
	MinLength = 4

	DefaultLength = 12
	MinUILength   = 6
	MaxUILength   = 32
)

var ErrInvalidLength = errors.New("password length must be at least 4")

var classes = []string{Lowercase, Uppercase, Digits, Symbols}

const all = Lowercase + Uppercase + Digits + Symbols

type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator drawing from src. Tests pass a seeded source.
func New(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// Generate returns a password of exactly length characters.
func (g *Generator) Generate(length int) (string, error) {
	if length < MinLength {
		return "", ErrInvalidLength
	}

	out := make([]byte, 0, length)
	for _, class := range classes {
		out = append(out, g.pick(class))
	}
	for len(out) < length {
		out = append(out, g.pick(all))
	}

	g.rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})

	return string(out), nil
}

func (g *Generator) pick(set string) byte {
	return set[g.rnd.IntN(len(set))]
}

var std = &Generator{rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}

// Generate uses a package-level generator seeded at start-up.
// It is not safe for concurrent use.
func Generate(length int) (string, error) {
	return std.Generate(length)
}

// ClampLength forces n into the range the CLI offers.
func ClampLength(n int) int {
	return max(MinUILength, min(n, MaxUILength))
}
