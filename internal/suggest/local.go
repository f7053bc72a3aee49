package suggest

import (
	"context"
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Local composes a password from the request tokens:
// Name (first letter upper, rest lower) + favorite (lower) + number + one symbol.
type Local struct {
	// symbolIndex picks the trailing symbol; replaced in tests.
	symbolIndex func(n int) int
}

func NewLocal() *Local {
	return &Local{symbolIndex: rand.IntN}
}

func (l *Local) Suggest(_ context.Context, req Request) (Result, error) {
	req = req.normalize()
	if err := req.validate(); err != nil {
		return Result{}, err
	}
	return Result{
		Succeeded: true,
		Password:  l.compose(req),
		Message:   "password generated locally",
	}, nil
}

func (l *Local) compose(req Request) string {
	var b strings.Builder
	b.WriteString(capitalize(req.Name))
	b.WriteString(strings.ToLower(req.Favorite))
	b.WriteString(req.Number)
	b.WriteByte(Symbols[l.symbolIndex(len(Symbols))])
	return b.String()
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
