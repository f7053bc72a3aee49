// Package suggest produces memorable password suggestions from a few
// personal tokens. A generative model is used when one is configured; a
// deterministic local composition is used otherwise, and whenever the model
// fails or returns something unusable. A suggestion is therefore always produced.
package suggest

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/passkeeper/internal/common"
)

const (
	// Symbols is the symbol set for both the prompt and the local fallback.
	Symbols = "!@#$%^&*"

	MinLength = 8
	MaxLength = 16
)

type Request struct {
	Name     string
	Number   string
	Favorite string
	Platform string
}

type Result struct {
	Succeeded bool
	Password  string
	Message   string
}

// Suggester returns a suggestion for req. The only error is a
// *common.ValidationError for a request missing a required token.
type Suggester interface {
	Suggest(ctx context.Context, req Request) (Result, error)
}

// Completer is a text-generation backend.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

func (r Request) normalize() Request {
	return Request{
		Name:     strings.TrimSpace(r.Name),
		Number:   strings.TrimSpace(r.Number),
		Favorite: strings.TrimSpace(r.Favorite),
		Platform: strings.TrimSpace(r.Platform),
	}
}

func (r Request) validate() error {
	switch {
	case r.Name == "":
		return common.NewValidationError("name", "is required")
	case r.Number == "":
		return common.NewValidationError("number", "is required")
	case r.Favorite == "":
		return common.NewValidationError("favorite", "is required")
	}
	return nil
}
